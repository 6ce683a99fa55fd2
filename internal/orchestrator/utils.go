package orchestrator

import (
	"net/url"
	"path/filepath"
	"strings"
)

// NoImage replaces the image of a paragraph whose illustration failed.
const NoImage = "None"

// PublishImages rewrites local image paths into URLs under baseURL, keeping
// only the file name. Empty paths become NoImage.
func PublishImages(story *Story, baseURL string) {
	if story == nil {
		return
	}
	for i := range story.Paragraphs {
		story.Paragraphs[i].Image = publicImageURL(story.Paragraphs[i].Image, baseURL)
	}
}

// publicImageURL maps a single local path to its public URL
func publicImageURL(localPath, baseURL string) string {
	if localPath == "" {
		return NoImage
	}
	name := filepath.Base(localPath)
	return strings.TrimSuffix(baseURL, "/") + "/" + url.PathEscape(name)
}
