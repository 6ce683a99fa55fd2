package orchestrator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportFormat represents supported export formats
type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatMarkdown ExportFormat = "markdown"
)

// StoryExport is a finished story with counts, as written to export files.
type StoryExport struct {
	Prompt         string               `json:"prompt"`
	ParagraphCount int                  `json:"paragraph_count"`
	ImageCount     int                  `json:"image_count"`
	ExportedAt     time.Time            `json:"exported_at"`
	Paragraphs     []GeneratedStoryItem `json:"paragraphs"`
}

// ExportStory writes story in the given format ("json" or "markdown").
func ExportStory(prompt string, story *Story, format string, writer io.Writer) error {
	if story == nil {
		return fmt.Errorf("nothing to export: story is nil")
	}

	export := enrichStory(prompt, story)

	switch ExportFormat(strings.ToLower(format)) {
	case FormatJSON, "":
		return exportJSON(export, writer)
	case FormatMarkdown, "md":
		return exportMarkdown(export, writer)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: json, markdown)", format)
	}
}

// enrichStory converts a Story to StoryExport with calculated counts
func enrichStory(prompt string, story *Story) StoryExport {
	images := 0
	for _, item := range story.Paragraphs {
		if item.Image != "" && item.Image != NoImage {
			images++
		}
	}

	return StoryExport{
		Prompt:         prompt,
		ParagraphCount: len(story.Paragraphs),
		ImageCount:     images,
		ExportedAt:     time.Now().UTC(),
		Paragraphs:     story.Paragraphs,
	}
}

// exportJSON writes the story as indented JSON
func exportJSON(export StoryExport, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// exportMarkdown writes the story as a markdown document with inline images
func exportMarkdown(export StoryExport, writer io.Writer) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", export.Prompt))
	for i, item := range export.Paragraphs {
		b.WriteString(strings.TrimSpace(item.Paragraph))
		b.WriteString("\n\n")
		if item.Image != "" && item.Image != NoImage {
			b.WriteString(fmt.Sprintf("![Illustration %d](%s)\n\n", i+1, item.Image))
		}
	}
	b.WriteString(fmt.Sprintf("_%d paragraphs, %d images_\n", export.ParagraphCount, export.ImageCount))

	_, err := io.WriteString(writer, b.String())
	return err
}
