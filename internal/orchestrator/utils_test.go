package orchestrator

import (
	"path/filepath"
	"testing"
)

func TestPublishImages(t *testing.T) {
	story := &Story{Paragraphs: []GeneratedStoryItem{
		{Paragraph: "one", Image: filepath.Join("images", "image_00ff.png")},
		{Paragraph: "two", Image: ""},
		{Paragraph: "three", Image: "/var/lib/storyteller/images/image_abcd.png"},
	}}

	PublishImages(story, "http://localhost:9000/images/")

	want := []string{
		"http://localhost:9000/images/image_00ff.png",
		NoImage,
		"http://localhost:9000/images/image_abcd.png",
	}
	for i, w := range want {
		if got := story.Paragraphs[i].Image; got != w {
			t.Errorf("paragraph %d: got %q, want %q", i, got, w)
		}
	}
	if story.Paragraphs[1].Paragraph != "two" {
		t.Error("paragraph text must be preserved")
	}
}

func TestPublishImages_Nil(t *testing.T) {
	PublishImages(nil, "http://x")
}

func TestPublicImageURL(t *testing.T) {
	tests := []struct {
		path, base, want string
	}{
		{"", "http://h/images", "None"},
		{"images/a.png", "http://h/images", "http://h/images/a.png"},
		{"images/a b.png", "https://h/images", "https://h/images/a%20b.png"},
	}

	for _, tt := range tests {
		if got := publicImageURL(tt.path, tt.base); got != tt.want {
			t.Errorf("publicImageURL(%q, %q) = %q, want %q", tt.path, tt.base, got, tt.want)
		}
	}
}
