package narrative

import (
	"encoding/json"
	"fmt"
)

// MinParagraphs is the paragraph count the model is instructed to reach.
// Shorter stories are accepted.
const MinParagraphs = 5

// StoryParagraph is one unit of story text with a description for its illustration.
type StoryParagraph struct {
	Paragraph   string `json:"paragraph"`
	ImagePrompt string `json:"image_prompt"`
}

// StoryParagraphs is the structured story returned by the model.
type StoryParagraphs struct {
	Paragraphs []StoryParagraph `json:"paragraphs"`
}

// StoryParagraphsSchema is the strict JSON schema the model output must match.
func StoryParagraphsSchema() Schema {
	paragraph := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"paragraph": map[string]any{
				"type":        "string",
				"description": "One paragraph of the story.",
			},
			"image_prompt": map[string]any{
				"type":        "string",
				"description": "A visual description of the scene in this paragraph.",
			},
		},
		"required":             []string{"paragraph", "image_prompt"},
		"additionalProperties": false,
	}

	return Schema{
		Name:        "story_paragraphs",
		Description: "An ordered list of story paragraphs, each paired with an image prompt.",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"paragraphs": map[string]any{
					"type":  "array",
					"items": paragraph,
				},
			},
			"required":             []string{"paragraphs"},
			"additionalProperties": false,
		},
	}
}

// ParseStoryParagraphs decodes a model response into StoryParagraphs.
func ParseStoryParagraphs(raw string) (StoryParagraphs, error) {
	var doc struct {
		Paragraphs *[]StoryParagraph `json:"paragraphs"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return StoryParagraphs{}, fmt.Errorf("%w: %w", ErrMalformedStory, err)
	}
	if doc.Paragraphs == nil {
		return StoryParagraphs{}, fmt.Errorf("%w: missing paragraphs", ErrMalformedStory)
	}
	return StoryParagraphs{Paragraphs: *doc.Paragraphs}, nil
}
