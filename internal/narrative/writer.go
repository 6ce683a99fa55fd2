package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Yates-Labs/storyteller/internal/tracer"
)

var (
	ErrGenerationFailed = errors.New("story generation failed")
	ErrInvalidPrompt    = errors.New("invalid story prompt")
	ErrMalformedStory   = errors.New("malformed story response")
)

// Writer produces structured stories from prompts using an LLM.
// A Writer is safe for concurrent use. It remembers at most DefaultHistoryLimit
// stories.
type Writer struct {
	llm     LLM
	config  LLMConfig
	history History
}

// NewWriter creates a story writer with the given LLM implementation.
func NewWriter(llm LLM, config LLMConfig) *Writer {
	return &Writer{
		llm:     llm,
		config:  config,
		history: History{limit: DefaultHistoryLimit},
	}
}

// WriteStory asks the LLM for a story matching the story_paragraphs schema.
// Malformed output is a hard failure. Stories shorter than MinParagraphs are
// accepted and only logged.
func (w *Writer) WriteStory(ctx context.Context, prompt string) (StoryParagraphs, error) {
	if w.llm == nil {
		return StoryParagraphs{}, fmt.Errorf("%w: LLM is required", ErrGenerationFailed)
	}
	if strings.TrimSpace(prompt) == "" {
		return StoryParagraphs{}, fmt.Errorf("%w: prompt is required", ErrInvalidPrompt)
	}

	ctx, span := tracer.Start(ctx, "narrative.WriteStory")
	defer span.End()

	raw, err := w.llm.GenerateStructured(ctx, StructuredRequest{
		SystemPrompt: systemInstruction,
		Prompt:       userMessage(prompt),
		Schema:       StoryParagraphsSchema(),
	})
	if err != nil {
		span.RecordError(err)
		return StoryParagraphs{}, fmt.Errorf("%w: LLM invocation failed: %w", ErrGenerationFailed, err)
	}

	story, err := ParseStoryParagraphs(raw)
	if err != nil {
		span.RecordError(err)
		return StoryParagraphs{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	logger := zerolog.Ctx(ctx)
	if n := len(story.Paragraphs); n < MinParagraphs {
		logger.Warn().Int("paragraphs", n).Int("expected_min", MinParagraphs).Msg("story shorter than requested")
	}

	w.history.append(WrittenStory{
		Prompt:    prompt,
		Story:     story,
		Model:     w.config.Model,
		WrittenAt: time.Now(),
	})

	logger.Info().Int("paragraphs", len(story.Paragraphs)).Str("model", w.config.Model).Msg("story written")
	return story, nil
}

// Stories returns the most recent stories this writer has produced, oldest first.
func (w *Writer) Stories() []WrittenStory {
	return w.history.Stories()
}
