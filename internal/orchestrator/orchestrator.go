// Package orchestrator composes the story writer and the image materializer
// into the end-to-end story pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Yates-Labs/storyteller/internal/illustration"
	"github.com/Yates-Labs/storyteller/internal/metrics"
	"github.com/Yates-Labs/storyteller/internal/narrative"
	"github.com/Yates-Labs/storyteller/internal/storage"
	"github.com/Yates-Labs/storyteller/internal/tracer"
)

// StoryWriter produces the paragraphs of a story.
type StoryWriter interface {
	WriteStory(ctx context.Context, prompt string) (narrative.StoryParagraphs, error)
}

// ImageMaterializer produces a local image file for a prompt, or "" on failure.
type ImageMaterializer interface {
	GenerateImage(ctx context.Context, imagePrompt string) string
}

// GeneratedStoryItem is one paragraph of a finished story. Image holds a
// local path inside the pipeline and a public URL once published.
type GeneratedStoryItem struct {
	Paragraph string `json:"paragraph"`
	Image     string `json:"image"`
}

// Story is a finished story in paragraph order.
type Story struct {
	Paragraphs []GeneratedStoryItem `json:"paragraphs"`
}

// PipelineConfig holds configuration for building a Pipeline from scratch.
type PipelineConfig struct {
	// LLMConfig configures the text provider
	LLMConfig narrative.LLMConfig

	// ImageConfig configures the image provider
	ImageConfig illustration.ImageConfig

	// ImagesEnabled turns illustration on or off
	ImagesEnabled bool

	// ImagesDir is where generated images are written
	ImagesDir string

	// HTTPClient downloads generated images (nil = http.DefaultClient)
	HTTPClient *http.Client
}

// DefaultPipelineConfig returns sensible defaults for the story pipeline.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		LLMConfig:     narrative.DefaultLLMConfig(),
		ImageConfig:   illustration.DefaultImageConfig(),
		ImagesEnabled: true,
		ImagesDir:     "images",
	}
}

// Pipeline writes a story and then illustrates it paragraph by paragraph.
type Pipeline struct {
	writer StoryWriter
	images ImageMaterializer
}

// NewPipeline composes an existing writer and materializer.
// A nil materializer yields stories without images.
func NewPipeline(writer StoryWriter, images ImageMaterializer) *Pipeline {
	return &Pipeline{
		writer: writer,
		images: images,
	}
}

// NewStoryPipeline builds the provider clients, writer, file store and
// materializer described by config.
func NewStoryPipeline(config PipelineConfig, logger zerolog.Logger) (*Pipeline, error) {
	llm, err := narrative.NewOpenAILLM(config.LLMConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM: %w", err)
	}
	writer := narrative.NewWriter(llm, config.LLMConfig)

	store, err := storage.NewFileStore(config.ImagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create image store: %w", err)
	}

	var provider illustration.Provider = illustration.DisabledProvider{}
	if config.ImagesEnabled {
		p, err := illustration.NewOpenAIProvider(config.ImageConfig)
		switch {
		case errors.Is(err, illustration.ErrInvalidConfig):
			logger.Warn().Err(err).Msg("image provider not configured, stories will have no images")
		case err != nil:
			return nil, fmt.Errorf("failed to create image provider: %w", err)
		default:
			provider = p
		}
	}

	materializer := illustration.NewMaterializer(provider, store, config.HTTPClient)

	logger.Info().
		Str("model", config.LLMConfig.Model).
		Str("image_model", config.ImageConfig.Model).
		Str("images_dir", store.Dir()).
		Msg("story pipeline ready")

	return NewPipeline(writer, materializer), nil
}

// WriteStory writes the story for prompt and illustrates every paragraph in
// order. Story text failures abort; image failures only leave that
// paragraph's Image empty.
func (p *Pipeline) WriteStory(ctx context.Context, prompt string) (*Story, error) {
	// Check for context cancellation
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled before story generation: %w", err)
	}
	if p.writer == nil {
		return nil, errors.New("story writer is required")
	}

	ctx, span := tracer.Start(ctx, "orchestrator.WriteStory")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.StoryGenerationDuration.Observe(time.Since(start).Seconds())
	}()

	// Step 1: Write the story text
	paragraphs, err := p.writer.WriteStory(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		metrics.StoryGenerationTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to write story: %w", err)
	}

	// Step 2: Illustrate each paragraph, one at a time
	story := &Story{Paragraphs: make([]GeneratedStoryItem, 0, len(paragraphs.Paragraphs))}
	missing := 0
	for _, para := range paragraphs.Paragraphs {
		item := GeneratedStoryItem{Paragraph: para.Paragraph}
		if p.images != nil {
			item.Image = p.images.GenerateImage(ctx, para.ImagePrompt)
		}
		if item.Image == "" {
			missing++
		}
		story.Paragraphs = append(story.Paragraphs, item)
	}

	metrics.StoryGenerationTotal.WithLabelValues("success").Inc()
	metrics.StoryParagraphs.Observe(float64(len(story.Paragraphs)))

	zerolog.Ctx(ctx).Info().
		Int("paragraphs", len(story.Paragraphs)).
		Int("missing_images", missing).
		Dur("elapsed", time.Since(start)).
		Msg("story pipeline finished")

	return story, nil
}
