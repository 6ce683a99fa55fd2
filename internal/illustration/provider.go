// Package illustration generates one picture per story paragraph and stores it
// on local disk. Failures never abort a story: they are logged and reported as
// an empty path.
package illustration

import (
	"context"
	"errors"
)

var (
	ErrImageFailed    = errors.New("image generation failed")
	ErrInvalidConfig  = errors.New("invalid image configuration")
	ErrEmptyImage     = errors.New("image provider returned no image")
	ErrEmptyPrompt    = errors.New("image prompt is empty")
	ErrDownloadFailed = errors.New("image download failed")
	ErrImagesDisabled = errors.New("image generation is disabled")
)

// Response formats understood by OpenAIProvider.
const (
	FormatURL    = "url"
	FormatBase64 = "b64_json"
)

// Provider generates a single image for a text prompt.
// Implementations must be safe for concurrent use.
type Provider interface {
	Generate(ctx context.Context, prompt string) (*GeneratedImage, error)
}

// GeneratedImage is what a provider hands back: either a downloadable URL or
// the image bytes encoded as base64.
type GeneratedImage struct {
	URL     string
	B64JSON string
}

// ImageConfig holds image provider settings.
type ImageConfig struct {
	Model          string
	Size           string
	ResponseFormat string
	APIKey         string
	BaseURL        string
}

// DefaultImageConfig returns the DALL-E 3 defaults.
func DefaultImageConfig() ImageConfig {
	return ImageConfig{
		Model:          "dall-e-3",
		Size:           "1024x1024",
		ResponseFormat: FormatURL,
	}
}

// DisabledProvider refuses every request. It stands in when no image
// credentials are configured so stories are still served without pictures.
type DisabledProvider struct{}

func (DisabledProvider) Generate(context.Context, string) (*GeneratedImage, error) {
	return nil, ErrImagesDisabled
}
