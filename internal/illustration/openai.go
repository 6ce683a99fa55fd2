package illustration

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements Provider with the OpenAI images API.
type OpenAIProvider struct {
	client openai.Client
	config ImageConfig
}

// NewOpenAIProvider creates an image provider. The API key falls back to
// OPENAI_API_KEY.
func NewOpenAIProvider(config ImageConfig, opts ...option.RequestOption) (*OpenAIProvider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set OPENAI_API_KEY or provide in config)", ErrInvalidConfig)
	}
	if config.Model == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}
	switch config.ResponseFormat {
	case "":
		config.ResponseFormat = FormatURL
	case FormatURL, FormatBase64:
	default:
		return nil, fmt.Errorf("%w: unsupported response format %q", ErrInvalidConfig, config.ResponseFormat)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")+"/"))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAIProvider{
		client: openai.NewClient(reqOpts...),
		config: config,
	}, nil
}

// Generate requests a single image for prompt.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (*GeneratedImage, error) {
	params := openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(p.config.Model),
		N:              openai.Int(1),
		ResponseFormat: openai.ImageGenerateParamsResponseFormat(p.config.ResponseFormat),
	}
	if p.config.Size != "" {
		params.Size = openai.ImageGenerateParamsSize(p.config.Size)
	}

	resp, err := p.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFailed, err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrEmptyImage
	}

	return &GeneratedImage{
		URL:     resp.Data[0].URL,
		B64JSON: resp.Data[0].B64JSON,
	}, nil
}
