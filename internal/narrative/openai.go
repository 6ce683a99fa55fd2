package narrative

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog"

	"github.com/Yates-Labs/storyteller/internal/metrics"
)

// OpenAILLM implements the LLM interface against any OpenAI-compatible
// chat completions API.
type OpenAILLM struct {
	client openai.Client
	config LLMConfig
}

// NewOpenAILLM creates an OpenAI-compatible LLM implementation.
// Extra request options are appended after the ones derived from config.
func NewOpenAILLM(config LLMConfig, opts ...option.RequestOption) (*OpenAILLM, error) {
	// Use config API key or fall back to environment variable
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set OPENROUTER_API_KEY or provide in config)", ErrInvalidConfig)
	}
	if config.Model == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")+"/"))
	}
	if config.HTTPReferer != "" {
		reqOpts = append(reqOpts, option.WithHeader("HTTP-Referer", config.HTTPReferer))
	}
	if config.AppName != "" {
		reqOpts = append(reqOpts, option.WithHeader("X-Title", config.AppName))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAILLM{
		client: openai.NewClient(reqOpts...),
		config: config,
	}, nil
}

// GenerateStructured asks the model for a JSON document matching req.Schema.
func (o *OpenAILLM) GenerateStructured(ctx context.Context, req StructuredRequest) (string, error) {
	if req.Prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidConfig)
	}
	if req.Schema.Name == "" || req.Schema.Definition == nil {
		return "", fmt.Errorf("%w: response schema is required", ErrInvalidConfig)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	schema := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   req.Schema.Name,
		Schema: req.Schema.Definition,
		Strict: openai.Bool(true),
	}
	if req.Schema.Description != "" {
		schema.Description = openai.String(req.Schema.Description)
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(o.config.Model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schema},
		},
	}

	// Set optional parameters if configured
	if o.config.Temperature > 0 {
		params.Temperature = openai.Float(float64(o.config.Temperature))
	}
	if o.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.config.MaxTokens))
	}

	start := time.Now()
	completion, err := o.client.Chat.Completions.New(ctx, params)
	metrics.LLMRequestDuration.WithLabelValues(o.config.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(o.config.Model, "error").Inc()
		return "", fmt.Errorf("%w: %w", ErrLLMFailed, err)
	}

	if len(completion.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(o.config.Model, "empty").Inc()
		return "", fmt.Errorf("%w: no response generated", ErrLLMFailed)
	}

	message := completion.Choices[0].Message
	if message.Refusal != "" {
		metrics.LLMRequestsTotal.WithLabelValues(o.config.Model, "refused").Inc()
		return "", fmt.Errorf("%w: model refused: %s", ErrLLMFailed, message.Refusal)
	}

	metrics.LLMRequestsTotal.WithLabelValues(o.config.Model, "success").Inc()
	metrics.LLMTokensTotal.WithLabelValues(o.config.Model, "prompt").Add(float64(completion.Usage.PromptTokens))
	metrics.LLMTokensTotal.WithLabelValues(o.config.Model, "completion").Add(float64(completion.Usage.CompletionTokens))

	zerolog.Ctx(ctx).Debug().
		Str("model", completion.Model).
		Int64("prompt_tokens", completion.Usage.PromptTokens).
		Int64("completion_tokens", completion.Usage.CompletionTokens).
		Msg("structured completion received")

	return message.Content, nil
}
