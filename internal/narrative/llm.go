// Package narrative turns story prompts into structured stories using an LLM.
// It defines a provider-agnostic LLM interface with an OpenAI-compatible
// implementation (OpenRouter by default) and a deterministic mock for testing.
// The Writer requests schema-validated output and returns typed paragraphs.
package narrative

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
)

// LLM defines the interface for interacting with language models.
// Implementations must be stateless and thread-safe.
type LLM interface {
	// GenerateStructured sends the request and returns the raw JSON document
	// produced by the model. The document is expected to conform to req.Schema.
	GenerateStructured(ctx context.Context, req StructuredRequest) (string, error)
}

// StructuredRequest is a single structured-completion call.
type StructuredRequest struct {
	SystemPrompt string
	Prompt       string
	Schema       Schema
}

// Schema names a JSON schema the model output must satisfy.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// LLMConfig holds common configuration options for LLM providers.
type LLMConfig struct {
	// Model specifies the model identifier (e.g., "openai/gpt-4o-mini")
	Model string

	// Temperature controls randomness (0 = provider default)
	Temperature float32

	// MaxTokens limits the response length (0 = use provider default)
	MaxTokens int

	// APIKey is the authentication key for the provider
	APIKey string

	// BaseURL points the client at an OpenAI-compatible endpoint
	BaseURL string

	// AppName and HTTPReferer identify the caller to OpenRouter
	AppName     string
	HTTPReferer string
}

// DefaultLLMConfig returns sensible defaults for story writing.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:   "openai/gpt-4o-mini",
		BaseURL: "https://openrouter.ai/api/v1",
		AppName: "storyteller",
	}
}
