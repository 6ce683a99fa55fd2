package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestOpenAILLM(t *testing.T, handler http.HandlerFunc) *OpenAILLM {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config := DefaultLLMConfig()
	config.APIKey = "test-key"
	config.BaseURL = srv.URL
	config.HTTPReferer = "http://localhost:9000"

	llm, err := NewOpenAILLM(config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return llm
}

func TestNewOpenAILLM_MissingKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")

	_, err := NewOpenAILLM(LLMConfig{Model: "m"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewOpenAILLM_MissingModel(t *testing.T) {
	_, err := NewOpenAILLM(LLMConfig{APIKey: "k"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestOpenAILLM_GenerateStructured(t *testing.T) {
	var body map[string]any
	var headers http.Header

	llm := newTestOpenAILLM(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		headers = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "openai/gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"paragraphs\":[]}"}
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`)
	})

	got, err := llm.GenerateStructured(context.Background(), StructuredRequest{
		SystemPrompt: "system",
		Prompt:       "user",
		Schema:       StoryParagraphsSchema(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"paragraphs":[]}` {
		t.Errorf("unexpected content %q", got)
	}

	if body["model"] != "openai/gpt-4o-mini" {
		t.Errorf("unexpected model %v", body["model"])
	}
	messages, _ := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("expected json_schema response format, got %v", format["type"])
	}
	schema, _ := format["json_schema"].(map[string]any)
	if schema["name"] != "story_paragraphs" || schema["strict"] != true {
		t.Errorf("unexpected json_schema block %v", schema)
	}

	if headers.Get("Authorization") != "Bearer test-key" {
		t.Errorf("unexpected Authorization header %q", headers.Get("Authorization"))
	}
	if headers.Get("HTTP-Referer") != "http://localhost:9000" {
		t.Errorf("unexpected HTTP-Referer header %q", headers.Get("HTTP-Referer"))
	}
	if headers.Get("X-Title") != "storyteller" {
		t.Errorf("unexpected X-Title header %q", headers.Get("X-Title"))
	}
}

func TestOpenAILLM_GenerateStructured_ProviderError(t *testing.T) {
	var calls atomic.Int32
	llm := newTestOpenAILLM(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"upstream down","type":"server_error"}}`)
	})

	_, err := llm.GenerateStructured(context.Background(), StructuredRequest{
		Prompt: "user",
		Schema: StoryParagraphsSchema(),
	})
	if !errors.Is(err, ErrLLMFailed) {
		t.Fatalf("expected ErrLLMFailed, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt without retries, got %d", calls.Load())
	}
}

func TestOpenAILLM_GenerateStructured_NoChoices(t *testing.T) {
	llm := newTestOpenAILLM(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	})

	_, err := llm.GenerateStructured(context.Background(), StructuredRequest{
		Prompt: "user",
		Schema: StoryParagraphsSchema(),
	})
	if !errors.Is(err, ErrLLMFailed) {
		t.Fatalf("expected ErrLLMFailed, got %v", err)
	}
}

func TestOpenAILLM_GenerateStructured_Refusal(t *testing.T) {
	llm := newTestOpenAILLM(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"","refusal":"I can't help with that."}}]}`)
	})

	_, err := llm.GenerateStructured(context.Background(), StructuredRequest{
		Prompt: "user",
		Schema: StoryParagraphsSchema(),
	})
	if !errors.Is(err, ErrLLMFailed) {
		t.Fatalf("expected ErrLLMFailed, got %v", err)
	}
}

func TestOpenAILLM_GenerateStructured_InvalidRequest(t *testing.T) {
	llm := newTestOpenAILLM(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called")
	})

	if _, err := llm.GenerateStructured(context.Background(), StructuredRequest{Schema: StoryParagraphsSchema()}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("empty prompt: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := llm.GenerateStructured(context.Background(), StructuredRequest{Prompt: "p"}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing schema: expected ErrInvalidConfig, got %v", err)
	}
}
