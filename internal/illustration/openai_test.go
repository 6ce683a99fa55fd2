package illustration

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAIProvider(t *testing.T, config ImageConfig, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config.APIKey = "test-key"
	config.BaseURL = srv.URL + "/"

	p, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestNewOpenAIProvider_Validation(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := NewOpenAIProvider(DefaultImageConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing key: expected ErrInvalidConfig, got %v", err)
	}

	cfg := DefaultImageConfig()
	cfg.APIKey = "k"
	cfg.Model = ""
	if _, err := NewOpenAIProvider(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing model: expected ErrInvalidConfig, got %v", err)
	}

	cfg = DefaultImageConfig()
	cfg.APIKey = "k"
	cfg.ResponseFormat = "webp"
	if _, err := NewOpenAIProvider(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad format: expected ErrInvalidConfig, got %v", err)
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var body map[string]any

	p := newTestOpenAIProvider(t, DefaultImageConfig(), func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created": 1700000000, "data": [{"url": "https://images.example/a.png"}]}`)
	})

	img, err := p.Generate(context.Background(), "A red kite")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.URL != "https://images.example/a.png" {
		t.Errorf("unexpected url %s", img.URL)
	}

	if body["prompt"] != "A red kite" {
		t.Errorf("unexpected prompt %v", body["prompt"])
	}
	if body["model"] != "dall-e-3" {
		t.Errorf("unexpected model %v", body["model"])
	}
	if body["size"] != "1024x1024" {
		t.Errorf("unexpected size %v", body["size"])
	}
	if body["response_format"] != "url" {
		t.Errorf("unexpected response_format %v", body["response_format"])
	}
	if n, _ := body["n"].(float64); n != 1 {
		t.Errorf("expected n=1, got %v", body["n"])
	}
}

func TestOpenAIProvider_Generate_Base64(t *testing.T) {
	cfg := DefaultImageConfig()
	cfg.ResponseFormat = FormatBase64

	p := newTestOpenAIProvider(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created": 1, "data": [{"b64_json": "aGVsbG8="}]}`)
	})

	img, err := p.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.B64JSON != "aGVsbG8=" || img.URL != "" {
		t.Errorf("unexpected image %+v", img)
	}
}

func TestOpenAIProvider_Generate_Errors(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		p := newTestOpenAIProvider(t, DefaultImageConfig(), func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"rejected by safety system","type":"invalid_request_error"}}`)
		})
		if _, err := p.Generate(context.Background(), "prompt"); !errors.Is(err, ErrImageFailed) {
			t.Errorf("expected ErrImageFailed, got %v", err)
		}
	})

	t.Run("no data", func(t *testing.T) {
		p := newTestOpenAIProvider(t, DefaultImageConfig(), func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"created": 1, "data": []}`)
		})
		if _, err := p.Generate(context.Background(), "prompt"); !errors.Is(err, ErrEmptyImage) {
			t.Errorf("expected ErrEmptyImage, got %v", err)
		}
	})
}
