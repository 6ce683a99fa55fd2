package illustration

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/Yates-Labs/storyteller/internal/metrics"
	"github.com/Yates-Labs/storyteller/internal/storage"
	"github.com/Yates-Labs/storyteller/internal/tracer"
)

// Materializer turns image prompts into image files on disk.
type Materializer struct {
	provider Provider
	store    *storage.FileStore
	client   *http.Client
}

// NewMaterializer wires a provider to a file store. A nil client means
// http.DefaultClient.
func NewMaterializer(provider Provider, store *storage.FileStore, client *http.Client) *Materializer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Materializer{
		provider: provider,
		store:    store,
		client:   client,
	}
}

// FileName maps an image prompt to its file name. Equal prompts always share
// a name, so regenerating an image replaces the earlier file. Distinct prompts
// may collide since the hash is 64-bit and non-cryptographic.
func FileName(prompt string) string {
	return fmt.Sprintf("image_%016x.png", xxhash.Sum64String(prompt))
}

// GenerateImage produces the image for prompt and returns its local path.
// It returns "" on any failure after logging it.
func (m *Materializer) GenerateImage(ctx context.Context, prompt string) string {
	start := time.Now()
	path, err := m.materialize(ctx, prompt)
	metrics.ImageGenerationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ImageGenerationTotal.WithLabelValues("failure").Inc()
		zerolog.Ctx(ctx).Error().Err(err).Str("image_prompt", truncate(prompt, 80)).Msg("image generation failed")
		return ""
	}

	metrics.ImageGenerationTotal.WithLabelValues("success").Inc()
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("image stored")
	return path
}

func (m *Materializer) materialize(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if m.provider == nil {
		return "", ErrImagesDisabled
	}

	ctx, span := tracer.Start(ctx, "illustration.GenerateImage")
	defer span.End()

	img, err := m.provider.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	name := FileName(prompt)
	switch {
	case img.URL != "":
		return m.download(ctx, img.URL, name)
	case img.B64JSON != "":
		return m.decode(img.B64JSON, name)
	default:
		return "", ErrEmptyImage
	}
}

func (m *Materializer) download(ctx context.Context, url, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	return m.save(name, resp.Body)
}

func (m *Materializer) decode(b64 string, name string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 payload: %w", ErrImageFailed, err)
	}
	return m.save(name, bytes.NewReader(data))
}

func (m *Materializer) save(name string, r io.Reader) (string, error) {
	path, n, err := m.store.Save(name, r)
	if err != nil {
		return "", err
	}
	metrics.ImageBytesWritten.Add(float64(n))
	return path, nil
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
