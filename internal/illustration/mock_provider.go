package illustration

import (
	"context"
	"sync"
)

// MockProvider is a deterministic Provider for testing.
type MockProvider struct {
	// Image is returned for every prompt not listed in Failures.
	Image GeneratedImage

	// Error, if set, is returned for every prompt.
	Error error

	// Failures maps individual prompts to the error returned for them.
	Failures map[string]error

	mu      sync.Mutex
	prompts []string
}

// NewMockProvider returns a provider that always answers with url.
func NewMockProvider(url string) *MockProvider {
	return &MockProvider{Image: GeneratedImage{URL: url}}
}

// Generate records the prompt and returns the configured result.
func (m *MockProvider) Generate(ctx context.Context, prompt string) (*GeneratedImage, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Error != nil {
		return nil, m.Error
	}
	if err, ok := m.Failures[prompt]; ok {
		return nil, err
	}

	img := m.Image
	return &img, nil
}

// Calls reports how many images were requested.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns the prompts seen so far, in call order.
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
