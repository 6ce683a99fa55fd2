package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockLLM is a deterministic LLM implementation for testing.
// It returns predictable structured responses based on prompt content.
type MockLLM struct {
	// Response is the fixed JSON returned by GenerateStructured.
	// If empty, a default five paragraph story is generated from the prompt.
	Response string

	// Error, if set, is returned by GenerateStructured instead of a response.
	Error error

	// LastRequest stores the most recent request passed to GenerateStructured.
	LastRequest StructuredRequest

	mu    sync.Mutex
	calls int
}

// NewMockLLM creates a mock LLM with the given fixed response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

// NewMockLLMWithError creates a mock LLM that always returns an error.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Error: err}
}

// NewMockLLMWithParagraphs creates a mock LLM that returns n numbered paragraphs.
func NewMockLLMWithParagraphs(n int) *MockLLM {
	story := StoryParagraphs{Paragraphs: make([]StoryParagraph, 0, n)}
	for i := 1; i <= n; i++ {
		story.Paragraphs = append(story.Paragraphs, StoryParagraph{
			Paragraph:   fmt.Sprintf("Paragraph %d.", i),
			ImagePrompt: fmt.Sprintf("Image prompt %d", i),
		})
	}
	data, _ := json.Marshal(story)
	return &MockLLM{Response: string(data)}
}

// GenerateStructured returns the configured response or generates a deterministic one.
func (m *MockLLM) GenerateStructured(ctx context.Context, req StructuredRequest) (string, error) {
	m.mu.Lock()
	m.calls++
	m.LastRequest = req
	m.mu.Unlock()

	if m.Error != nil {
		return "", m.Error
	}

	if m.Response != "" {
		return m.Response, nil
	}

	return generateMockResponse(req.Prompt), nil
}

// Calls reports how many times GenerateStructured was invoked.
func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// generateMockResponse creates a predictable story from the prompt.
func generateMockResponse(prompt string) string {
	story := StoryParagraphs{}
	for i := 1; i <= MinParagraphs; i++ {
		story.Paragraphs = append(story.Paragraphs, StoryParagraph{
			Paragraph:   fmt.Sprintf("Part %d of a story written for %q.", i, prompt),
			ImagePrompt: fmt.Sprintf("Scene %d: %s", i, prompt),
		})
	}
	data, _ := json.Marshal(story)
	return string(data)
}
