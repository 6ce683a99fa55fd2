package narrative

import (
	"sync"
	"time"
)

// WrittenStory records one story produced by a Writer.
type WrittenStory struct {
	Prompt    string          `json:"prompt"`
	Story     StoryParagraphs `json:"story"`
	Model     string          `json:"model"`
	WrittenAt time.Time       `json:"written_at"`
}

// DefaultHistoryLimit is how many stories a Writer remembers.
const DefaultHistoryLimit = 100

// History is an in-process record of the most recent written stories.
// Once limit is reached the oldest entry is dropped. It is never persisted.
type History struct {
	mu      sync.Mutex
	limit   int
	stories []WrittenStory
}

func (h *History) append(s WrittenStory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stories = append(h.stories, s)
	if h.limit > 0 && len(h.stories) > h.limit {
		h.stories = append(h.stories[:0:0], h.stories[len(h.stories)-h.limit:]...)
	}
}

// Stories returns a copy of the recorded stories, oldest first.
func (h *History) Stories() []WrittenStory {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]WrittenStory, len(h.stories))
	copy(out, h.stories)
	return out
}
