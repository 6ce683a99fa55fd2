package narrative

import (
	"strings"
	"testing"
)

func TestStoryPrompt_Generate_Golden(t *testing.T) {
	p := NewStoryPrompt()

	got := p.Generate("Detective", "Medieval castle", "Solve a mystery")
	want := "A story about Detective must Solve a mystery in a Medieval castle."
	if got != want {
		t.Fatalf("prompt mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestStoryPrompt_Generate_FieldOrder(t *testing.T) {
	tests := []struct {
		storyType, setting, theme string
		want                      string
	}{
		{"Alien", "Futuristic city", "Find a way home", "A story about Alien must Find a way home in a Futuristic city."},
		{"Time traveler", "Abandoned spaceship", "Defeat an ancient evil", "A story about Time traveler must Defeat an ancient evil in a Abandoned spaceship."},
		{"a", "b", "c", "A story about a must c in a b."},
	}

	p := NewStoryPrompt()
	for _, tt := range tests {
		if got := p.Generate(tt.storyType, tt.setting, tt.theme); got != tt.want {
			t.Errorf("Generate(%q, %q, %q) = %q, want %q", tt.storyType, tt.setting, tt.theme, got, tt.want)
		}
	}
}

func TestNewStoryPrompt_Catalog(t *testing.T) {
	p := NewStoryPrompt()

	if len(p.Characters) != 4 || len(p.Settings) != 4 || len(p.Conflicts) != 4 {
		t.Fatalf("unexpected catalog sizes: %d/%d/%d", len(p.Characters), len(p.Settings), len(p.Conflicts))
	}
	if p.Characters[0] != "Detective" {
		t.Errorf("expected first character Detective, got %s", p.Characters[0])
	}
	if p.Settings[1] != "Medieval castle" {
		t.Errorf("expected second setting Medieval castle, got %s", p.Settings[1])
	}
	if p.Conflicts[0] != "Solve a mystery" {
		t.Errorf("expected first conflict Solve a mystery, got %s", p.Conflicts[0])
	}
}

func TestUserMessage(t *testing.T) {
	msg := userMessage("  A story about X must Y in a Z.  ")
	if msg != "Write a short story based on this prompt: A story about X must Y in a Z." {
		t.Errorf("unexpected user message: %q", msg)
	}
}

func TestSystemInstruction_MentionsRequirements(t *testing.T) {
	for _, want := range []string{"expert story writer", "at least 5 paragraphs", "image prompt"} {
		if !strings.Contains(systemInstruction, want) {
			t.Errorf("system instruction missing %q", want)
		}
	}
}
