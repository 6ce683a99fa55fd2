package narrative

import (
	"fmt"
	"strings"
)

// StoryPrompt builds story prompts and carries the suggested menu values
// offered to callers.
type StoryPrompt struct {
	Characters []string
	Settings   []string
	Conflicts  []string
}

// NewStoryPrompt returns a StoryPrompt with the default catalog.
func NewStoryPrompt() *StoryPrompt {
	return &StoryPrompt{
		Characters: []string{"Detective", "Alien", "Superhero", "Time traveler"},
		Settings:   []string{"Abandoned spaceship", "Medieval castle", "Futuristic city", "Underwater research facility"},
		Conflicts:  []string{"Solve a mystery", "Save the world", "Find a way home", "Defeat an ancient evil"},
	}
}

// Generate formats the three story fields into a single prompt.
// Note the template orders theme before setting.
func (p *StoryPrompt) Generate(storyType, backgroundSetting, storyTheme string) string {
	return fmt.Sprintf("A story about %s must %s in a %s.", storyType, storyTheme, backgroundSetting)
}

// systemInstruction is sent with every story request.
const systemInstruction = "You are an expert story writer. " +
	"Write a story of at least 5 paragraphs based on the given prompt. " +
	"For each paragraph, also provide an image prompt: a vivid, self-contained visual " +
	"description of the scene in that paragraph that an illustrator could draw without " +
	"reading the rest of the story."

// userMessage wraps a story prompt into the message sent to the model.
func userMessage(prompt string) string {
	var b strings.Builder
	b.WriteString("Write a short story based on this prompt: ")
	b.WriteString(strings.TrimSpace(prompt))
	return b.String()
}
