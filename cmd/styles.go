package cmd

import "github.com/charmbracelet/lipgloss"

// LipGloss signature purple/pink palette
var (
	headerColor    = lipgloss.Color("#F780FF") // Bright pink
	promptColor    = lipgloss.Color("#8BE9FD") // Cyan
	paragraphColor = lipgloss.Color("#E9E9F4") // Light purple/white
	contextColor   = lipgloss.Color("#6272A4") // Muted purple
	errorColor     = lipgloss.Color("#FF5555") // Red
	successColor   = lipgloss.Color("#50FA7B") // Green
	valueColor     = lipgloss.Color("#BD93F9") // Purple
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(headerColor).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(promptColor).
			Italic(true)

	paragraphStyle = lipgloss.NewStyle().
			Foreground(paragraphColor).
			Width(80)

	contextStyle = lipgloss.NewStyle().
			Foreground(contextColor).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	summaryStyle = lipgloss.NewStyle().
			Foreground(promptColor).
			Italic(true)
)
