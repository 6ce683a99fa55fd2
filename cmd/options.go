package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/storyteller/internal/narrative"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List suggested story types, settings and themes",
	Long: `Print the story catalog offered to clients.

Any text is accepted by generate and by the API; these are suggestions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputTable(cmd.OutOrStdout(), narrative.NewStoryPrompt())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func outputTable(out io.Writer, p *narrative.StoryPrompt) {
	// Column widths
	const (
		typeWidth    = 18
		settingWidth = 32
		themeWidth   = 26
	)

	headerCell := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)

	borderStyle := lipgloss.NewStyle().Foreground(contextColor)

	headers := []string{
		headerCell.Width(typeWidth).Render("STORY TYPE"),
		headerCell.Width(settingWidth).Render("SETTING"),
		headerCell.Width(themeWidth).Render("THEME"),
	}
	fmt.Fprintln(out, strings.Join(headers, borderStyle.Render("│")))

	separatorParts := []string{
		strings.Repeat("─", typeWidth),
		strings.Repeat("─", settingWidth),
		strings.Repeat("─", themeWidth),
	}
	fmt.Fprintln(out, borderStyle.Render(strings.Join(separatorParts, "┼")))

	cell := func(width int) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(valueColor).Padding(0, 1).Width(width)
	}

	rows := max(len(p.Characters), len(p.Settings), len(p.Conflicts))
	for i := 0; i < rows; i++ {
		cells := []string{
			cell(typeWidth).Render(at(p.Characters, i)),
			cell(settingWidth).Render(at(p.Settings, i)),
			cell(themeWidth).Render(at(p.Conflicts, i)),
		}
		fmt.Fprintln(out, strings.Join(cells, borderStyle.Render("│")))
	}

	fmt.Fprintln(out)
	summary := fmt.Sprintf("Total: %d story types, %d settings, %d themes",
		len(p.Characters), len(p.Settings), len(p.Conflicts))
	fmt.Fprintln(out, summaryStyle.Render(summary))
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
