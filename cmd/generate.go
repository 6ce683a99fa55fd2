package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/storyteller/internal/narrative"
	"github.com/Yates-Labs/storyteller/internal/orchestrator"
)

var (
	storyType    string
	setting      string
	theme        string
	exportFile   string
	exportFormat string
	verbose      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one illustrated story from the command line",
	Long: `Generate a story without starting the server.

This command:
1. Builds the prompt from --type, --setting and --theme
2. Asks the text model for a structured, multi-paragraph story
3. Generates and stores one image per paragraph
4. Prints the story, or exports it with --export (json or markdown)

Required environment variables:
  OPENROUTER_API_KEY   - key for the text model
  OPENAI_API_KEY       - key for image generation (images are skipped without it)

Examples:
  storyteller generate --type Detective --setting "Medieval castle" --theme "Solve a mystery"
  storyteller generate --type Alien --setting "Futuristic city" --theme "Find a way home" --export story.json`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&storyType, "type", "", "Story type, e.g. Detective")
	generateCmd.Flags().StringVar(&setting, "setting", "", "Background setting, e.g. Medieval castle")
	generateCmd.Flags().StringVar(&theme, "theme", "", "Story theme, e.g. Solve a mystery")
	generateCmd.Flags().StringVar(&exportFile, "export", "", "Export the story to a file: --export <filename>")
	generateCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or markdown")
	generateCmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed progress")
	_ = generateCmd.MarkFlagRequired("type")
	_ = generateCmd.MarkFlagRequired("setting")
	_ = generateCmd.MarkFlagRequired("theme")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !verbose {
		cfg.Logging.Level = "warn"
	}
	logger := newLogger(cfg)
	ctx := logger.WithContext(context.Background())

	pipeline, err := orchestrator.NewStoryPipeline(pipelineConfig(cfg), logger)
	if err != nil {
		return err
	}

	prompt := narrative.NewStoryPrompt().Generate(storyType, setting, theme)
	out := cmd.OutOrStdout()

	if verbose {
		fmt.Fprintln(out, contextStyle.Render("→ Writing story..."))
	}

	story, err := pipeline.WriteStory(ctx, prompt)
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}
	markMissingImages(story)

	// Handle export flag
	if exportFile != "" {
		return handleExport(out, prompt, story, exportFile, exportFormat)
	}

	renderStory(out, prompt, story)
	return nil
}

// markMissingImages applies the "None" sentinel without touching local paths.
func markMissingImages(story *orchestrator.Story) {
	for i := range story.Paragraphs {
		if story.Paragraphs[i].Image == "" {
			story.Paragraphs[i].Image = orchestrator.NoImage
		}
	}
}

func handleExport(out io.Writer, prompt string, story *orchestrator.Story, filename, format string) error {
	// Create output file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := orchestrator.ExportStory(prompt, story, format, file); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Exported %d paragraphs to %s", len(story.Paragraphs), filename)))
	return nil
}

func renderStory(out io.Writer, prompt string, story *orchestrator.Story) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Prompt:"))
	fmt.Fprintln(out, promptStyle.Render(prompt))
	fmt.Fprintln(out)

	fmt.Fprintln(out, headerStyle.Render("Story:"))
	fmt.Fprintln(out)

	missing := 0
	for i, item := range story.Paragraphs {
		fmt.Fprintln(out, paragraphStyle.Render(strings.TrimSpace(item.Paragraph)))
		if item.Image == orchestrator.NoImage {
			missing++
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("  [image %d unavailable]", i+1)))
		} else {
			fmt.Fprintln(out, contextStyle.Render("  "+item.Image))
		}
		fmt.Fprintln(out)
	}

	summary := fmt.Sprintf("Total: %d paragraphs, %d images", len(story.Paragraphs), len(story.Paragraphs)-missing)
	fmt.Fprintln(out, summaryStyle.Render(summary))
}
