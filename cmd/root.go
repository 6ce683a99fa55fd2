package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Yates-Labs/storyteller/internal/config"
	"github.com/Yates-Labs/storyteller/internal/illustration"
	"github.com/Yates-Labs/storyteller/internal/logging"
	"github.com/Yates-Labs/storyteller/internal/narrative"
	"github.com/Yates-Labs/storyteller/internal/orchestrator"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "storyteller",
	Short: "Storyteller - illustrated short story generator",
	Long: `Storyteller turns a story type, a setting and a theme into a multi-paragraph
story with one generated illustration per paragraph.

Text comes from an OpenAI-compatible chat model (OpenRouter by default) and
images from the OpenAI images API. Images are stored on local disk and served
over HTTP next to the story API.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./storyteller.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("images-dir", "", "Directory generated images are written to")

	_ = v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("storage.images_dir", rootCmd.PersistentFlags().Lookup("images-dir"))
}

// loadConfig reads flags, environment and config file into a validated Config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
}

// pipelineConfig maps service configuration onto the story pipeline.
func pipelineConfig(cfg *config.Config) orchestrator.PipelineConfig {
	return orchestrator.PipelineConfig{
		LLMConfig: narrative.LLMConfig{
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			AppName:     cfg.LLM.AppName,
			HTTPReferer: cfg.LLM.HTTPReferer,
		},
		ImageConfig: illustration.ImageConfig{
			Model:          cfg.Image.Model,
			Size:           cfg.Image.Size,
			ResponseFormat: cfg.Image.ResponseFormat,
			APIKey:         cfg.Image.APIKey,
			BaseURL:        cfg.Image.BaseURL,
		},
		ImagesEnabled: cfg.Image.Enabled,
		ImagesDir:     cfg.Storage.ImagesDir,
	}
}
