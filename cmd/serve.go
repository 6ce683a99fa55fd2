package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/storyteller/internal/narrative"
	"github.com/Yates-Labs/storyteller/internal/orchestrator"
	"github.com/Yates-Labs/storyteller/internal/server"
	"github.com/Yates-Labs/storyteller/internal/tracer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the story HTTP API",
	Long: `Start the HTTP server.

Routes:
  POST    /api/v1/generate_story   generate an illustrated story
  OPTIONS /api/v1/generate_story   pre-flight acknowledgement
  GET     /api/v1/story_options    suggested story types, settings and themes
  GET     /images/<file>           generated images
  GET     /health                  liveness
  GET     /metrics                 Prometheus metrics

Required environment variables:
  OPENROUTER_API_KEY   - key for the text model
  OPENAI_API_KEY       - key for image generation (images are skipped without it)

Examples:
  storyteller serve
  storyteller serve --port 8080 --images-dir /var/lib/storyteller/images`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Port to listen on (default 9000)")
	_ = v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRate:  cfg.Tracing.SampleRate,
		Enabled:     cfg.Tracing.Enabled,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise tracing: %w", err)
	}

	pipeline, err := orchestrator.NewStoryPipeline(pipelineConfig(cfg), logger)
	if err != nil {
		return err
	}

	router := server.NewRouter(cfg, logger, pipeline, narrative.NewStoryPrompt())

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("storyteller listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("tracer shutdown failed")
	}

	logger.Info().Msg("server stopped")
	return nil
}
