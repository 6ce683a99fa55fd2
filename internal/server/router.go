// Package server exposes the story pipeline over HTTP with gin.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Yates-Labs/storyteller/internal/config"
	"github.com/Yates-Labs/storyteller/internal/narrative"
)

// ImagesRoute is where generated images are served from.
const ImagesRoute = "/images"

// Router wires middleware and routes onto a gin engine.
type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	logger  zerolog.Logger
	stories *StoryHandler
	health  *HealthHandler
}

// NewRouter builds the HTTP surface around pipeline.
func NewRouter(cfg *config.Config, logger zerolog.Logger, pipeline StoryPipeline, prompts *narrative.StoryPrompt) *Router {
	r := &Router{
		engine:  gin.New(),
		cfg:     cfg,
		logger:  logger,
		stories: NewStoryHandler(prompts, pipeline, ImagesRoute, cfg.Server.PublicBaseURL, cfg.Server.TrustedProxies),
		health:  NewHealthHandler(),
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine returns the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// ServeHTTP makes Router an http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func (r *Router) setupMiddleware() {
	if err := r.engine.SetTrustedProxies(r.cfg.Server.TrustedProxies); err != nil {
		r.logger.Warn().Err(err).Msg("ignoring invalid trusted proxies")
	}
	if r.cfg.Tracing.Enabled {
		r.engine.Use(Trace(r.cfg.Tracing.ServiceName))
	}
	r.engine.Use(RequestID())
	r.engine.Use(Logger(r.logger))
	r.engine.Use(Recovery())
	r.engine.Use(CORS(r.cfg.CORS))

	if r.cfg.Metrics.Enabled {
		r.engine.Use(Metrics())
	}
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.health.Health)

	if r.cfg.Metrics.Enabled {
		r.engine.GET(r.cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.engine.Static(ImagesRoute, r.cfg.Storage.ImagesDir)

	v1 := r.engine.Group("/api/v1")
	{
		v1.POST("/generate_story", r.stories.GenerateStory)
		v1.OPTIONS("/generate_story", r.stories.GenerateStory)
		v1.GET("/story_options", r.stories.StoryOptions)
	}
}
