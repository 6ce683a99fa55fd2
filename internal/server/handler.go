package server

import (
	"context"
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Yates-Labs/storyteller/internal/narrative"
	"github.com/Yates-Labs/storyteller/internal/orchestrator"
)

// StoryPipeline writes an illustrated story for a prompt.
type StoryPipeline interface {
	WriteStory(ctx context.Context, prompt string) (*orchestrator.Story, error)
}

// StoryRequest is the body of POST /api/v1/generate_story.
type StoryRequest struct {
	StoryType         string `json:"story_type" binding:"required"`
	BackgroundSetting string `json:"background_setting" binding:"required"`
	StoryTheme        string `json:"story_theme" binding:"required"`
}

// StoryResponse is the body of a successful story generation.
type StoryResponse struct {
	Prompt string              `json:"prompt"`
	Story  *orchestrator.Story `json:"story"`
}

// StoryOptionsResponse lists the suggested menu values.
type StoryOptionsResponse struct {
	StoryTypes         []string `json:"story_types"`
	BackgroundSettings []string `json:"background_settings"`
	StoryThemes        []string `json:"story_themes"`
}

// StoryHandler serves the story endpoints.
type StoryHandler struct {
	prompts        *narrative.StoryPrompt
	pipeline       StoryPipeline
	imagesRoute    string
	publicBaseURL  string
	trustedProxies []netip.Prefix
}

// NewStoryHandler creates a handler. publicBaseURL may be empty, in which case
// image URLs are derived from each request. X-Forwarded-Proto is only honoured
// when the peer address falls within trustedProxies; unparsable entries are skipped.
func NewStoryHandler(prompts *narrative.StoryPrompt, pipeline StoryPipeline, imagesRoute, publicBaseURL string, trustedProxies []string) *StoryHandler {
	if prompts == nil {
		prompts = narrative.NewStoryPrompt()
	}
	return &StoryHandler{
		prompts:        prompts,
		pipeline:       pipeline,
		imagesRoute:    imagesRoute,
		publicBaseURL:  strings.TrimSuffix(publicBaseURL, "/"),
		trustedProxies: parsePrefixes(trustedProxies),
	}
}

// GenerateStory handles POST and OPTIONS on /api/v1/generate_story.
func (h *StoryHandler) GenerateStory(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.JSON(http.StatusOK, gin.H{"message": "Options request"})
		return
	}

	var req StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, &bindError{err: err})
		return
	}

	prompt := h.prompts.Generate(req.StoryType, req.BackgroundSetting, req.StoryTheme)
	zerolog.Ctx(c.Request.Context()).Info().Str("prompt", prompt).Msg("generating story")

	story, err := h.pipeline.WriteStory(c.Request.Context(), prompt)
	if err != nil {
		h.fail(c, err)
		return
	}

	orchestrator.PublishImages(story, h.imageBaseURL(c))

	c.JSON(http.StatusOK, StoryResponse{
		Prompt: prompt,
		Story:  story,
	})
}

// StoryOptions returns the suggested story types, settings and themes.
func (h *StoryHandler) StoryOptions(c *gin.Context) {
	c.JSON(http.StatusOK, StoryOptionsResponse{
		StoryTypes:         h.prompts.Characters,
		BackgroundSettings: h.prompts.Settings,
		StoryThemes:        h.prompts.Conflicts,
	})
}

func (h *StoryHandler) fail(c *gin.Context, err error) {
	status, detail := errorStatus(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

// imageBaseURL is the absolute URL of the static images route.
func (h *StoryHandler) imageBaseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL + h.imagesRoute
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" && h.fromTrustedProxy(c) {
		switch p := strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0])); p {
		case "http", "https":
			scheme = p
		}
	}
	return scheme + "://" + c.Request.Host + h.imagesRoute
}

func (h *StoryHandler) fromTrustedProxy(c *gin.Context) bool {
	if len(h.trustedProxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(c.RemoteIP())
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range h.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// parsePrefixes accepts both CIDRs and bare addresses.
func parsePrefixes(values []string) []netip.Prefix {
	var prefixes []netip.Prefix
	for _, v := range values {
		if prefix, err := netip.ParsePrefix(v); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(v); err == nil {
			addr = addr.Unmap()
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return prefixes
}
