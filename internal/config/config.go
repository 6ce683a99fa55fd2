// Package config defines the storyteller configuration and loads it from
// defaults, an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Image   ImageConfig   `mapstructure:"image"`
	Storage StorageConfig `mapstructure:"storage"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// PublicBaseURL overrides the scheme and host used in image URLs.
	PublicBaseURL string `mapstructure:"public_base_url"`
	// TrustedProxies lists addresses or CIDRs whose forwarding headers are honoured.
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LLMConfig configures the text provider.
type LLMConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	AppName     string  `mapstructure:"app_name"`
	HTTPReferer string  `mapstructure:"http_referer"`
}

// ImageConfig configures the image provider.
type ImageConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	Size           string `mapstructure:"size"`
	ResponseFormat string `mapstructure:"response_format"`
}

type StorageConfig struct {
	ImagesDir string `mapstructure:"images_dir"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: llm.api_key is required (set OPENROUTER_API_KEY)", ErrInvalidConfig)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("%w: llm.model is required", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be between 1 and 65535, got %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.Storage.ImagesDir == "" {
		return fmt.Errorf("%w: storage.images_dir is required", ErrInvalidConfig)
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if !validOrigin(origin) {
			return fmt.Errorf("%w: cors.allowed_origins entry %q must be \"*\" or an http(s) origin", ErrInvalidConfig, origin)
		}
	}
	for _, proxy := range c.Server.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("%w: server.trusted_proxies entry %q is not an IP address or CIDR", ErrInvalidConfig, proxy)
		}
	}
	return nil
}

// validOrigin mirrors what gin-contrib/cors accepts without panicking.
func validOrigin(origin string) bool {
	if strings.Contains(origin, "*") {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validProxy(proxy string) bool {
	if _, err := netip.ParsePrefix(proxy); err == nil {
		return true
	}
	_, err := netip.ParseAddr(proxy)
	return err == nil
}
