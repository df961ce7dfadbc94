package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tendant/simple-graph/pkg/contentgraph"
	"github.com/tendant/simple-graph/pkg/contentgraph/pubsub"
	"github.com/tendant/simple-graph/pkg/contentgraph/repo/memory"
	"github.com/tendant/simple-graph/pkg/contentgraph/seed"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "4000",
		Environment:        "development",
		Seed:               true,
		StreamBuffer:       64,
		EnableEventLogging: true,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// ServerConfig represents server configuration for the content graph service.
// The env tags are read by WithEnv.
type ServerConfig struct {
	Port        string `env:"PORT" env-description:"HTTP listen port"`
	Environment string `env:"ENVIRONMENT" env-description:"runtime environment"`

	// Initial data
	Seed     bool   `env:"GRAPH_SEED" env-description:"load the built-in demo dataset"`
	SeedFile string `env:"GRAPH_SEED_FILE" env-description:"YAML fixture loaded at startup"`

	// Subscription streams
	StreamBuffer int `env:"GRAPH_STREAM_BUFFER" env-description:"events buffered per subscription stream"`

	// Logging
	EnableEventLogging bool   `env:"GRAPH_EVENT_LOGGING" env-description:"log published events at debug level"`
	LogLevel           string `env:"LOG_LEVEL" env-description:"debug, info, warn or error"`
	LogFormat          string `env:"LOG_FORMAT" env-description:"text or json"`
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.StreamBuffer < 1 {
		return fmt.Errorf("stream buffer must be positive, got %d", c.StreamBuffer)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be 'text' or 'json', got %q", c.LogFormat)
	}

	return nil
}

// NewLogger creates the structured logger described by the configuration.
func (c *ServerConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(logger *slog.Logger) (contentgraph.Service, error) {
	repo := memory.New()

	fixture, err := c.fixture()
	if err != nil {
		return nil, err
	}
	if fixture != nil {
		if err := seed.Apply(context.Background(), repo, fixture); err != nil {
			return nil, fmt.Errorf("failed to seed repository: %w", err)
		}
	}

	var hubOpts []pubsub.HubOption
	if c.EnableEventLogging && logger != nil {
		hubOpts = append(hubOpts, pubsub.WithLogger(logger.With("component", "pubsub")))
	}

	return contentgraph.New(
		contentgraph.WithRepository(repo),
		contentgraph.WithBroker(pubsub.New(hubOpts...)),
	)
}

// fixture returns the seed data to load, or nil for an empty graph.
func (c *ServerConfig) fixture() (*seed.Fixture, error) {
	if c.SeedFile != "" {
		f, err := seed.LoadFile(c.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed file %s: %w", c.SeedFile, err)
		}
		return f, nil
	}
	if c.Seed {
		return seed.Default(), nil
	}
	return nil, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}
