package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv applies environment variable overrides.
//
//	PORT                 - Server port (default: "4000")
//	ENVIRONMENT          - Runtime environment (default: "development")
//	GRAPH_SEED           - Load the built-in demo dataset (default: true)
//	GRAPH_SEED_FILE      - YAML fixture to load instead of the demo dataset
//	GRAPH_STREAM_BUFFER  - Events buffered per subscription stream (default: 64)
//	GRAPH_EVENT_LOGGING  - Log published events at debug level (default: true)
//	LOG_LEVEL            - debug, info, warn, error (default: "info")
//	LOG_FORMAT           - text, json (default: "text")
//
// Variables that are not set leave the current value untouched, so WithEnv
// composes with options applied before it.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("read environment: %w", err)
		}
		return nil
	}
}

// Usage returns a description of the environment variables WithEnv reads.
func Usage() string {
	var cfg ServerConfig
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
