package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithSeed toggles loading the built-in demo dataset
func WithSeed(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.Seed = enabled
		return nil
	}
}

// WithSeedFile loads initial data from a YAML fixture instead of the built-in dataset
func WithSeedFile(path string) Option {
	return func(c *ServerConfig) error {
		c.SeedFile = path
		return nil
	}
}

// WithStreamBuffer sets how many events are buffered per subscription stream
func WithStreamBuffer(size int) Option {
	return func(c *ServerConfig) error {
		if size < 1 {
			return fmt.Errorf("stream buffer must be positive, got %d", size)
		}
		c.StreamBuffer = size
		return nil
	}
}

// WithEventLogging toggles debug logging of published events
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}

// WithLogLevel sets the log level (debug, info, warn, error)
func WithLogLevel(level string) Option {
	return func(c *ServerConfig) error {
		if _, err := parseLevel(level); err != nil {
			return err
		}
		c.LogLevel = level
		return nil
	}
}

// WithLogFormat sets the log output format (text, json)
func WithLogFormat(format string) Option {
	return func(c *ServerConfig) error {
		if format != "text" && format != "json" {
			return fmt.Errorf("log format must be 'text' or 'json', got: %s", format)
		}
		c.LogFormat = format
		return nil
	}
}
