// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the chat server.
type Config struct {
	Port          string        `envconfig:"PORT" default:"8080"`
	MaxMessages   int           `envconfig:"MAX_MESSAGES" default:"100"`
	MaxTextLength int           `envconfig:"MAX_TEXT_LENGTH" default:"500"`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
	SanitizeHTML  bool          `envconfig:"SANITIZE_HTML" default:"false"`
	LogFormat     string        `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded, relying on environment variables: %v", err)
	}

	return FromEnv()
}

// FromEnv parses the process environment without touching .env files.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("internal/config: %w", err)
	}

	if cfg.MaxMessages < 1 {
		return nil, fmt.Errorf("internal/config: MAX_MESSAGES must be positive, got %d", cfg.MaxMessages)
	}
	if cfg.MaxTextLength < 1 {
		return nil, fmt.Errorf("internal/config: MAX_TEXT_LENGTH must be positive, got %d", cfg.MaxTextLength)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("internal/config: POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}

	return &cfg, nil
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
