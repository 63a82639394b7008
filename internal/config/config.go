// Package config resolves service settings from the environment, an optional
// .env file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the binaries read.
type Config struct {
	Port        string        `mapstructure:"port"`
	AgentURL    string        `mapstructure:"agent_url"`
	ProfilePath string        `mapstructure:"profile_path"`
	Separator   string        `mapstructure:"opener_separator"`
	GeminiKey   string        `mapstructure:"gemini_api_key"`
	GeminiModel string        `mapstructure:"gemini_model"`
	ChatTimeout time.Duration `mapstructure:"chat_timeout"`
	LogLevel    string        `mapstructure:"log_level"`
	LogDev      bool          `mapstructure:"log_dev"`
}

const (
	DefaultPort        = "8080"
	DefaultGeminiModel = "gemini-2.5-flash-lite"
	DefaultChatTimeout = 90 * time.Second
	DefaultSeparator   = " — "

	openerPath = "/a2a/opener"
)

// BaseURL is the public address advertised in the agent card. Without
// AGENT_URL it is the local listener.
func (c Config) BaseURL() string {
	if c.AgentURL != "" {
		return strings.TrimRight(c.AgentURL, "/")
	}
	return "http://localhost:" + c.Port
}

// OpenerEndpoint is the A2A endpoint advertised in the agent card.
func (c Config) OpenerEndpoint() string {
	return c.BaseURL() + openerPath
}

// ChatEnabled reports whether the chat relay has credentials.
func (c Config) ChatEnabled() bool {
	return c.GeminiKey != ""
}

// Load reads dotenv files (missing ones are skipped) and then the
// environment. Variables already set in the environment win over .env.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("agent_url", "")
	v.SetDefault("profile_path", "")
	v.SetDefault("opener_separator", DefaultSeparator)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", DefaultGeminiModel)
	v.SetDefault("chat_timeout", DefaultChatTimeout)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dev", false)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	cfg.AgentURL = strings.TrimSpace(cfg.AgentURL)
	if cfg.ChatTimeout <= 0 {
		return Config{}, fmt.Errorf("chat_timeout must be positive, got %s", cfg.ChatTimeout)
	}
	return cfg, nil
}
