// Package config loads the application configuration: built-in defaults,
// overlaid by an optional settings.yaml, overlaid by environment variables.
// A .env file is honored for local development. Everything is read once at
// startup; there is no hot reload.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/companionkit/mira/internal/environment"
)

// Config holds every recognized option.
type Config struct {
	// Providers is the ordered fallback chain ("google", "openai").
	Providers   []string `yaml:"providers"`
	GoogleModel string   `yaml:"google_model"`
	OpenAIModel string   `yaml:"openai_model"`
	// API keys come from the environment only, never from the settings file.
	GoogleAPIKey  string `yaml:"-"`
	OpenAIAPIKey  string `yaml:"-"`
	OpenAIBaseURL string `yaml:"openai_base_url"`

	TimeoutSeconds   int `yaml:"timeout_seconds"`
	MaxOutputTokens  int `yaml:"max_output_tokens"`
	HistoryWindow    int `yaml:"history_window"`
	SummarizeCeiling int `yaml:"summarize_ceiling"`

	RewardIncrement int `yaml:"reward_increment"`
	StartingBalance int `yaml:"starting_balance"`

	Persistence bool   `yaml:"persistence"`
	StoreKind   string `yaml:"store_kind"` // "json" or "sqlite"
	MemoryPath  string `yaml:"memory_path"`
	CatalogPath string `yaml:"catalog_path"`

	ListenAddr  string   `yaml:"listen_addr"`
	CORSOrigins []string `yaml:"cors_origins"`
	// Passphrase, when non-empty, gates every HTTP request behind a shared
	// static token.
	Passphrase string `yaml:"-"`

	IdleNudgeAfter time.Duration `yaml:"idle_nudge_after"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Providers:        []string{"google", "openai"},
		GoogleModel:      "gemini-2.5-flash",
		OpenAIModel:      "gpt-4o-mini",
		TimeoutSeconds:   15,
		MaxOutputTokens:  512,
		HistoryWindow:    14,
		SummarizeCeiling: 24,
		RewardIncrement:  1,
		StartingBalance:  10,
		Persistence:      true,
		StoreKind:        "json",
		MemoryPath:       "memoria.json",
		CatalogPath:      "loja.json",
		ListenAddr:       ":8420",
		CORSOrigins:      []string{"*"},
		IdleNudgeAfter:   3 * time.Minute,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load builds the effective configuration: defaults, then the YAML settings
// file at settingsPath (skipped when missing), then environment variables.
func Load(settingsPath string) (*Config, error) {
	// .env is a local-dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := Defaults()

	if settingsPath != "" {
		data, err := os.ReadFile(settingsPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// fall through to env overrides
		case err != nil:
			return nil, fmt.Errorf("config: read settings %s: %w", settingsPath, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse settings %s: %w", settingsPath, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays MIRA_-prefixed environment variables. API keys use the
// provider vendors' conventional names.
func (c *Config) applyEnv() {
	c.Providers = environment.StringSliceOr("MIRA_PROVIDERS", c.Providers)
	c.GoogleModel = environment.StringOr("MIRA_GOOGLE_MODEL", c.GoogleModel)
	c.OpenAIModel = environment.StringOr("MIRA_OPENAI_MODEL", c.OpenAIModel)
	c.GoogleAPIKey = environment.StringOr("GOOGLE_API_KEY", c.GoogleAPIKey)
	c.OpenAIAPIKey = environment.StringOr("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = environment.StringOr("MIRA_OPENAI_BASE_URL", c.OpenAIBaseURL)

	c.TimeoutSeconds = environment.IntOr("MIRA_TIMEOUT_SECONDS", c.TimeoutSeconds)
	c.MaxOutputTokens = environment.IntOr("MIRA_MAX_OUTPUT_TOKENS", c.MaxOutputTokens)
	c.HistoryWindow = environment.IntOr("MIRA_HISTORY_WINDOW", c.HistoryWindow)
	c.SummarizeCeiling = environment.IntOr("MIRA_SUMMARIZE_CEILING", c.SummarizeCeiling)

	c.RewardIncrement = environment.IntOr("MIRA_REWARD_INCREMENT", c.RewardIncrement)
	c.StartingBalance = environment.IntOr("MIRA_STARTING_BALANCE", c.StartingBalance)

	c.Persistence = environment.BoolOr("MIRA_PERSISTENCE", c.Persistence)
	c.StoreKind = environment.StringOr("MIRA_STORE_KIND", c.StoreKind)
	c.MemoryPath = environment.StringOr("MIRA_MEMORY_PATH", c.MemoryPath)
	c.CatalogPath = environment.StringOr("MIRA_CATALOG_PATH", c.CatalogPath)

	c.ListenAddr = environment.StringOr("MIRA_LISTEN_ADDR", c.ListenAddr)
	c.CORSOrigins = environment.StringSliceOr("MIRA_CORS_ORIGINS", c.CORSOrigins)
	c.Passphrase = environment.StringOr("MIRA_PASSPHRASE", c.Passphrase)

	c.IdleNudgeAfter = environment.DurationOr("MIRA_IDLE_NUDGE_AFTER", c.IdleNudgeAfter)

	c.LogLevel = environment.StringOr("MIRA_LOG_LEVEL", c.LogLevel)
	c.LogFormat = environment.StringOr("MIRA_LOG_FORMAT", c.LogFormat)
}

// Timeout returns the per-attempt provider deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for structural correctness. It returns
// the first problem found, or nil.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("config: providers must not be empty")
	}
	for _, p := range c.Providers {
		if p != "google" && p != "openai" {
			return fmt.Errorf("config: unknown provider %q (want google or openai)", p)
		}
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("config: history_window must be positive, got %d", c.HistoryWindow)
	}
	if c.SummarizeCeiling <= c.HistoryWindow {
		return fmt.Errorf("config: summarize_ceiling (%d) must exceed history_window (%d)",
			c.SummarizeCeiling, c.HistoryWindow)
	}
	if c.RewardIncrement < 0 {
		return fmt.Errorf("config: reward_increment must not be negative, got %d", c.RewardIncrement)
	}
	if c.StoreKind != "json" && c.StoreKind != "sqlite" {
		return fmt.Errorf("config: store_kind must be json or sqlite, got %q", c.StoreKind)
	}
	return nil
}
