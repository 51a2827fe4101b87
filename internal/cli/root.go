// Package cli implements the mira CLI commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/companionkit/mira/internal/chat"
	"github.com/companionkit/mira/internal/config"
	"github.com/companionkit/mira/internal/environment"
	"github.com/companionkit/mira/internal/llm"
	"github.com/companionkit/mira/internal/memory"
	"github.com/companionkit/mira/internal/observability"
	"github.com/companionkit/mira/internal/persona"
	"github.com/companionkit/mira/internal/shop"
)

var settingsPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mira",
	Short: "Mira conversational companion",
	Long:  "Mira is a persona-driven conversational companion: LLM-backed chat with deterministic short-circuits, bounded context, an in-app economy, and a durable conversation log.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "settings.yaml", "Settings file path (YAML)")
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// loadConfig loads the effective configuration and wires global logging.
func loadConfig() *config.Config {
	cfg, err := config.Load(settingsPath)
	if err != nil {
		exitErr("load config", err)
	}
	observability.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg
}

// openStore opens the configured memory store. The SQLite store partitions
// records per session id; the id defaults to "default" so history stays
// visible across restarts of a single-user deployment.
func openStore(cfg *config.Config) (memory.Log, error) {
	if !cfg.Persistence {
		return memory.Discard{}, nil
	}
	switch cfg.StoreKind {
	case "sqlite":
		return memory.NewSQLite(cfg.MemoryPath, environment.StringOr("MIRA_SESSION_ID", "default"))
	default:
		return memory.NewJSONFile(cfg.MemoryPath), nil
	}
}

// buildProviders constructs the fallback chain in configured order, skipping
// providers whose API key is missing.
func buildProviders(ctx context.Context, cfg *config.Config) []llm.Provider {
	var providers []llm.Provider
	for _, name := range cfg.Providers {
		switch name {
		case "google":
			if cfg.GoogleAPIKey == "" {
				slog.Warn("provider skipped: GOOGLE_API_KEY not set", "provider", name)
				continue
			}
			p, err := llm.NewGemini(ctx, llm.GeminiConfig{APIKey: cfg.GoogleAPIKey, Model: cfg.GoogleModel})
			if err != nil {
				slog.Warn("provider skipped: client setup failed", "provider", name, "err", err)
				continue
			}
			providers = append(providers, p)
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				slog.Warn("provider skipped: OPENAI_API_KEY not set", "provider", name)
				continue
			}
			providers = append(providers, llm.NewOpenAI(llm.OpenAIConfig{
				APIKey:  cfg.OpenAIAPIKey,
				BaseURL: cfg.OpenAIBaseURL,
				Model:   cfg.OpenAIModel,
			}))
		}
	}
	if len(providers) == 0 {
		slog.Warn("no providers configured; every exchange will use the fallback lines")
	}
	return providers
}

// buildSession wires the full conversation core from configuration.
func buildSession(ctx context.Context, cfg *config.Config) (*chat.Session, []shop.Item, memory.Log, error) {
	catalog, err := shop.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	dispatcher := chat.NewDispatcher(
		buildProviders(ctx, cfg),
		cfg.Timeout(),
		cfg.MaxOutputTokens,
		observability.Component("dispatch"),
	)
	window := chat.NewWindow(
		persona.Template,
		cfg.HistoryWindow,
		cfg.SummarizeCeiling,
		&chat.DispatchSummarizer{Dispatcher: dispatcher},
		observability.Component("window"),
	)
	engine := shop.NewEngine(shop.NewLedger(cfg.StartingBalance), cfg.RewardIncrement)

	session := chat.NewSession(
		chat.NewRouter(),
		window,
		dispatcher,
		engine,
		catalog,
		store,
		cfg.IdleNudgeAfter,
		observability.Component("session"),
	)
	return session, catalog, store, nil
}
