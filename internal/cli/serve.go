package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/companionkit/mira/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the companion HTTP API for the UI collaborator",
		Run:   runServe,
	}
	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, catalog, store, err := buildSession(ctx, cfg)
	if err != nil {
		exitErr("build session", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(session, catalog, store, slog.With("component", "server")).Routes(cfg.CORSOrigins, cfg.Passphrase),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving companion API", "addr", cfg.ListenAddr, "providers", cfg.Providers)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		exitErr("serve", err)
	}
	slog.Info("server stopped")
}
