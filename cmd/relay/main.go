package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhengjr9/gemini-relay/internal/cli"
	"github.com/zhengjr9/gemini-relay/internal/config"
	"github.com/zhengjr9/gemini-relay/internal/relay"
)

func main() {
	// Best-effort: a missing .env file is fine.
	_ = godotenv.Load()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "chat", "cli", "--chat", "--cli":
			// Drop the mode argument so config flags still parse.
			os.Args = append(os.Args[:1], os.Args[2:]...)
			cfg := config.Load()
			if err := cli.Run(cfg.ServerURL, os.Stdin, os.Stdout, os.Stderr); err != nil {
				slog.Error("interactive chat failed", "error", err)
				os.Exit(1)
			}
			return
		}
	}

	cfg := config.Load()
	if cfg.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set; /chat will fail until it is configured")
	}

	slog.Info("starting gemini-relay",
		"listen", cfg.ListenAddr,
		"upstream", cfg.UpstreamURL,
		"api_versions", cfg.APIVersions,
		"models", cfg.Models,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := relay.New(cfg)
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	case err := <-srvErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
