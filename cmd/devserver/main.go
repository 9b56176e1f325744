// Command devserver runs a local implementation of the Remote Expense API
// for development and end-to-end testing.
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

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/sharesplit/internal/config"
	"github.com/mmynk/sharesplit/internal/httpapi"
	"github.com/mmynk/sharesplit/internal/storage/sqlite"
	"github.com/mmynk/sharesplit/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	if cfg.JWTSecret == "dev-only-secret-change-me" {
		slog.Warn("Using the built-in JWT secret; set SHARESPLIT_JWT_SECRET outside local development")
	}

	app := httpapi.NewApp(store, httpapi.AppConfig{
		JWTSecret:       cfg.JWTSecret,
		TokenTTL:        cfg.TokenTTL,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Logger:          slog.Default(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           app,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Sandbox server starting", "address", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
