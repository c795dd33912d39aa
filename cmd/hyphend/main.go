package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyphenhq/hyphen/internal/app"
	"github.com/hyphenhq/hyphen/internal/config"
	"github.com/hyphenhq/hyphen/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	// The remote authority transport is supplied by the embedding
	// application; standalone the daemon keeps all mutations queued
	// locally.
	logger.Info(ctx, "running offline", "db", cfg.DatabasePath)

	<-ctx.Done()
}
