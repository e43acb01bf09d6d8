// Package main содержит точку входа для журнала активности каталога.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/app/notifier"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/config"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	var logger *slog.Logger
	if cfg.Env == "local" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	logger.Info("starting activity-notifier", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := notifier.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize activity notifier", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("activity notifier stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("activity notifier stopped gracefully")
}
