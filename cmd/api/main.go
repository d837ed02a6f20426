package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/config"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/logging"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New(os.Stderr, "info").Fatal("failed to load configuration", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	// Cancelled on an interrupt or terminate signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize server", "err", err)
	}

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("server error", "err", err)
	}
	logger.Info("server stopped")
}
