package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/config"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/database"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/logging"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/queue"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New(os.Stderr, "info").Fatal("failed to load configuration", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	if cfg.RedisURL == "" {
		logger.Fatal("REDIS_URL is required to run the worker")
	}
	redisClient, err := database.NewRedisClient(cfg.RedisURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to Redis", "err", err)
	}
	defer func() { _ = redisClient.Close() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", "err", err)
	}
	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatal("failed to run migrations", "err", err)
	}

	c := server.NewCache(cfg, redisClient)
	processor, err := server.NewProcessor(context.Background(), cfg, c, db, logger)
	if err != nil {
		logger.Fatal("failed to build extraction pipeline", "err", err)
	}

	srv, err := queue.NewServer(cfg.RedisURL, cfg.WorkerConcurrency, logger)
	if err != nil {
		logger.Fatal("failed to create worker", "err", err)
	}

	registry := queue.NewHandlersRegistry()
	worker := queue.NewExtractWorker(processor, c, logger)
	registry.Register(queue.TypeRecipeExtract, asynq.HandlerFunc(worker.ProcessTask))

	logger.Info("starting worker", "concurrency", cfg.WorkerConcurrency)
	if err := srv.Run(registry.Mux()); err != nil {
		logger.Fatal("worker error", "err", err)
	}
}
