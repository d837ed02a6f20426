// Package server assembles the HTTP service from configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/config"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/api"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/database"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/middleware"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/queue"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
	queue  *queue.Client
	logger *log.Logger
}

// New connects to the database and, when configured, Redis, then registers
// every route.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Server, error) {
	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, logger); err != nil {
		return nil, err
	}

	s := &Server{db: db, logger: logger}

	if cfg.RedisURL != "" {
		if s.redis, err = database.NewRedisClient(cfg.RedisURL, logger); err != nil {
			return nil, err
		}
	} else {
		logger.Warn("REDIS_URL not set: using in-process cache, rate limiting and background jobs disabled")
	}

	c := NewCache(cfg, s.redis)
	processor, err := NewProcessor(ctx, cfg, c, db, logger)
	if err != nil {
		return nil, err
	}

	deps := api.Dependencies{
		Extractor: processor,
		Auth:      service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL),
		Favorites: service.NewFavoriteService(db),
		Archive:   service.NewRecipeStore(db),
		Jobs:      c,
		StaticDir: cfg.StaticDir,
		Logger:    logger,
	}
	if s.redis != nil {
		if cfg.RateLimitPerHour > 0 {
			deps.RateLimit = middleware.NewExtractionRateLimiter(s.redis, cfg.RateLimitPerHour).RateLimitMiddleware()
		}
		if s.queue, err = queue.NewClient(cfg.RedisURL, c); err != nil {
			return nil, err
		}
		deps.Queue = s.queue
	}

	s.router = NewRouter(cfg, deps)
	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// NewRouter builds the gin engine with the middleware stack and routes.
func NewRouter(cfg *config.Config, deps api.Dependencies) *gin.Engine {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.ErrorHandler(deps.Logger),
		middleware.RequestLogger(deps.Logger),
		middleware.CORS(cfg.CORSOrigins),
	)
	api.RegisterRoutes(router, deps)
	return router
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server and releases its connections
func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	if s.http != nil {
		errs = append(errs, s.http.Shutdown(ctx))
	}
	if s.queue != nil {
		errs = append(errs, s.queue.Close())
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if sqlDB, err := s.db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
