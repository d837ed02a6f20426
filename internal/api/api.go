// Package api holds the gin handlers for extraction, accounts, favorites,
// background jobs and the single-page frontend.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/cache"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/middleware"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/types"
)

// Authenticator is the account API used by the auth handlers.
type Authenticator interface {
	middleware.TokenValidator
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	TokenTTL() time.Duration
}

// FavoriteStore keeps per-user favorite recipe URLs.
type FavoriteStore interface {
	Add(ctx context.Context, userID uuid.UUID, recipeURL string) error
	Remove(ctx context.Context, userID uuid.UUID, recipeURL string) error
	List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error)
}

// RecipeArchive reads persisted extractions.
type RecipeArchive interface {
	Get(ctx context.Context, url string) (*model.RecipeCacheEntry, error)
}

// JobQueue schedules background extractions.
type JobQueue interface {
	Enqueue(ctx context.Context, url, location string) (string, error)
}

// Dependencies are the services behind the HTTP routes. Auth, Favorites,
// Archive, Queue and RateLimit are optional; their routes are left out or
// degrade when nil.
type Dependencies struct {
	Extractor service.RecipeExtractor
	Auth      Authenticator
	Favorites FavoriteStore
	Archive   RecipeArchive
	Queue     JobQueue
	Jobs      cache.Cache
	RateLimit gin.HandlerFunc
	StaticDir string
	Logger    *log.Logger
}

// HealthCheck returns a static ok payload.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheck)

	// The limiter keys signed-in callers by user, so the session is read first.
	var guards []gin.HandlerFunc
	if deps.RateLimit != nil {
		if deps.Auth != nil {
			guards = append(guards, middleware.OptionalAuth(deps.Auth))
		}
		guards = append(guards, deps.RateLimit)
	}

	root := &router.RouterGroup
	NewExtractHandler(deps.Extractor, deps.Logger, guards...).RegisterRoutes(root)

	if deps.Auth != nil {
		NewAuthHandler(deps.Auth, deps.Logger).RegisterRoutes(root)
		if deps.Favorites != nil {
			NewFavoritesHandler(deps.Favorites, deps.Auth).RegisterRoutes(root)
		}
	}
	if deps.Archive != nil {
		NewRecipesHandler(deps.Archive).RegisterRoutes(root)
	}
	NewJobsHandler(deps.Queue, deps.Jobs, guards...).RegisterRoutes(root)

	router.NoRoute(StaticHandler(deps.StaticDir))
}
