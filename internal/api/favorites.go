package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/middleware"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/types"
)

type FavoritesHandler struct {
	favorites FavoriteStore
	validator middleware.TokenValidator
}

func NewFavoritesHandler(favorites FavoriteStore, validator middleware.TokenValidator) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites, validator: validator}
}

func (h *FavoritesHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites")
	favorites.Use(middleware.AuthMiddleware(h.validator))
	{
		favorites.GET("", h.List)
		favorites.POST("", h.Add)
		favorites.DELETE("", h.Remove)
	}
}

func (h *FavoritesHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	favorites, err := h.favorites.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch favorites"})
		return
	}
	c.JSON(http.StatusOK, types.FavoritesResponse{Favorites: favorites})
}

func (h *FavoritesHandler) Add(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	var req types.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe_url is required"})
		return
	}

	if err := h.favorites.Add(c.Request.Context(), userID, req.RecipeURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite saved"})
}

func (h *FavoritesHandler) Remove(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	var req types.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe_url is required"})
		return
	}

	if err := h.favorites.Remove(c.Request.Context(), userID, req.RecipeURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}
