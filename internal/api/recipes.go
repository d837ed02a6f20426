package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
)

// RecipesHandler exposes the archive of past extractions.
type RecipesHandler struct {
	archive RecipeArchive
}

func NewRecipesHandler(archive RecipeArchive) *RecipesHandler {
	return &RecipesHandler{archive: archive}
}

func (h *RecipesHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/recipes/cached", h.GetCached)
}

// GetCached returns the latest stored extraction for ?url=.
func (h *RecipesHandler) GetCached(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	entry, err := h.archive.Get(c.Request.Context(), url)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusOK, entry)
}
