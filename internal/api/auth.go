package api

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/middleware"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/types"
)

type AuthHandler struct {
	auth   Authenticator
	logger *log.Logger
}

func NewAuthHandler(auth Authenticator, logger *log.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/logout", middleware.AuthMiddleware(h.auth), h.Logout)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username (3-80 characters) and password (at least 6) are required"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("register failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, types.UserResponse{ID: user.ID, Username: user.Username})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("login failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.auth.TokenTTL().Seconds()), "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, types.LoginResponse{
		Token: token,
		User:  types.UserResponse{ID: user.ID, Username: user.Username},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		h.logger.Error("logout failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
