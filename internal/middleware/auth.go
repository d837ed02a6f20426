package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/types"
)

// SessionCookie is the cookie login sets alongside the bearer token.
const SessionCookie = "session"

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextClaims   = "claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens from the
// Authorization header or, failing that, the session cookie.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		setSession(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the session when a valid token is presented and lets
// every request through regardless.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok && token != "" {
			if claims, err := validator.ValidateToken(c.Request.Context(), token); err == nil {
				setSession(c, claims)
			}
		}
		c.Next()
	}
}

// setSession stores user info in the context.
func setSession(c *gin.Context, claims *types.TokenClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextClaims, claims)
}

// bearerToken returns the session token and false when the Authorization
// header is present but malformed.
func bearerToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", false
		}
		return parts[1], true
	}
	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return "", true
	}
	return cookie, true
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Claims returns the authenticated session's claims.
func Claims(c *gin.Context) (*types.TokenClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*types.TokenClaims)
	return claims, ok
}
