package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/middleware"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/testhelpers"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticValidator struct {
	token  string
	claims *types.TokenClaims
}

func (v staticValidator) ValidateToken(_ context.Context, token string) (*types.TokenClaims, error) {
	if token != v.token {
		return nil, errors.New("invalid token")
	}
	return v.claims, nil
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	validator := staticValidator{token: "good", claims: &types.TokenClaims{UserID: userID, Username: "chef"}}

	router := gin.New()
	router.GET("/me", middleware.AuthMiddleware(validator), func(c *gin.Context) {
		id, ok := middleware.UserID(c)
		require.True(t, ok)
		claims, ok := middleware.Claims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id, "username": claims.Username})
	})

	tests := []struct {
		name   string
		header string
		cookie string
		status int
	}{
		{"bearer", "Bearer good", "", http.StatusOK},
		{"cookie", "", "good", http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"malformed header", "Token good", "", http.StatusUnauthorized},
		{"bad token", "Bearer bad", "", http.StatusUnauthorized},
		{"header wins over cookie", "Bearer bad", "good", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID.String())
			} else {
				assert.Contains(t, w.Body.String(), `"error"`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	validator := staticValidator{token: "good", claims: &types.TokenClaims{UserID: userID, Username: "chef"}}

	router := gin.New()
	router.GET("/maybe", middleware.OptionalAuth(validator), func(c *gin.Context) {
		id, ok := middleware.UserID(c)
		c.JSON(http.StatusOK, gin.H{"signed_in": ok, "id": id})
	})

	tests := []struct {
		name     string
		header   string
		cookie   string
		signedIn bool
	}{
		{"bearer", "Bearer good", "", true},
		{"cookie", "", "good", true},
		{"anonymous", "", "", false},
		{"bad token", "Bearer bad", "", false},
		{"malformed header", "Token good", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			if tt.signedIn {
				assert.Contains(t, w.Body.String(), `"signed_in":true`)
				assert.Contains(t, w.Body.String(), userID.String())
			} else {
				assert.Contains(t, w.Body.String(), `"signed_in":false`)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	router := gin.New()
	router.Use(middleware.ErrorHandler(testhelpers.TestLogger()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	router.GET("/error", func(c *gin.Context) {
		_ = c.Error(errors.New("Test error"))
		c.Status(http.StatusBadGateway)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/error", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"Test error"}`, w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	router := gin.New()
	router.Use(middleware.RequestLogger(testhelpers.TestLogger()))
	router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(middleware.CORS([]string{"http://app.example"}))
	router.POST("/extract", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/extract", nil)
	req.Header.Set("Origin", "http://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/extract", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitMiddleware(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	limiter := middleware.NewExtractionRateLimiter(client, 2)

	router := gin.New()
	router.POST("/extract", limiter.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/extract", nil))
		codes = append(codes, w.Code)
		if i == 0 {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

type tokenTable map[string]*types.TokenClaims

func (v tokenTable) ValidateToken(_ context.Context, token string) (*types.TokenClaims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func TestRateLimitPerUser(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	limiter := middleware.NewExtractionRateLimiter(client, 1)
	validator := tokenTable{
		"alice": {UserID: uuid.New(), Username: "alice"},
		"bob":   {UserID: uuid.New(), Username: "bob"},
	}

	router := gin.New()
	router.POST("/extract", middleware.OptionalAuth(validator), limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/extract", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// Same client address throughout; each session has its own budget.
	assert.Equal(t, http.StatusOK, send("alice"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))
	assert.Equal(t, http.StatusOK, send("bob"))
	assert.Equal(t, http.StatusOK, send(""))
	assert.Equal(t, http.StatusTooManyRequests, send(""))
}
