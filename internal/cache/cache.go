// Package cache provides the key-value store used for video metadata, extracted
// recipes and job status. Supports an in-process bounded LRU
// and Redis for multi-instance deployments.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores JSON-serializable values.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get decodes the value stored under key into dest, or returns ErrMiss.
	Get(ctx context.Context, key string, dest any) error

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// MetadataKey is the key for a video's metadata, the exact URL.
func MetadataKey(url string) string {
	return "metadata:" + url
}

// RecipeKey derives the key for an extracted recipe from everything the prompt
// depends on. Fields are NUL-separated before hashing so distinct inputs
// never share a key.
func RecipeKey(title, description, transcript, location string) string {
	h := sha256.New()
	for _, part := range []string{title, description, transcript, location} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "recipe:" + hex.EncodeToString(h.Sum(nil))
}

// LegacyRecipeKey reproduces the historical key: the first 50 characters of
// the description, an underscore and the location. Two descriptions sharing
// a 50 character prefix collide under it.
func LegacyRecipeKey(description, location string) string {
	r := []rune(description)
	if len(r) > 50 {
		r = r[:50]
	}
	return string(r) + "_" + location
}

// JobKey is the key for a background extraction's status.
func JobKey(id string) string {
	return "job:" + id
}
