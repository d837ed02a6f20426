package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredSettings []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI: {
			RequiredSettings: []string{"JWT_SECRET"},
		},
		Production: {
			RequiredSettings: []string{
				"JWT_SECRET",
				"OPENAI_API_KEY",
				"DATABASE_URL",
			},
		},
	}
)

// settingValue maps a setting name onto the loaded value
func settingValue(cfg *Config, name string) string {
	switch name {
	case "JWT_SECRET":
		return cfg.JWTSecret
	case "OPENAI_API_KEY":
		return cfg.OpenAIAPIKey
	case "DATABASE_URL":
		return cfg.DatabaseURL
	case "REDIS_URL":
		return cfg.RedisURL
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errors []string

	for _, name := range reqs.RequiredSettings {
		if settingValue(cfg, name) == "" {
			errors = append(errors, fmt.Sprintf("required setting %s is not set", name))
		}
	}

	if cfg.ServerPort == "" {
		errors = append(errors, "SERVER_PORT must not be empty")
	}
	if cfg.LLMMaxTokens <= 0 {
		errors = append(errors, ValidationError{Field: "LLM_MAX_TOKENS", Message: "must be positive"}.Error())
	}
	if cfg.CacheSize <= 0 {
		errors = append(errors, ValidationError{Field: "CACHE_SIZE", Message: "must be positive"}.Error())
	}
	if cfg.RateLimitPerHour < 0 {
		errors = append(errors, ValidationError{Field: "RATE_LIMIT_PER_HOUR", Message: "must not be negative"}.Error())
	}
	if cfg.ThumbnailMirror && cfg.S3BucketName == "" {
		errors = append(errors, "S3_BUCKET_NAME is required when THUMBNAIL_MIRROR is enabled")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
