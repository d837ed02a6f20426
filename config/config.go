package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	StaticDir   string
	CORSOrigins []string

	// Database configuration. An empty DatabaseURL selects the local sqlite file.
	DatabaseURL string
	SQLitePath  string

	// Redis configuration
	RedisURL string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Completion endpoint configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string
	LLMModel      string
	LLMMaxTokens  int

	// Transcript path configuration
	TranscribeEnabled bool
	ModerationEnabled bool
	WhisperBaseURL    string
	WhisperModel      string

	// External tools
	YtDlpPath  string
	FFmpegPath string
	TempDir    string

	// Cache configuration
	CacheSize int
	CacheTTL  time.Duration

	// Rate limiting, zero disables it
	RateLimitPerHour int

	// Background worker
	WorkerConcurrency int

	// Thumbnail mirroring
	ThumbnailMirror bool
	S3BucketName    string
	AWSRegion       string

	LogLevel string
}

// Defaults used when a setting is absent.
const (
	DefaultServerPort     = "3000"
	DefaultLLMModel       = "gpt-3.5-turbo"
	DefaultLLMMaxTokens   = 1200
	DefaultWhisperBaseURL = "http://localhost:8178/v1"
	DefaultWhisperModel   = "whisper-1"
	DefaultCacheSize      = 512
	DefaultSQLitePath     = "recipes.db"
)

// LoadConfig creates a new Config instance with values from environment variables or secrets.
// A .env file in the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg := &Config{}

	// Load configuration based on environment
	switch env {
	case CI, Development, Test:
		if err := loadEnvConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvConfig reads plain environment variables, falling back to secret files for sensitive values
func loadEnvConfig(cfg *Config) error {
	cfg.ServerPort = getEnv("SERVER_PORT", DefaultServerPort)
	cfg.ServerHost = getEnv("SERVER_HOST", "")
	cfg.StaticDir = getEnv("STATIC_DIR", "static")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173"))

	cfg.DatabaseURL = getEnvOrSecret("DATABASE_URL", "database_url")
	cfg.SQLitePath = getEnv("SQLITE_PATH", DefaultSQLitePath)
	cfg.RedisURL = getEnvOrSecret("REDIS_URL", "redis_url")

	cfg.JWTSecret = getEnvOrSecret("JWT_SECRET", "jwt_secret")
	if cfg.JWTSecret == "" && GetEnvironment() != CI {
		cfg.JWTSecret = "development-secret"
	}
	cfg.OpenAIAPIKey = getEnvOrSecret("OPENAI_API_KEY", "openai_api_key")

	return loadCommon(cfg)
}

// loadProdConfig prefers Docker secrets over environment variables for sensitive values
func loadProdConfig(cfg *Config) error {
	cfg.ServerPort = getEnv("SERVER_PORT", DefaultServerPort)
	cfg.ServerHost = getEnv("SERVER_HOST", "")
	cfg.StaticDir = getEnv("STATIC_DIR", "static")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", ""))

	cfg.DatabaseURL = firstNonEmpty(readSecret("database_url"), os.Getenv("DATABASE_URL"))
	cfg.SQLitePath = getEnv("SQLITE_PATH", DefaultSQLitePath)
	cfg.RedisURL = firstNonEmpty(readSecret("redis_url"), os.Getenv("REDIS_URL"))
	cfg.JWTSecret = firstNonEmpty(readSecret("jwt_secret"), os.Getenv("JWT_SECRET"))
	cfg.OpenAIAPIKey = firstNonEmpty(readSecret("openai_api_key"), os.Getenv("OPENAI_API_KEY"))

	return loadCommon(cfg)
}

// loadCommon reads the settings shared by every environment
func loadCommon(cfg *Config) error {
	var err error

	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", "")
	cfg.LLMModel = getEnv("LLM_MODEL", DefaultLLMModel)
	if cfg.LLMMaxTokens, err = getEnvInt("LLM_MAX_TOKENS", DefaultLLMMaxTokens); err != nil {
		return err
	}

	if cfg.TranscribeEnabled, err = getEnvBool("TRANSCRIBE_ENABLED", false); err != nil {
		return err
	}
	if cfg.ModerationEnabled, err = getEnvBool("MODERATION_ENABLED", true); err != nil {
		return err
	}
	cfg.WhisperBaseURL = getEnv("WHISPER_BASE_URL", DefaultWhisperBaseURL)
	cfg.WhisperModel = getEnv("WHISPER_MODEL", DefaultWhisperModel)

	cfg.YtDlpPath = getEnv("YTDLP_PATH", "yt-dlp")
	cfg.FFmpegPath = getEnv("FFMPEG_PATH", "ffmpeg")
	cfg.TempDir = getEnv("TEMP_DIR", os.TempDir())

	if cfg.CacheSize, err = getEnvInt("CACHE_SIZE", DefaultCacheSize); err != nil {
		return err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", 0); err != nil {
		return err
	}
	if cfg.TokenTTL, err = getEnvDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return err
	}
	if cfg.RateLimitPerHour, err = getEnvInt("RATE_LIMIT_PER_HOUR", 30); err != nil {
		return err
	}

	if cfg.WorkerConcurrency, err = getEnvInt("WORKER_CONCURRENCY", 4); err != nil {
		return err
	}

	if cfg.ThumbnailMirror, err = getEnvBool("THUMBNAIL_MIRROR", false); err != nil {
		return err
	}
	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", "")
	cfg.AWSRegion = getEnv("AWS_REGION", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvOrSecret(key, secret string) string {
	return firstNonEmpty(os.Getenv(key), readSecret(secret))
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ValidationError{Field: key, Message: "must be an integer"}
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, ValidationError{Field: key, Message: "must be a boolean"}
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, ValidationError{Field: key, Message: "must be a duration such as 10m"}
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
