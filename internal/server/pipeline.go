package server

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/config"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/cache"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/command"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/fetcher"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/media"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/moderation"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/transcribe"
)

// NewCache returns a Redis-backed cache when client is set, else an in-process LRU.
func NewCache(cfg *config.Config, client *redis.Client) cache.Cache {
	if client != nil {
		return cache.NewRedis(client, cache.DefaultPrefix)
	}
	return cache.NewMemory(cfg.CacheSize)
}

// NewProcessor wires the extraction pipeline from configuration. db may be
// nil, in which case extractions are not archived.
func NewProcessor(ctx context.Context, cfg *config.Config, c cache.Cache, db *gorm.DB, logger *log.Logger) (*service.Processor, error) {
	client := service.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	llm := service.NewLLMService(client, cfg.LLMModel, cfg.LLMMaxTokens)

	runner := command.ExecRunner{}
	ytdlp := fetcher.New(cfg.YtDlpPath, runner)

	opts := []service.ProcessorOption{
		service.WithWarmer(service.NewWarmer(llm, logger)),
		service.WithCacheTTL(cfg.CacheTTL),
	}

	if cfg.TranscribeEnabled {
		pipeline := &service.MediaPipeline{
			Downloader:  ytdlp,
			Transcoder:  media.New(cfg.FFmpegPath, runner),
			Transcriber: transcribe.New(cfg.WhisperBaseURL, cfg.OpenAIAPIKey, cfg.WhisperModel),
			TempDir:     cfg.TempDir,
		}
		if cfg.ModerationEnabled {
			pipeline.Moderator = moderation.New(client, "")
		}
		opts = append(opts, service.WithMediaPipeline(pipeline))
	}

	if db != nil {
		opts = append(opts, service.WithRecipeStore(service.NewRecipeStore(db)))
	}

	if cfg.ThumbnailMirror {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("thumbnail mirror: %w", err)
		}
		thumbs := service.NewThumbnailService(s3cfg.Client, s3cfg.BucketName, s3cfg.ObjectURL, logger)
		opts = append(opts, service.WithThumbnailMirror(thumbs))
	}

	return service.NewProcessor(ytdlp, llm, c, logger, opts...), nil
}
