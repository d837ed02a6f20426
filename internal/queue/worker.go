package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hibiken/asynq"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/cache"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/progress"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/types"
)

// ExtractWorker runs recipe:extract tasks and stores their outcome.
type ExtractWorker struct {
	extractor service.RecipeExtractor
	jobs      cache.Cache
	logger    *log.Logger
}

func NewExtractWorker(extractor service.RecipeExtractor, jobs cache.Cache, logger *log.Logger) *ExtractWorker {
	return &ExtractWorker{extractor: extractor, jobs: jobs, logger: logger}
}

func (w *ExtractWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload RecipeExtractPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := w.logger.With("job_id", payload.JobID, "url", payload.URL)
	logger.Info("processing extraction")

	status := types.JobStatus{
		ID:       payload.JobID,
		URL:      payload.URL,
		Location: payload.Location,
	}
	recipe, err := w.extractor.Process(ctx, payload.URL, payload.Location, progress.NewLog(logger))
	if err != nil {
		status.Status = types.JobFailed
		status.Error = err.Error()
	} else {
		status.Status = types.JobDone
		status.Recipe = recipe
	}
	status.UpdatedAt = time.Now().UTC()

	if serr := w.jobs.Set(ctx, cache.JobKey(payload.JobID), status, StatusTTL); serr != nil {
		logger.Error("failed to store job status", "err", serr)
		if err == nil {
			return fmt.Errorf("store job status: %w", serr)
		}
	}
	if err != nil {
		logger.Warn("extraction failed", "err", err)
		return fmt.Errorf("extract: %v: %w", err, asynq.SkipRetry)
	}
	return nil
}

// NewServer builds an asynq server for the Redis instance at redisURL.
func NewServer(redisURL string, concurrency int, logger *log.Logger) (*asynq.Server, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Logger:      asynqLogger{logger},
		LogLevel:    asynq.InfoLevel,
	}), nil
}

// asynqLogger adapts a charmbracelet logger to asynq.Logger.
type asynqLogger struct {
	l *log.Logger
}

func (a asynqLogger) Debug(args ...interface{}) { a.l.Debug(fmt.Sprint(args...)) }
func (a asynqLogger) Info(args ...interface{})  { a.l.Info(fmt.Sprint(args...)) }
func (a asynqLogger) Warn(args ...interface{})  { a.l.Warn(fmt.Sprint(args...)) }
func (a asynqLogger) Error(args ...interface{}) { a.l.Error(fmt.Sprint(args...)) }
func (a asynqLogger) Fatal(args ...interface{}) { a.l.Fatal(fmt.Sprint(args...)) }
