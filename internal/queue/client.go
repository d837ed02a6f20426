package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/cache"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/types"
)

// TaskEnqueuer is the part of asynq.Client the Client needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client enqueues extractions and records their pending status.
type Client struct {
	client TaskEnqueuer
	jobs   cache.Cache
}

// NewClient connects to the Redis instance at redisURL.
func NewClient(redisURL string, jobs cache.Cache) (*Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewClientWithEnqueuer(asynq.NewClient(opt), jobs), nil
}

func NewClientWithEnqueuer(client TaskEnqueuer, jobs cache.Cache) *Client {
	return &Client{client: client, jobs: jobs}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Enqueue schedules an extraction and returns its job id. Extractions are
// never retried.
func (c *Client) Enqueue(ctx context.Context, url, location string) (string, error) {
	id := uuid.NewString()
	status := types.JobStatus{
		ID:        id,
		Status:    types.JobPending,
		URL:       url,
		Location:  location,
		UpdatedAt: time.Now().UTC(),
	}
	if err := c.jobs.Set(ctx, cache.JobKey(id), status, StatusTTL); err != nil {
		return "", fmt.Errorf("record job status: %w", err)
	}

	data, err := json.Marshal(RecipeExtractPayload{JobID: id, URL: url, Location: location})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(TypeRecipeExtract, data)
	if _, err := c.client.EnqueueContext(ctx, task, asynq.TaskID(id), asynq.MaxRetry(0), asynq.Timeout(5*time.Minute)); err != nil {
		_ = c.jobs.Delete(ctx, cache.JobKey(id))
		return "", fmt.Errorf("enqueue %s: %w", TypeRecipeExtract, err)
	}
	return id, nil
}
