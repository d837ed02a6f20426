package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/cache"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/types"
)

// JobsHandler accepts background extractions and reports their status.
// Guards run ahead of job creation only.
type JobsHandler struct {
	queue  JobQueue
	jobs   cache.Cache
	guards []gin.HandlerFunc
}

func NewJobsHandler(queue JobQueue, jobs cache.Cache, guards ...gin.HandlerFunc) *JobsHandler {
	return &JobsHandler{queue: queue, jobs: jobs, guards: guards}
}

func (h *JobsHandler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/jobs")
	jobs.Group("", h.guards...).POST("", h.Create)
	jobs.GET("/:id", h.Get)
}

func (h *JobsHandler) Create(c *gin.Context) {
	if h.queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "background jobs are not configured"})
		return
	}
	url, location, ok := bindExtractRequest(c)
	if !ok {
		return
	}

	id, err := h.queue.Enqueue(c.Request.Context(), url, location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.NewErrorResult("Failed to enqueue job"))
		return
	}
	c.JSON(http.StatusAccepted, types.JobResponse{JobID: id})
}

func (h *JobsHandler) Get(c *gin.Context) {
	if h.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "background jobs are not configured"})
		return
	}

	var status types.JobStatus
	err := h.jobs.Get(c.Request.Context(), cache.JobKey(c.Param("id")), &status)
	if errors.Is(err, cache.ErrMiss) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read job"})
		return
	}
	c.JSON(http.StatusOK, status)
}
