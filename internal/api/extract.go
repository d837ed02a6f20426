package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/progress"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/types"
)

// ExtractHandler serves recipe extraction, buffered or as a server-sent event stream.
// Guards run ahead of both routes.
type ExtractHandler struct {
	extractor service.RecipeExtractor
	guards    []gin.HandlerFunc
	logger    *log.Logger
}

func NewExtractHandler(extractor service.RecipeExtractor, logger *log.Logger, guards ...gin.HandlerFunc) *ExtractHandler {
	return &ExtractHandler{extractor: extractor, guards: guards, logger: logger}
}

func (h *ExtractHandler) RegisterRoutes(router *gin.RouterGroup) {
	extract := router.Group("", h.guards...)
	extract.POST("/extract", h.Extract)
	extract.POST("/extract-stream", h.ExtractStream)
}

// bindExtractRequest writes a 400 and returns false when url or location is missing.
func bindExtractRequest(c *gin.Context) (string, string, bool) {
	var req types.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResult("Invalid request body"))
		return "", "", false
	}
	url := strings.TrimSpace(req.URL)
	location := strings.TrimSpace(req.ResolvedLocation())
	if url == "" || location == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResult("url and zipcode are required"))
		return "", "", false
	}
	return url, location, true
}

func (h *ExtractHandler) Extract(c *gin.Context) {
	url, location, ok := bindExtractRequest(c)
	if !ok {
		return
	}

	recipe, err := h.extractor.Process(c.Request.Context(), url, location, progress.NewLog(h.logger.With("url", url)))
	if err != nil {
		h.logger.Warn("extraction failed", "url", url, "err", err)
		c.JSON(statusForError(err), model.NewErrorResult(err.Error()))
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// ExtractStream forwards each pipeline event to the client as soon as it is produced.
func (h *ExtractHandler) ExtractStream(c *gin.Context) {
	url, location, ok := bindExtractRequest(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	emitter := progress.NewSSE(c.Writer)
	if _, err := h.extractor.Process(c.Request.Context(), url, location, emitter); err != nil {
		h.logger.Warn("streaming extraction failed", "url", url, "err", err)
		emitter.Error(err.Error())
	}
	if err := emitter.Err(); err != nil {
		h.logger.Debug("client went away during stream", "url", url, "err", err)
	}
}

// statusForError maps pipeline failures onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrUsage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoDescription), errors.Is(err, service.ErrContentFlagged):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrFetchFailed),
		errors.Is(err, service.ErrDownloadFailed),
		errors.Is(err, service.ErrTranscodeFailed),
		errors.Is(err, service.ErrTranscribeFailed),
		errors.Is(err, service.ErrModerationFailed),
		errors.Is(err, service.ErrCompletionFailed),
		errors.Is(err, service.ErrInvalidModelOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
