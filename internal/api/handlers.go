// Package api exposes the HTTP boundary the web front end talks to. The
// front end owns all user I/O and rendering; this package only accepts a
// generation request and returns the pipeline outcome as JSON.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/contentagent/internal/history"
	"github.com/jonesrussell/contentagent/internal/logger"
	"github.com/jonesrussell/contentagent/internal/pipeline"
	"github.com/jonesrussell/contentagent/internal/publish"
)

// PipelineRunner runs one content generation pipeline.
type PipelineRunner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Outcome, error)
}

// HistoryLister lists recent publish history entries.
type HistoryLister interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// Handlers provides the HTTP handlers for the API.
type Handlers struct {
	runner  PipelineRunner
	history HistoryLister
	log     logger.Logger
	version string
}

// NewHandlers creates a Handlers instance. The history lister may be nil when
// no database is configured.
func NewHandlers(runner PipelineRunner, hist HistoryLister, log logger.Logger, version string) *Handlers {
	return &Handlers{
		runner:  runner,
		history: hist,
		log:     log,
		version: version,
	}
}

// generateRequest is the POST /api/generate payload.
type generateRequest struct {
	Topic        string   `json:"topic"`
	Platforms    []string `json:"platforms"`
	ScheduleTime string   `json:"schedule_time"`
}

// Generate handles POST /api/generate.
func (h *Handlers) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
		return
	}

	outcome, err := h.runner.Run(c.Request.Context(), pipeline.Request{
		Topic:        req.Topic,
		Platforms:    req.Platforms,
		ScheduleTime: req.ScheduleTime,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if isClientError(err) {
			status = http.StatusBadRequest
		}
		h.log.Error("Pipeline run failed",
			logger.String("topic", req.Topic),
			logger.Error(err),
		)
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"caption":   outcome.Caption,
		"content":   outcome.Body,
		"image_url": outcome.ImageRef,
		"results":   outcome.Results,
		"message":   "Content generated successfully",
	})
}

// History handles GET /api/history.
func (h *Handlers) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "publish history is not configured",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		limit = 50
	}

	entries, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("Failed to list publish history", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to retrieve publish history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// Health handles GET /health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "contentagent",
		"version": h.version,
	})
}

// isClientError reports whether the error is the caller's fault rather than
// a pipeline failure.
func isClientError(err error) bool {
	return errors.Is(err, pipeline.ErrInvalidRequest) ||
		errors.Is(err, publish.ErrScheduleTooSoon) ||
		errors.Is(err, publish.ErrInvalidScheduleTime)
}
