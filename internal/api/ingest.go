package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/khelwa/internal/ingest"
	"github.com/stwalsh4118/khelwa/internal/logger"
)

// IngestRequest lists playlist URLs either as an array or as free text, one per line
type IngestRequest struct {
	URLs []string `json:"urls"`
	Text string   `json:"text"`
}

// urls merges both request forms, dropping blank entries
func (r IngestRequest) urls() []string {
	urls := make([]string, 0, len(r.URLs))
	for _, u := range r.URLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return append(urls, ingest.ParseURLList(r.Text)...)
}

// IngestResponse is returned when a batch is queued
type IngestResponse struct {
	BatchID string `json:"batch_id"`
	Message string `json:"message"`
}

// BatchReportResponse is returned by a synchronous ingest
type BatchReportResponse struct {
	*ingest.BatchReport
	Summary string `json:"summary"`
}

// IngestHandler handles playlist ingestion requests
type IngestHandler struct {
	scheduler *ingest.Scheduler
	tracker   *ingest.Tracker
}

// NewIngestHandler creates a new ingest handler instance
func NewIngestHandler(scheduler *ingest.Scheduler, tracker *ingest.Tracker) *IngestHandler {
	return &IngestHandler{scheduler: scheduler, tracker: tracker}
}

// StartIngest handles POST /api/ingest
func (h *IngestHandler) StartIngest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	urls := req.urls()
	if len(urls) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "no_urls",
			Message: "At least one playlist URL is required",
		})
		return
	}

	if c.Query("wait") == "true" {
		report := h.scheduler.Run(c.Request.Context(), urls)
		c.JSON(http.StatusOK, BatchReportResponse{BatchReport: report, Summary: report.Summary()})
		return
	}

	batchID, err := h.tracker.Start(urls)
	if err != nil {
		logger.Log.Error().Err(err).Int("urls", len(urls)).Msg("Failed to start ingestion batch")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "ingest_unavailable",
			Message: "Failed to start ingestion",
		})
		return
	}

	c.JSON(http.StatusAccepted, IngestResponse{
		BatchID: batchID,
		Message: "Ingestion started",
	})
}

// GetBatch handles GET /api/ingest/:batchId
func (h *IngestHandler) GetBatch(c *gin.Context) {
	status, err := h.tracker.Get(c.Param("batchId"))
	if err != nil {
		if errors.Is(err, ingest.ErrBatchNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "batch_not_found",
				Message: "Batch not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to get batch status",
		})
		return
	}

	c.JSON(http.StatusOK, status)
}

// SetupIngestRoutes registers ingestion routes
func SetupIngestRoutes(apiGroup *gin.RouterGroup, scheduler *ingest.Scheduler, tracker *ingest.Tracker) {
	handler := NewIngestHandler(scheduler, tracker)

	apiGroup.POST("/ingest", handler.StartIngest)
	apiGroup.GET("/ingest/:batchId", handler.GetBatch)
}
