package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports whether a dependency is usable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status  string                 `json:"status"`
	Storage string                 `json:"storage"`
	Backend string                 `json:"backend"`
	Time    string                 `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	storage HealthChecker
	backend string
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(storage HealthChecker, backend string) *HealthHandler {
	return &HealthHandler{storage: storage, backend: backend}
}

// Check handles the health check endpoint
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:  "ok",
		Backend: h.backend,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Details: make(map[string]interface{}),
	}

	if err := h.storage.Health(ctx); err != nil {
		response.Status = "degraded"
		response.Storage = "unhealthy"
		response.Details["storage_error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response.Storage = "healthy"
	c.JSON(http.StatusOK, response)
}

// SetupHealthRoutes registers health check routes
func SetupHealthRoutes(apiGroup *gin.RouterGroup, storage HealthChecker, backend string) {
	handler := NewHealthHandler(storage, backend)
	apiGroup.GET("/health", handler.Check)
}
