// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	cacheHealthChecker func() bool
	dataHealthChecker  func() bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Cache     string `json:"cache"`
	Data      string `json:"data"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(cacheHealthChecker, dataHealthChecker func() bool) *HealthController {
	return &HealthController{
		cacheHealthChecker: cacheHealthChecker,
		dataHealthChecker:  dataHealthChecker,
	}
}

// Check handles GET /health requests.
// It reports the cache connection and whether any batch has been ingested.
func (h *HealthController) Check(c *gin.Context) {
	cacheStatus := "disconnected"
	if h.cacheHealthChecker != nil && h.cacheHealthChecker() {
		cacheStatus = "connected"
	}

	dataStatus := "empty"
	if h.dataHealthChecker != nil && h.dataHealthChecker() {
		dataStatus = "loaded"
	}

	response := HealthResponse{
		Status:    "ok",
		Cache:     cacheStatus,
		Data:      dataStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, response)
}
