// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/storeledger/backend/internal/integration/entrypoint/controller"
	"github.com/storeledger/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine              *gin.Engine
	healthController    *controller.HealthController
	ingestController    *controller.IngestController
	dashboardController *controller.DashboardController
	advisorController   *controller.AdvisorController
	uploadRateLimiter   *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	ingestController *controller.IngestController,
	dashboardController *controller.DashboardController,
	advisorController *controller.AdvisorController,
	uploadRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:    healthController,
		ingestController:    ingestController,
		dashboardController: dashboardController,
		advisorController:   advisorController,
		uploadRateLimiter:   uploadRateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Ingestion routes (uploads go through the rate limiter)
		if r.ingestController != nil {
			ingest := v1.Group("/ingest")
			{
				if r.uploadRateLimiter != nil {
					ingest.POST("/files", r.uploadRateLimiter.Middleware(), r.ingestController.UploadFiles)
					ingest.POST("/workbook", r.uploadRateLimiter.Middleware(), r.ingestController.UploadWorkbook)
				} else {
					ingest.POST("/files", r.ingestController.UploadFiles)
					ingest.POST("/workbook", r.ingestController.UploadWorkbook)
				}
				ingest.POST("/reload", r.ingestController.Reload)
			}
		}

		// Dashboard routes
		if r.dashboardController != nil {
			dashboard := v1.Group("/dashboard")
			{
				dashboard.GET("/summary", r.dashboardController.GetSummary)
				dashboard.GET("/comparison", r.dashboardController.GetComparison)
				dashboard.GET("/low-stock", r.dashboardController.GetLowStock)
				dashboard.GET("/export", r.dashboardController.Export)
			}
		}

		// Advisor routes
		if r.advisorController != nil {
			advisor := v1.Group("/advisor")
			{
				advisor.POST("/ask", r.advisorController.Ask)
				advisor.GET("/alerts", r.advisorController.GetAlerts)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
