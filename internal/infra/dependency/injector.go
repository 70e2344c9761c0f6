// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/storeledger/backend/config"
	"github.com/storeledger/backend/internal/application/adapter"
	"github.com/storeledger/backend/internal/application/usecase/advisor"
	"github.com/storeledger/backend/internal/application/usecase/ingest"
	"github.com/storeledger/backend/internal/application/usecase/report"
	"github.com/storeledger/backend/internal/infra/server/router"
	"github.com/storeledger/backend/internal/integration/adapters"
	"github.com/storeledger/backend/internal/integration/cache"
	"github.com/storeledger/backend/internal/integration/email"
	"github.com/storeledger/backend/internal/integration/entrypoint/controller"
	"github.com/storeledger/backend/internal/integration/entrypoint/middleware"
	"github.com/storeledger/backend/internal/integration/filesource"
	"github.com/storeledger/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	Redis  *redis.Client
	Store  *persistence.BucketStore
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// A missing Redis, Gemini key or Resend key disables the matching feature
// rather than failing startup.
func NewInjector(cfg *config.Config) *Injector {
	// Bucket cache (optional)
	var redisClient *redis.Client
	var bucketCache adapter.BucketCache
	if cfg.Cache.Enabled {
		client, err := cache.NewRedisClient(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Warn("redis unavailable, bucket caching disabled", "error", err)
		} else {
			redisClient = client
			bucketCache = cache.NewRedisBucketCache(client)
		}
	}

	// File source for server-side reloads
	fileSource := filesource.NewLocalSource(cfg.Ingest.DataDir)

	// In-memory snapshot of the latest ingested batch
	store := persistence.NewBucketStore()

	// Ingestion use case
	ingestUseCase := ingest.NewIngestSourcesUseCase(
		fileSource,
		bucketCache,
		cfg.Cache.TTL,
		cfg.Ingest.LowStockThreshold,
	)

	// Report use cases
	getSummaryUseCase := report.NewGetSummaryUseCase()
	comparePeriodsUseCase := report.NewComparePeriodsUseCase()
	getLowStockUseCase := report.NewGetLowStockUseCase()
	exportCSVUseCase := report.NewExportCSVUseCase()

	// Advisor services (optional backends)
	var adviceService adapter.AdviceService = adapters.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.Model)
	var alertNotifier adapter.AlertNotifier
	if cfg.Email.ResendAPIKey != "" && cfg.Email.AlertRecipient != "" {
		alertNotifier = email.NewResendNotifier(
			cfg.Email.ResendAPIKey,
			cfg.Email.FromName,
			cfg.Email.FromEmail,
			cfg.Email.AlertRecipient,
		)
	}

	answerQuestionUseCase := advisor.NewAnswerQuestionUseCase(adviceService)
	generateAlertsUseCase := advisor.NewGenerateAlertsUseCase(alertNotifier)

	// Controllers
	healthController := controller.NewHealthController(
		func() bool {
			if redisClient == nil {
				return false
			}
			return redisClient.Ping(context.Background()).Err() == nil
		},
		func() bool {
			_, _, ok := store.Latest()
			return ok
		},
	)

	ingestController := controller.NewIngestController(ingestUseCase, store, cfg.Ingest.MaxUploadSize)

	dashboardController := controller.NewDashboardController(
		getSummaryUseCase,
		comparePeriodsUseCase,
		getLowStockUseCase,
		exportCSVUseCase,
		store,
	)

	advisorController := controller.NewAdvisorController(
		answerQuestionUseCase,
		generateAlertsUseCase,
		comparePeriodsUseCase,
		store,
		advisor.DefaultAlertThresholds(),
	)

	// Middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var uploadRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		uploadRateLimiter = middleware.NewRateLimiterWithConfig(1000, cfg.Ingest.UploadRateWindow)
	} else {
		uploadRateLimiter = middleware.NewRateLimiterWithConfig(cfg.Ingest.UploadRateLimit, cfg.Ingest.UploadRateWindow)
	}

	// Create router
	r := router.NewRouter(healthController, ingestController, dashboardController, advisorController, uploadRateLimiter)

	return &Injector{
		Config: cfg,
		Redis:  redisClient,
		Store:  store,
		Router: r,
	}
}
