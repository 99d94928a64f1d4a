package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-invocation-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-invocation-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/config"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the base logger; requests get a copy enriched with the inbound
	// propagation headers.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// ActionHandler exposes the dispatcher.
	ActionHandler *handlers.ActionHandler

	// Timeout is the deadline for every /api/v1 request. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. OpenTelemetry - server span, metrics and X-Trace-ID
//  3. Propagation - invocation meta from the X-Correlation-ID, X-From-Service,
//     X-From-Instance-ID and X-Call-Level headers
//  4. Logging - request logging (skips health endpoints)
//  5. Timeout - request deadline (API routes only)
//
// Route groups:
//   - /-/ (internal): health, build info and metrics
//   - /api/v1/ (public API): action invocation
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(),
		middleware.Propagation(cfg.Logger),
		middleware.Logging(),
	)

	// No timeout for health checks
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.ActionHandler != nil {
		cfg.ActionHandler.RegisterActionRoutes(apiV1)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with the default timeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
	actionHandler *handlers.ActionHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		ActionHandler: actionHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
