// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jsamuelsen/go-invocation-service/internal/adapters/clients"
	"github.com/jsamuelsen/go-invocation-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-invocation-service/internal/adapters/http"
	"github.com/jsamuelsen/go-invocation-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-invocation-service/internal/app"
	"github.com/jsamuelsen/go-invocation-service/internal/app/actions"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/config"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/identity"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/logging"
	"github.com/jsamuelsen/go-invocation-service/internal/platform/telemetry"
	"github.com/jsamuelsen/go-invocation-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// healthCheckTimeout bounds each readiness check.
const healthCheckTimeout = 2 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Resolve identity; the instance ID is fixed for the process lifetime
	id, err := identity.New(cfg.App.Name, cfg.Invocation.InstanceID)
	if err != nil {
		return fmt.Errorf("resolving identity: %w", err)
	}

	// 4. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: id.Name(),
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Level:      cfg.Log.File.Level,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}).With(slog.String("instance_id", id.InstanceID()))
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.Int("max_level", cfg.Invocation.MaxLevel),
	)

	// 5. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		InstanceID:   id.InstanceID(),
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := telemetry.NewInvocationMetrics(reg)
	if err != nil {
		return fmt.Errorf("creating invocation metrics: %w", err)
	}

	// 6. Create remote transports (ACL pattern), one per configured service
	remote, err := newRemoteService(cfg, logger)
	if err != nil {
		return err
	}

	// 7. Create dispatcher and register the built-in actions
	dispatcher, err := app.NewDispatcher(app.DispatcherConfig{
		Identity: id,
		MaxLevel: cfg.Invocation.MaxLevel,
		Remote:   remote,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	if err := actions.Register(dispatcher); err != nil {
		return fmt.Errorf("registering actions: %w", err)
	}

	// 8. Health checks, one per remote
	healthRegistry := ports.NewHealthRegistry(healthCheckTimeout)
	for _, checker := range remote.HealthCheckers() {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering health check: %w", err)
		}
	}

	// 9. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime).WithIdentity(id)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, reg)
	actionHandler := handlers.NewActionHandler(dispatcher)

	// 10. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 11. Setup router with all middleware and routes
	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, healthHandler, actionHandler)
	routerCfg.Timeout = cfg.Invocation.RequestTimeout
	http.SetupRouter(server.Engine(), routerCfg)

	// 12. Start server (non-blocking)
	serverErr := server.Start()

	logger.Info("serving actions",
		slog.String("addr", server.Addr()),
		slog.Any("actions", dispatcher.Actions()),
		slog.Any("remotes", remote.Services()),
	)

	// 13. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// newRemoteService builds one instrumented client per configured service.
func newRemoteService(cfg *config.Config, logger *slog.Logger) (*acl.RemoteService, error) {
	adapters := make([]acl.BaseAdapter, 0, len(cfg.Services))

	for _, name := range cfg.Services.Names() {
		client, err := clients.New(&clients.Config{
			BaseURL:     cfg.Services[name].BaseURL,
			ServiceName: name,
			Timeout:     cfg.Client.Timeout,
			Retry:       cfg.Client.Retry,
			Circuit:     cfg.Client.CircuitBreaker,
			Transport:   cfg.Client.Transport,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating client for %s: %w", name, err)
		}

		adapters = append(adapters, acl.NewBaseAdapter(client, name))
	}

	remote, err := acl.NewRemoteService(logger, adapters...)
	if err != nil {
		return nil, fmt.Errorf("creating remote service: %w", err)
	}

	return remote, nil
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
