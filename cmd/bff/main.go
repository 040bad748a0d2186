// Package main is the entry point for the Mosaiq analytics BFF server.
// It wires all dependencies together and starts the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mosaiq/mosaiq/internal/config"
	"github.com/mosaiq/mosaiq/internal/dashboard"
	"github.com/mosaiq/mosaiq/internal/datasource"
	"github.com/mosaiq/mosaiq/internal/drilldown"
	"github.com/mosaiq/mosaiq/internal/interaction"
	"github.com/mosaiq/mosaiq/internal/observability"
	"github.com/mosaiq/mosaiq/internal/transport"
)

// Build-time variables set via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc1234"
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Step 1: Parse CLI flags.
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	// Step 2: Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	// Step 3: Initialize telemetry (logger, tracer, metrics).
	observability.Version = version
	observability.Commit = commit

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	tracingShutdown, err := observability.InitTracing(ctx, cfg.Observability.Tracing, "mosaiq-bff", version)
	if err != nil {
		logger.Error("tracing initialization failed", zap.Error(err))
		return 1
	}

	metrics := observability.InitMetrics(prometheus.DefaultRegisterer)

	// Step 4: Load seed data sources and build the provider.
	sources, err := datasource.LoadSeeds(cfg.DataSources.Directories)
	if err != nil {
		logger.Error("data source loading failed", zap.Error(err))
		return 1
	}
	provider := datasource.NewMemoryProvider(sources...)
	for _, src := range sources {
		metrics.SetDataSourceRecords(src.ID, float64(len(src.Records)))
	}

	// Step 5: Load dashboard definitions, validate, build registry.
	loader := dashboard.NewLoader()
	defs, err := loader.LoadAll(cfg.Dashboards.Directories)
	if err != nil {
		logger.Error("dashboard definition loading failed", zap.Error(err))
		return 1
	}

	validator := dashboard.NewValidator()
	verrs := validator.Validate(defs, provider)
	if len(verrs) > 0 {
		for _, ve := range verrs {
			logger.Error("dashboard validation error", zap.String("error", ve.Error()))
		}
		logger.Error("dashboard validation failed", zap.Int("errors", len(verrs)))
		return 1
	}

	registry := dashboard.NewRegistry(defs)
	metrics.SetDashboardsLoaded(float64(len(defs)))

	// Step 6: Build the interaction service.
	drills := drilldown.NewStore()
	service := interaction.NewService(registry, provider, drills, logger, metrics)

	// Step 7: Build HTTP router.
	router := transport.NewRouter(transport.Dependencies{
		Config:  cfg,
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		Ready: observability.ReadinessChecks{
			DefinitionsLoaded: func() bool { return len(registry.AllDashboards()) > 0 },
			DataSourcesLoaded: func() bool { return len(provider.IDs()) > 0 },
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Step 8: Start HTTP server.
	logger.Info("server started",
		zap.Int("port", cfg.Server.Port),
		zap.String("version", version),
		zap.String("commit", commit),
		zap.Int("dashboards", len(defs)),
		zap.Int("data_sources", len(sources)),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info("shutdown initiated")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		return 1
	}

	// Graceful shutdown sequence.
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// Stop accepting new connections and drain in-flight requests.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// Flush pending spans.
	if err := tracingShutdown(shutdownCtx); err != nil {
		logger.Error("tracing shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return 0
}
