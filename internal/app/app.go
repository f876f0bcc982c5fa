package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fxtrades/config"
	"github.com/guttosm/fxtrades/internal/api"
	"github.com/guttosm/fxtrades/internal/logger"
	"github.com/guttosm/fxtrades/internal/metrics"
	"github.com/guttosm/fxtrades/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metricsRegistry is an indirection so tests can register on a fresh registry.
var metricsRegistry = func() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Opens the configured database using InitDatabase().
//   - Builds the trade pipeline (validator, mapper, parser, storage).
//   - Creates the service and HTTP handler layers.
//   - Configures the Gin router, metrics endpoint and health probes.
//   - Provides a cleanup function to close the database.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := databaseOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	pipeline, err := NewPipeline(cfg, db, logger.Default())
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	reg := metricsRegistry()
	svc := service.NewTradeService(pipeline.Parser, pipeline.Storage, metrics.NewIngest(reg))

	handler := api.NewHandler(svc)
	router := api.NewRouter(handler, reg)

	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
