package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/wealthflow-risk/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-risk/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthflow-risk/internal/config"
	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/logging"
	"github.com/simaogato/wealthflow-risk/internal/observability"
	"github.com/simaogato/wealthflow-risk/internal/usecase/catalog"
	"github.com/simaogato/wealthflow-risk/internal/usecase/seeder"
	"github.com/simaogato/wealthflow-risk/internal/usecase/simulation"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	metrics := observability.NewMetrics("", prometheus.DefaultRegisterer)
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           observability.Handler(prometheus.DefaultGatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.WithField("addr", cfg.MetricsAddr).Info("metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("metrics server failed")
		}
	}()

	// 2. Initialize Repositories (optional Postgres)
	ctx := context.Background()
	var (
		db           *postgres.DB
		scenarioRepo domain.ScenarioRepository
		runRepo      domain.RunRepository
	)
	if cfg.DBEnabled {
		db, err = postgres.NewDB(cfg.DBConnStr)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		if err := db.Migrate(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to migrate database")
		}
		scenarioRepo = postgres.NewScenarioRepository(db)
		runRepo = postgres.NewRunRepository(db)

		inserted, err := seeder.NewCatalogSeeder(scenarioRepo, logger).Seed(ctx)
		if err != nil {
			logger.WithError(err).Fatal("Failed to seed scenario catalog")
		}
		metrics.ScenariosSeeded.Add(float64(inserted))
		logger.WithField("inserted", inserted).Info("scenario catalog seeded")
	} else {
		logger.Info("database disabled, custom scenarios and runs are not stored")
	}

	// 3. Initialize Services (Use Cases)
	var extensions []domain.EconomicScenario
	if cfg.ScenariosFile != "" {
		extensions, err = catalog.LoadScenarioFile(cfg.ScenariosFile)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load scenario file")
		}
		logger.WithFields(logrus.Fields{
			"file":      cfg.ScenariosFile,
			"scenarios": len(extensions),
		}).Info("loaded catalog extensions")
	}

	catalogService := catalog.NewCatalogService(scenarioRepo, logger, extensions...)
	simulationService := simulation.NewSimulationService(catalogService, metrics, logger)
	simulationService.DefaultSeed = cfg.SimulationSeed

	// 4. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.MetricsInterceptor(metrics),
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)

	grpcAdapter := grpcadapter.NewServer(catalogService, simulationService, runRepo, metrics, logger)
	grpcAdapter.Defaults = cfg.SimulationDefaults()
	grpcadapter.RegisterRiskSimulationServer(grpcServer, grpcAdapter)

	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.WithError(err).Fatalf("Failed to listen on %s", cfg.GRPCAddr)
	}

	go func() {
		logger.WithField("addr", cfg.GRPCAddr).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			logger.WithError(err).Fatal("Failed to serve gRPC server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(logger, grpcServer, metricsServer, db)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(logger *logrus.Logger, grpcServer *grpclib.Server, metricsServer *http.Server, db *postgres.DB) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.WithField("signal", sig.String()).Info("Shutting down gracefully...")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("metrics server shutdown")
	}

	if db != nil {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("database close")
		}
	}
}
