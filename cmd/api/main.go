package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/artemvolkov/furnistock-backend/api/routes"
	"github.com/artemvolkov/furnistock-backend/internal/auditlog"
	"github.com/artemvolkov/furnistock-backend/internal/barcodes"
	"github.com/artemvolkov/furnistock-backend/internal/furniture"
	"github.com/artemvolkov/furnistock-backend/internal/users"
	"github.com/artemvolkov/furnistock-backend/internal/warehouse"
	pkgbarcode "github.com/artemvolkov/furnistock-backend/pkg/barcode"
	"github.com/artemvolkov/furnistock-backend/pkg/config"
	"github.com/artemvolkov/furnistock-backend/pkg/db"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
	"github.com/artemvolkov/furnistock-backend/pkg/metrics"
	"github.com/artemvolkov/furnistock-backend/pkg/migrate"
	"github.com/artemvolkov/furnistock-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	usersService, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	furnitureService, err := furniture.NewService(dbClient, furniture.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create furniture service", err)
		os.Exit(1)
	}

	warehouseService, err := warehouse.NewService(dbClient, warehouse.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create warehouse service", err)
		os.Exit(1)
	}

	scanner := pkgbarcode.NewScanner(cfg.Barcode.ScannerBin)
	barcodesService, err := barcodes.NewService(barcodes.NewRepository(dbClient.DB()), scanner, cfg.Barcode, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create barcodes service", err)
		os.Exit(1)
	}

	auditRepo := auditlog.NewRepository(dbClient.DB())
	logsService, err := auditlog.NewService(auditRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create auditlog service", err)
		os.Exit(1)
	}
	recorder := auditlog.NewRecorder(auditRepo, logg, cfg.Audit.QueueSize)
	defer recorder.Close()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			HTTPMetrics: httpMetrics,
			Registry:    registry,
			Recorder:    recorder,
			Users:       usersService,
			Furniture:   furnitureService,
			Warehouse:   warehouseService,
			Barcodes:    barcodesService,
			Logs:        logsService,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
