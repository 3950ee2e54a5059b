package main

import (
	"context"
	"net/http"
	"os"

	"github.com/angelmondragon/adjourney-backend/api/routes"
	"github.com/angelmondragon/adjourney-backend/internal/attribution"
	"github.com/angelmondragon/adjourney-backend/internal/exposures"
	"github.com/angelmondragon/adjourney-backend/internal/journeys"
	"github.com/angelmondragon/adjourney-backend/internal/orders"
	"github.com/angelmondragon/adjourney-backend/internal/visits"
	"github.com/angelmondragon/adjourney-backend/pkg/config"
	"github.com/angelmondragon/adjourney-backend/pkg/db"
	"github.com/angelmondragon/adjourney-backend/pkg/logger"
	"github.com/angelmondragon/adjourney-backend/pkg/metrics"
	"github.com/angelmondragon/adjourney-backend/pkg/migrate"
	"github.com/angelmondragon/adjourney-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	journeyService := journeys.NewService(
		visits.NewRepository(dbClient.DB()),
		exposures.NewRepository(dbClient.DB()),
		orders.NewRepository(dbClient.DB()),
		redisClient,
		cfg.Journey,
		logg,
		pipelineMetrics,
	)
	attributionService := attribution.NewService(orders.NewRepository(dbClient.DB()), logg, pipelineMetrics)

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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, journeyService, attributionService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
