package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/runwaylab/outcomes-lab-backend/api/routes"
	"github.com/runwaylab/outcomes-lab-backend/internal/analytics"
	"github.com/runwaylab/outcomes-lab-backend/internal/risk"
	"github.com/runwaylab/outcomes-lab-backend/pkg/config"
	"github.com/runwaylab/outcomes-lab-backend/pkg/db"
	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
	"github.com/runwaylab/outcomes-lab-backend/pkg/metrics"
	"github.com/runwaylab/outcomes-lab-backend/pkg/redis"
	"github.com/runwaylab/outcomes-lab-backend/pkg/version"
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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if cfg.FeatureFlags.AutoMigrate && cfg.App.IsDev() {
		if err := dbClient.AutoMigrate(ctx); err != nil {
			return err
		}
		logg.Info(ctx, "dev auto-migrate complete")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	analyticsMetrics := metrics.NewAnalyticsMetrics(registry)

	service, err := analytics.NewService(dbClient, analytics.Options{
		StatusOnlyReturns: cfg.Analytics.StatusOnlyReturns(),
		Metrics:           analyticsMetrics,
	}, logg)
	if err != nil {
		return err
	}

	deps := routes.Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Analytics: service,
		Scorer:    risk.NewHeuristic(),
		Registry:  registry,
	}

	if cfg.Redis.Enabled() {
		redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			return redisErr
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		deps.Redis = redisClient
		deps.Analytics = analytics.NewCachedService(service, redisClient, cfg.Redis.CacheTTL, logg,
			analytics.WithCacheMetrics(analyticsMetrics))
	} else {
		logg.Info(ctx, "redis not configured, report cache disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"version": version.Version,
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(deps),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(srvCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(srvCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
