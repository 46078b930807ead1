package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/grandslam/forecast-api/internal/config"
	"github.com/grandslam/forecast-api/internal/handlers"
	"github.com/grandslam/forecast-api/internal/logic"
	"github.com/grandslam/forecast-api/internal/mlb"
	"github.com/grandslam/forecast-api/internal/scheduler"
	"github.com/grandslam/forecast-api/internal/sim"
	"github.com/grandslam/forecast-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres
	pgPool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("Failed to create Postgres pool", "error", err)
	}
	defer pgPool.Close()
	if err := pgPool.Ping(ctx); err != nil {
		sugar.Fatalw("Failed to ping Postgres", "error", err)
	}
	sugar.Info("Connected to Postgres")

	// ClickHouse
	chOptions, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		sugar.Fatalw("Failed to parse ClickHouse URL", "error", err)
	}
	chConn, err := clickhouse.Open(chOptions)
	if err != nil {
		sugar.Fatalw("Failed to connect to ClickHouse", "error", err)
	}
	defer chConn.Close()
	if err := chConn.Ping(ctx); err != nil {
		sugar.Fatalw("Failed to ping ClickHouse", "error", err)
	}
	sugar.Info("Connected to ClickHouse")

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Failed to parse Redis URL", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		sugar.Fatalw("Failed to ping Redis", "error", err)
	}
	sugar.Info("Connected to Redis")

	// Upstream client and services
	mlbClient := mlb.NewClient(cfg.MLBAPIBaseURL)

	scheduleSvc := logic.NewScheduleService(pgPool)
	teamStatsSvc := logic.NewTeamStatsService(pgPool, redisClient, cfg.StatsCacheTTL, sugar)
	parksSvc := logic.NewParkFactorsService(pgPool, redisClient, cfg.StatsCacheTTL, sugar)
	weatherSvc := logic.NewWeatherService(pgPool)
	ingestionSvc := logic.NewIngestionService(pgPool)

	// Telemetry recorder
	recorder := worker.NewRecorder(worker.RecorderConfig{
		QueueSize:     cfg.TelemetryQueueSize,
		BatchSize:     cfg.TelemetryBatchSize,
		FlushInterval: cfg.TelemetryFlushInterval,
		ClickHouse:    chConn,
		Logger:        logger,
	})
	recorder.Start()

	predictionSvc := logic.NewPredictionService(logic.PredictionConfig{
		Postgres:  pgPool,
		Engine:    sim.NewEngine(sim.WithPartitions(cfg.SimPartitions)),
		Schedule:  scheduleSvc,
		TeamStats: teamStatsSvc,
		Parks:     parksSvc,
		Weather:   weatherSvc,
		Recorder:  recorder,
		Logger:    sugar,
	})

	// Ingestion pool
	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
		TaskTimeout: cfg.TaskTimeout,
		Postgres:    pgPool,
		Cache:       redisClient,
		MLB:         mlbClient,
		Jobs:        ingestionSvc,
		Logger:      logger,
	})
	pool.Start(ctx)

	// Background sync
	sched := scheduler.New(scheduler.Config{
		ScheduleInterval: cfg.ScheduleSyncInterval,
		StatsInterval:    cfg.StatsSyncInterval,
		JitterSeconds:    cfg.SyncJitterSeconds,
		Pool:             pool,
		Jobs:             ingestionSvc,
		Logger:           logger,
	})
	sched.Start(ctx)

	handler := handlers.New(handlers.Config{
		WorkerPool: pool,
		Postgres:   pgPool,
		ClickHouse: chConn,
		Redis:      redisClient,
		Logger:     logger,
		Schedule:   scheduleSvc,
		TeamStats:  teamStatsSvc,
		Parks:      parksSvc,
		Weather:    weatherSvc,
		Prediction: predictionSvc,
		Ingestion:  ingestionSvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handlers.NewRouter(handler, cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		sugar.Infow("Server listening", "port", cfg.Port, "env", cfg.Env)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		sugar.Fatalw("Server error", "error", err)

	case sig := <-shutdown:
		sugar.Infow("Shutdown signal received", "signal", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Graceful shutdown failed", "error", err)
			srv.Close()
		}

		// Stop producers before consumers so queued work is flushed.
		sched.Stop()
		pool.Stop()
		recorder.Stop()
	}

	sugar.Info("Shutdown complete")
}
