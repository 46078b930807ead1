package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Database URLs
	PostgresURL   string
	ClickHouseURL string
	RedisURL      string

	// Upstream MLB Stats API
	MLBAPIBaseURL string

	// Ingestion pool
	WorkerCount int
	QueueSize   int
	TaskTimeout time.Duration

	// Telemetry recorder
	TelemetryQueueSize     int
	TelemetryBatchSize     int
	TelemetryFlushInterval time.Duration

	// Scheduler
	ScheduleSyncInterval time.Duration
	StatsSyncInterval    time.Duration
	SyncJitterSeconds    int

	// Caching
	StatsCacheTTL time.Duration

	// Simulation
	SimPartitions int
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		MLBAPIBaseURL: getEnv("MLB_API_BASE_URL", "https://statsapi.mlb.com"),

		WorkerCount: getEnvInt("WORKER_COUNT", 2),
		QueueSize:   getEnvInt("QUEUE_SIZE", 100),
		TaskTimeout: getEnvDuration("TASK_TIMEOUT", 5*time.Minute),

		TelemetryQueueSize:     getEnvInt("TELEMETRY_QUEUE_SIZE", 1000),
		TelemetryBatchSize:     getEnvInt("TELEMETRY_BATCH_SIZE", 100),
		TelemetryFlushInterval: getEnvDuration("TELEMETRY_FLUSH_INTERVAL", 1*time.Second),

		ScheduleSyncInterval: getEnvDuration("SCHEDULE_SYNC_INTERVAL", 15*time.Minute),
		StatsSyncInterval:    getEnvDuration("STATS_SYNC_INTERVAL", 6*time.Hour),
		SyncJitterSeconds:    getEnvInt("SYNC_JITTER_SECONDS", 30),

		StatsCacheTTL: getEnvDuration("STATS_CACHE_TTL", 10*time.Minute),

		SimPartitions: getEnvInt("SIM_PARTITIONS", 4),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
		return nil, err
	}
	if cfg.ClickHouseURL, err = getEnvRequired("CLICKHOUSE_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
