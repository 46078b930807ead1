package logic

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/grandslam/forecast-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedisClient defines the interface for the Redis cache client
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// TeamStatsService resolves season aggregates for a team.
// A (nil, nil) return means the stats are not ingested yet.
type TeamStatsService interface {
	GetSeasonStats(ctx context.Context, teamID, season int) (*models.TeamSeasonStats, error)
}

// ParkFactorsService resolves venue scoring adjustments.
type ParkFactorsService interface {
	GetFactors(ctx context.Context, venueID, season int) (*models.ParkFactors, error)
}

// WeatherService resolves game-time weather.
type WeatherService interface {
	GetGameWeather(ctx context.Context, gameID int) (*models.WeatherConditions, error)
}

// ScheduleService exposes the ingested game schedule.
type ScheduleService interface {
	GetSchedule(ctx context.Context, date time.Time) ([]models.Game, error)
	GetGame(ctx context.Context, gameID int) (*models.Game, error)
}

// PredictionService runs and stores game-outcome simulations.
type PredictionService interface {
	PredictGame(ctx context.Context, gameID, iterations int) (*models.SimulationResult, error)
	GetPrediction(ctx context.Context, gameID int) (*models.SimulationResult, error)
}

// IngestionService tracks ingestion job bookkeeping rows.
type IngestionService interface {
	CreateJob(ctx context.Context, kind, target string) (*models.IngestionJob, error)
	GetJob(ctx context.Context, id string) (*models.IngestionJob, error)
	MarkRunning(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string, recordsSynced int) error
	MarkFailed(ctx context.Context, id string, cause error) error
}

// SimulationRecorder receives one telemetry record per simulation run.
// Implementations must not block the prediction path.
type SimulationRecorder interface {
	RecordSimulation(run models.SimulationRun)
}
