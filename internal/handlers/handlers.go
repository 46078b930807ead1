package handlers

import (
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/grandslam/forecast-api/internal/logic"
	"github.com/grandslam/forecast-api/internal/worker"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// IngestQueue defines the interface for the ingestion worker pool
type IngestQueue interface {
	Enqueue(task worker.Task) bool
	QueueDepth() int
}

type Config struct {
	WorkerPool IngestQueue
	Postgres   *pgxpool.Pool
	ClickHouse driver.Conn
	Redis      *redis.Client
	Logger     *zap.Logger
	// Services
	Schedule   logic.ScheduleService
	TeamStats  logic.TeamStatsService
	Parks      logic.ParkFactorsService
	Weather    logic.WeatherService
	Prediction logic.PredictionService
	Ingestion  logic.IngestionService
}

type Handler struct {
	pool       IngestQueue
	pg         *pgxpool.Pool
	ch         driver.Conn
	redis      *redis.Client
	logger     *zap.SugaredLogger
	validator  *validator.Validate
	schedule   logic.ScheduleService
	teamStats  logic.TeamStatsService
	parks      logic.ParkFactorsService
	weather    logic.WeatherService
	prediction logic.PredictionService
	ingestion  logic.IngestionService
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:       cfg.WorkerPool,
		pg:         cfg.Postgres,
		ch:         cfg.ClickHouse,
		redis:      cfg.Redis,
		logger:     cfg.Logger.Sugar(),
		validator:  validator.New(),
		schedule:   cfg.Schedule,
		teamStats:  cfg.TeamStats,
		parks:      cfg.Parks,
		weather:    cfg.Weather,
		prediction: cfg.Prediction,
		ingestion:  cfg.Ingestion,
	}
}
