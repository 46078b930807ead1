// Package worker implements the buffered worker pool for async ingestion.
// This decouples HTTP request handling from upstream API calls and database
// writes, providing:
// - Backpressure handling via load shedding
// - Job status bookkeeping visible through the API
// - Graceful shutdown with flush guarantees
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/grandslam/forecast-api/internal/logic"
	"github.com/grandslam/forecast-api/internal/models"
)

// Prometheus metrics
var (
	tasksEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_ingest_tasks_enqueued_total",
		Help: "Total number of ingestion tasks accepted onto the queue",
	})

	tasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_ingest_tasks_completed_total",
		Help: "Total number of ingestion tasks completed successfully",
	})

	tasksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_ingest_tasks_failed_total",
		Help: "Total number of ingestion tasks that failed",
	})

	tasksLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_ingest_tasks_load_shed_total",
		Help: "Total number of ingestion tasks dropped because the queue was full",
	})

	ingestQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forecast_ingest_queue_depth",
		Help: "Current depth of the ingestion queue",
	})

	recordsSynced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_ingest_records_synced_total",
		Help: "Total number of upstream records written to Postgres",
	})
)

// Task is a unit of ingestion work. Target is a date (2006-01-02) for
// schedule tasks and a season year for team stats tasks.
type Task struct {
	JobID      string
	Kind       string
	Target     string
	EnqueuedAt time.Time
}

// StatsFetcher is the upstream API surface the pool needs.
type StatsFetcher interface {
	FetchSchedule(ctx context.Context, date time.Time) ([]models.Game, error)
	FetchTeamStats(ctx context.Context, season int) ([]models.TeamSeasonStats, error)
	FetchGameWeather(ctx context.Context, gameID int) (*models.WeatherConditions, error)
}

// DBStore defines the Postgres surface used by the pool
type DBStore interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// CacheStore invalidates cached reads after an ingestion pass.
type CacheStore interface {
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount int
	QueueSize   int
	TaskTimeout time.Duration
	Postgres    DBStore
	Cache       CacheStore
	MLB         StatsFetcher
	Jobs        logic.IngestionService
	Logger      *zap.Logger
}

// Pool manages a pool of workers for async ingestion
type Pool struct {
	config    PoolConfig
	taskQueue chan Task
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *zap.SugaredLogger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 5 * time.Minute
	}

	return &Pool{
		config:    cfg,
		taskQueue: make(chan Task, cfg.QueueSize),
		logger:    cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Ingestion pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
	)
}

// Stop gracefully shuts down the worker pool, draining queued tasks.
func (p *Pool) Stop() {
	p.logger.Info("Stopping ingestion pool...")
	p.cancel()
	close(p.taskQueue)
	p.wg.Wait()
	p.logger.Info("Ingestion pool stopped")
}

// Enqueue adds a task to the queue. Returns false immediately if the queue
// is full instead of blocking the HTTP path.
func (p *Pool) Enqueue(task Task) bool {
	task.EnqueuedAt = time.Now()

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue task (pool stopped)", "error", r)
		}
	}()

	select {
	case p.taskQueue <- task:
		tasksEnqueued.Inc()
		return true
	default:
		p.logger.Warnw("Ingestion queue full, dropping task", "kind", task.Kind, "target", task.Target)
		tasksLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.taskQueue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Infow("Ingestion worker started", "worker", id)

	for task := range p.taskQueue {
		p.process(task, id)
	}
}

// process runs one ingestion task end to end, keeping the job row's status
// in step with execution.
func (p *Pool) process(task Task, workerID int) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.TaskTimeout)
	defer cancel()

	start := time.Now()
	p.logger.Infow("Processing ingestion task",
		"worker", workerID,
		"job", task.JobID,
		"kind", task.Kind,
		"target", task.Target,
	)

	if err := p.config.Jobs.MarkRunning(ctx, task.JobID); err != nil {
		p.logger.Errorw("Failed to mark job running", "job", task.JobID, "error", err)
	}

	var (
		synced int
		err    error
	)
	switch task.Kind {
	case models.JobSchedule:
		synced, err = p.syncSchedule(ctx, task.Target)
	case models.JobTeamStats:
		synced, err = p.syncTeamStats(ctx, task.Target)
	default:
		err = fmt.Errorf("unknown task kind %q", task.Kind)
	}

	if err != nil {
		tasksFailed.Inc()
		p.logger.Errorw("Ingestion task failed",
			"worker", workerID,
			"job", task.JobID,
			"kind", task.Kind,
			"error", err,
		)
		if markErr := p.config.Jobs.MarkFailed(ctx, task.JobID, err); markErr != nil {
			p.logger.Errorw("Failed to mark job failed", "job", task.JobID, "error", markErr)
		}
		return
	}

	tasksCompleted.Inc()
	recordsSynced.Add(float64(synced))
	if err := p.config.Jobs.MarkCompleted(ctx, task.JobID, synced); err != nil {
		p.logger.Errorw("Failed to mark job completed", "job", task.JobID, "error", err)
	}

	p.logger.Infow("Ingestion task completed",
		"worker", workerID,
		"job", task.JobID,
		"kind", task.Kind,
		"records", synced,
		"duration", time.Since(start),
	)
}

// syncSchedule pulls one day of games and upserts teams, games, and any
// game-time weather the feed already exposes.
func (p *Pool) syncSchedule(ctx context.Context, target string) (int, error) {
	date, err := time.Parse("2006-01-02", target)
	if err != nil {
		return 0, fmt.Errorf("invalid schedule target %q: %w", target, err)
	}

	games, err := p.config.MLB.FetchSchedule(ctx, date)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, game := range games {
		if err := p.upsertTeam(ctx, game.HomeTeamID, game.HomeTeamName); err != nil {
			return synced, err
		}
		if err := p.upsertTeam(ctx, game.AwayTeamID, game.AwayTeamName); err != nil {
			return synced, err
		}

		_, err := p.config.Postgres.Exec(ctx, `
			INSERT INTO games (id, season, game_date, status, home_team_id, away_team_id,
			                   home_team_name, away_team_name, venue_id, venue_name,
			                   home_score, away_score, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
			ON CONFLICT (id) DO UPDATE
			SET status = EXCLUDED.status,
			    game_date = EXCLUDED.game_date,
			    home_score = EXCLUDED.home_score,
			    away_score = EXCLUDED.away_score,
			    updated_at = now()
		`, game.ID, game.Season, game.GameDate, game.Status,
			game.HomeTeamID, game.AwayTeamID, game.HomeTeamName, game.AwayTeamName,
			game.VenueID, game.VenueName, game.HomeScore, game.AwayScore)
		if err != nil {
			return synced, fmt.Errorf("upsert game %d: %w", game.ID, err)
		}
		synced++

		// Weather is best effort; the live feed often has none until
		// close to first pitch.
		weather, err := p.config.MLB.FetchGameWeather(ctx, game.ID)
		if err != nil {
			p.logger.Warnw("Weather fetch failed", "game", game.ID, "error", err)
			continue
		}
		if weather == nil {
			continue
		}

		_, err = p.config.Postgres.Exec(ctx, `
			INSERT INTO game_weather (game_id, temperature_f, wind_speed_mph, wind_direction, condition, updated_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (game_id) DO UPDATE
			SET temperature_f = EXCLUDED.temperature_f,
			    wind_speed_mph = EXCLUDED.wind_speed_mph,
			    wind_direction = EXCLUDED.wind_direction,
			    condition = EXCLUDED.condition,
			    updated_at = now()
		`, game.ID, weather.TemperatureF, weather.WindSpeedMPH, weather.WindDirection, weather.Condition)
		if err != nil {
			p.logger.Warnw("Weather upsert failed", "game", game.ID, "error", err)
			continue
		}
		synced++
	}

	return synced, nil
}

// syncTeamStats pulls season aggregates for every team and invalidates the
// read cache so the next prediction sees fresh numbers.
func (p *Pool) syncTeamStats(ctx context.Context, target string) (int, error) {
	season, err := strconv.Atoi(target)
	if err != nil {
		return 0, fmt.Errorf("invalid stats target %q: %w", target, err)
	}

	stats, err := p.config.MLB.FetchTeamStats(ctx, season)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, s := range stats {
		_, err := p.config.Postgres.Exec(ctx, `
			INSERT INTO team_season_stats (team_id, season, wins, losses, runs_scored, runs_allowed,
			                               era, batting_avg, on_base_pct, slugging_pct, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
			ON CONFLICT (team_id, season) DO UPDATE
			SET wins = EXCLUDED.wins,
			    losses = EXCLUDED.losses,
			    runs_scored = EXCLUDED.runs_scored,
			    runs_allowed = EXCLUDED.runs_allowed,
			    era = EXCLUDED.era,
			    batting_avg = EXCLUDED.batting_avg,
			    on_base_pct = EXCLUDED.on_base_pct,
			    slugging_pct = EXCLUDED.slugging_pct,
			    updated_at = now()
		`, s.TeamID, s.Season, s.Wins, s.Losses, s.RunsScored, s.RunsAllowed,
			s.ERA, s.BattingAverage, s.OnBasePercentage, s.SluggingPercentage)
		if err != nil {
			return synced, fmt.Errorf("upsert stats for team %d: %w", s.TeamID, err)
		}
		synced++

		if p.config.Cache != nil {
			key := fmt.Sprintf("team_stats:%d:%d", s.TeamID, s.Season)
			if err := p.config.Cache.Del(ctx, key).Err(); err != nil && err != redis.Nil {
				p.logger.Warnw("Cache invalidation failed", "key", key, "error", err)
			}
		}
	}

	return synced, nil
}

func (p *Pool) upsertTeam(ctx context.Context, id int, name string) error {
	_, err := p.config.Postgres.Exec(ctx, `
		INSERT INTO teams (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, id, name)
	if err != nil {
		return fmt.Errorf("upsert team %d: %w", id, err)
	}
	return nil
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ingestQueueDepth.Set(float64(len(p.taskQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
