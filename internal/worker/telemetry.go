package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/grandslam/forecast-api/internal/models"
)

var (
	simulationsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_simulations_recorded_total",
		Help: "Total number of simulation telemetry rows accepted",
	})

	simulationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_simulations_dropped_total",
		Help: "Total number of simulation telemetry rows dropped (buffer full)",
	})

	telemetryBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forecast_telemetry_batch_insert_duration_seconds",
		Help:    "Duration of telemetry batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})

	telemetryBatchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_telemetry_batches_failed_total",
		Help: "Total number of telemetry batches that failed to insert",
	})
)

// RecorderConfig configures the telemetry recorder
type RecorderConfig struct {
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Logger        *zap.Logger
}

// Recorder buffers simulation telemetry and batch-inserts it into
// ClickHouse. RecordSimulation never blocks the prediction path: when the
// buffer is full the row is dropped and counted.
type Recorder struct {
	config RecorderConfig
	queue  chan models.SimulationRun
	wg     sync.WaitGroup
	logger *zap.SugaredLogger
}

// NewRecorder creates a telemetry recorder
func NewRecorder(cfg RecorderConfig) *Recorder {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Recorder{
		config: cfg,
		queue:  make(chan models.SimulationRun, cfg.QueueSize),
		logger: cfg.Logger.Sugar(),
	}
}

// Start launches the flush loop
func (r *Recorder) Start() {
	r.wg.Add(1)
	go r.loop()
}

// Stop flushes remaining rows and shuts the recorder down.
func (r *Recorder) Stop() {
	close(r.queue)
	r.wg.Wait()
}

// RecordSimulation implements logic.SimulationRecorder.
func (r *Recorder) RecordSimulation(run models.SimulationRun) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warnw("Telemetry row dropped (recorder stopped)", "game", run.GameID)
		}
	}()

	select {
	case r.queue <- run:
		simulationsRecorded.Inc()
	default:
		simulationsDropped.Inc()
	}
}

func (r *Recorder) loop() {
	defer r.wg.Done()

	batch := make([]models.SimulationRun, 0, r.config.BatchSize)
	ticker := time.NewTicker(r.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := r.insertBatch(batch); err != nil {
			r.logger.Errorw("Telemetry batch insert failed", "rows", len(batch), "error", err)
			telemetryBatchesFailed.Inc()
		}
		telemetryBatchDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case run, ok := <-r.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, run)
			if len(batch) >= r.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

func (r *Recorder) insertBatch(batch []models.SimulationRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chBatch, err := r.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO forecast.simulation_runs (
			game_id, iterations, seed, home_win_probability,
			predicted_home_score, predicted_away_score,
			over_under_line, confidence_score, duration_ms, created_at
		)
	`)
	if err != nil {
		return err
	}

	for _, run := range batch {
		err := chBatch.Append(
			run.GameID,
			run.Iterations,
			run.Seed,
			run.HomeWinProbability,
			run.PredictedHomeScore,
			run.PredictedAwayScore,
			run.OverUnderLine,
			run.ConfidenceScore,
			run.DurationMs,
			run.CreatedAt,
		)
		if err != nil {
			r.logger.Warnw("Failed to append telemetry row", "game", run.GameID, "error", err)
			continue
		}
	}

	return chBatch.Send()
}
