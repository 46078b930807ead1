// Package scheduler drives periodic ingestion so the prediction data stays
// fresh without manual triggers: the day's schedule on a short interval and
// season aggregates on a longer one.
package scheduler

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/grandslam/forecast-api/internal/logic"
	"github.com/grandslam/forecast-api/internal/models"
	"github.com/grandslam/forecast-api/internal/worker"
)

var errQueueFull = errors.New("ingestion queue full")

// Enqueuer accepts ingestion tasks. Satisfied by *worker.Pool.
type Enqueuer interface {
	Enqueue(task worker.Task) bool
}

// Config configures the polling scheduler
type Config struct {
	ScheduleInterval time.Duration
	StatsInterval    time.Duration
	JitterSeconds    int
	Pool             Enqueuer
	Jobs             logic.IngestionService
	Logger           *zap.Logger
}

// Scheduler orchestrates the recurring ingestion loops
type Scheduler struct {
	config   Config
	stopChan chan struct{}
	wg       sync.WaitGroup
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// New creates a polling scheduler
func New(cfg Config) *Scheduler {
	if cfg.ScheduleInterval <= 0 {
		cfg.ScheduleInterval = 15 * time.Minute
	}
	if cfg.StatsInterval <= 0 {
		cfg.StatsInterval = 6 * time.Hour
	}

	return &Scheduler{
		config:   cfg,
		stopChan: make(chan struct{}),
		logger:   cfg.Logger.Sugar(),
		now:      time.Now,
	}
}

// Start launches the polling loops
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx, "schedule", s.config.ScheduleInterval, s.triggerScheduleSync)
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx, "team stats", s.config.StatsInterval, s.triggerStatsSync)
	}()

	s.logger.Infow("Scheduler started",
		"scheduleInterval", s.config.ScheduleInterval,
		"statsInterval", s.config.StatsInterval,
	)
}

// Stop gracefully shuts down the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, trigger func(ctx context.Context)) {
	// Initial run immediately
	trigger(ctx)

	ticker := time.NewTicker(addJitter(interval, s.config.JitterSeconds))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			trigger(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			s.logger.Infow("Scheduler loop context canceled", "loop", name)
			return
		}
	}
}

func (s *Scheduler) triggerScheduleSync(ctx context.Context) {
	target := s.now().UTC().Format("2006-01-02")
	s.enqueue(ctx, models.JobSchedule, target)
}

func (s *Scheduler) triggerStatsSync(ctx context.Context) {
	target := strconv.Itoa(s.now().UTC().Year())
	s.enqueue(ctx, models.JobTeamStats, target)
}

func (s *Scheduler) enqueue(ctx context.Context, kind, target string) {
	job, err := s.config.Jobs.CreateJob(ctx, kind, target)
	if err != nil {
		s.logger.Errorw("Failed to create scheduled job", "kind", kind, "target", target, "error", err)
		return
	}

	if !s.config.Pool.Enqueue(worker.Task{JobID: job.ID, Kind: kind, Target: target}) {
		s.logger.Warnw("Scheduled task dropped, queue full", "kind", kind, "target", target)
		if err := s.config.Jobs.MarkFailed(ctx, job.ID, errQueueFull); err != nil {
			s.logger.Errorw("Failed to mark dropped job failed", "job", job.ID, "error", err)
		}
		return
	}

	s.logger.Infow("Scheduled ingestion enqueued", "job", job.ID, "kind", kind, "target", target)
}

// addJitter adds random jitter to prevent synchronized polling across replicas
func addJitter(duration time.Duration, jitterSeconds int) time.Duration {
	if jitterSeconds == 0 {
		return duration
	}

	jitter := time.Duration(rand.Intn(jitterSeconds)) * time.Second
	return duration + jitter
}
