package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/grandslam/forecast-api/internal/models"
)

type ingestionService struct {
	pg PgPool
}

func NewIngestionService(pg PgPool) IngestionService {
	return &ingestionService{pg: pg}
}

func (s *ingestionService) CreateJob(ctx context.Context, kind, target string) (*models.IngestionJob, error) {
	job := &models.IngestionJob{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    models.JobPending,
		Target:    target,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.pg.Exec(ctx, `
		INSERT INTO ingestion_jobs (id, kind, status, target, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, job.ID, job.Kind, job.Status, job.Target, job.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create ingestion job: %w", err)
	}
	return job, nil
}

func (s *ingestionService) GetJob(ctx context.Context, id string) (*models.IngestionJob, error) {
	var job models.IngestionJob
	err := s.pg.QueryRow(ctx, `
		SELECT id, kind, status, target, records_synced, COALESCE(error, ''),
		       created_at, started_at, finished_at
		FROM ingestion_jobs
		WHERE id = $1
	`, id).Scan(
		&job.ID, &job.Kind, &job.Status, &job.Target, &job.RecordsSynced, &job.Error,
		&job.CreatedAt, &job.StartedAt, &job.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ingestion job query failed: %w", err)
	}
	return &job, nil
}

func (s *ingestionService) MarkRunning(ctx context.Context, id string) error {
	_, err := s.pg.Exec(ctx, `
		UPDATE ingestion_jobs SET status = $2, started_at = now() WHERE id = $1
	`, id, models.JobRunning)
	if err != nil {
		return fmt.Errorf("mark job running: %w", err)
	}
	return nil
}

func (s *ingestionService) MarkCompleted(ctx context.Context, id string, recordsSynced int) error {
	_, err := s.pg.Exec(ctx, `
		UPDATE ingestion_jobs
		SET status = $2, records_synced = $3, finished_at = now()
		WHERE id = $1
	`, id, models.JobCompleted, recordsSynced)
	if err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}
	return nil
}

func (s *ingestionService) MarkFailed(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := s.pg.Exec(ctx, `
		UPDATE ingestion_jobs
		SET status = $2, error = $3, finished_at = now()
		WHERE id = $1
	`, id, models.JobFailed, msg)
	if err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	return nil
}
