package models

import "time"

// Ingestion job kinds.
const (
	JobSchedule  = "schedule"
	JobTeamStats = "team_stats"
)

// Ingestion job statuses.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// IngestionJob records one ingestion run for dashboard bookkeeping.
type IngestionJob struct {
	ID            string     `json:"id"`
	Kind          string     `json:"kind"`
	Status        string     `json:"status"`
	Target        string     `json:"target"` // date for schedule jobs, season for stats jobs
	RecordsSynced int        `json:"records_synced"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}
