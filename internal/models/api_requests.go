package models

// PredictGameRequest is the body for POST /games/{gameID}/predict.
// Iterations outside [1000, 50000] are rejected before the simulator runs.
type PredictGameRequest struct {
	Iterations int `json:"iterations" validate:"omitempty,min=1000,max=50000"`
}

// IngestScheduleRequest triggers a schedule sync for one date.
// Date defaults to today when empty.
type IngestScheduleRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// IngestTeamStatsRequest triggers a season-stats refresh for all teams.
type IngestTeamStatsRequest struct {
	Season int `json:"season" validate:"required,min=1901,max=2100"`
}

// JobAcceptedResponse acknowledges an enqueued ingestion job.
type JobAcceptedResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
