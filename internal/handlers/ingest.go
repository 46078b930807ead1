package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/grandslam/forecast-api/internal/logic"
	"github.com/grandslam/forecast-api/internal/models"
	"github.com/grandslam/forecast-api/internal/worker"
)

// IngestSchedule enqueues a schedule sync for one date
// @Summary Trigger Schedule Ingestion
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param body body models.IngestScheduleRequest false "Target date"
// @Success 202 {object} models.JobAcceptedResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Queue Full"
// @Router /ingest/schedule [post]
func (h *Handler) IngestSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.IngestScheduleRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	target := req.Date
	if target == "" {
		target = time.Now().UTC().Format("2006-01-02")
	}

	h.enqueueIngestion(w, r, models.JobSchedule, target)
}

// IngestTeamStats enqueues a season-stats refresh for all teams
// @Summary Trigger Team Stats Ingestion
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param body body models.IngestTeamStatsRequest true "Target season"
// @Success 202 {object} models.JobAcceptedResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Queue Full"
// @Router /ingest/team-stats [post]
func (h *Handler) IngestTeamStats(w http.ResponseWriter, r *http.Request) {
	var req models.IngestTeamStatsRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	h.enqueueIngestion(w, r, models.JobTeamStats, strconv.Itoa(req.Season))
}

// GetIngestionJob returns the status of one ingestion job
// @Summary Get Ingestion Job
// @Tags Ingestion
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} models.IngestionJob
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ingest/jobs/{jobID} [get]
func (h *Handler) GetIngestionJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		h.errorResponse(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	job, err := h.ingestion.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			h.errorResponse(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Errorw("Failed to load ingestion job", "error", err, "jobID", jobID)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load job")
		return
	}

	h.jsonResponse(w, http.StatusOK, job)
}

func (h *Handler) enqueueIngestion(w http.ResponseWriter, r *http.Request, kind, target string) {
	job, err := h.ingestion.CreateJob(r.Context(), kind, target)
	if err != nil {
		h.logger.Errorw("Failed to create ingestion job", "error", err, "kind", kind)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	if !h.pool.Enqueue(worker.Task{JobID: job.ID, Kind: kind, Target: target}) {
		h.errorResponse(w, http.StatusServiceUnavailable, "Ingestion queue full, retry later")
		return
	}

	h.logger.Infow("Ingestion job enqueued", "job", job.ID, "kind", kind, "target", target)
	h.jsonResponse(w, http.StatusAccepted, models.JobAcceptedResponse{
		JobID:  job.ID,
		Status: models.JobPending,
	})
}
