package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/grandslam/forecast-api/internal/logic"
	"github.com/grandslam/forecast-api/internal/models"
	"github.com/grandslam/forecast-api/internal/sim"
)

// PredictGame runs a Monte Carlo simulation for a game and stores the result
// @Summary Predict Game Outcome
// @Tags Predictions
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param body body models.PredictGameRequest false "Simulation options"
// @Success 200 {object} models.SimulationResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 422 {object} map[string]string "Missing Data"
// @Router /games/{gameID}/predict [post]
func (h *Handler) PredictGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid game ID")
		return
	}

	var req models.PredictGameRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	result, err := h.prediction.PredictGame(r.Context(), gameID, req.Iterations)
	if err != nil {
		var missing *sim.MissingDataError
		var invalid *sim.InvalidParameterError
		switch {
		case errors.As(err, &missing):
			h.codedErrorResponse(w, http.StatusUnprocessableEntity, string(missing.Category), missing.Detail)
		case errors.As(err, &invalid):
			h.errorResponse(w, http.StatusBadRequest, invalid.Error())
		case errors.Is(err, logic.ErrNotFound):
			h.errorResponse(w, http.StatusNotFound, "Game not found")
		default:
			h.logger.Errorw("Prediction failed", "error", err, "gameID", gameID)
			h.errorResponse(w, http.StatusInternalServerError, "Prediction failed")
		}
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// GetPrediction returns the stored prediction for a game
// @Summary Get Stored Prediction
// @Tags Predictions
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} models.SimulationResult
// @Failure 404 {object} map[string]string "Not Found"
// @Router /games/{gameID}/prediction [get]
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid game ID")
		return
	}

	result, err := h.prediction.GetPrediction(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			h.errorResponse(w, http.StatusNotFound, "No prediction for this game")
			return
		}
		h.logger.Errorw("Failed to load prediction", "error", err, "gameID", gameID)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load prediction")
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}
