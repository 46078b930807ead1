package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/grandslam/forecast-api/internal/logic"
)

// GetSchedule returns the ingested games for one date
// @Summary Get Daily Schedule
// @Tags Schedule
// @Produce json
// @Param date query string false "Date (2006-01-02), defaults to today"
// @Success 200 {array} models.Game
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /schedule [get]
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	games, err := h.schedule.GetSchedule(r.Context(), date)
	if err != nil {
		h.logger.Errorw("Failed to load schedule", "error", err, "date", date)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load schedule")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"games": games,
	})
}

// GetGame returns one game by ID
// @Summary Get Game
// @Tags Schedule
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} models.Game
// @Failure 404 {object} map[string]string "Not Found"
// @Router /games/{gameID} [get]
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid game ID")
		return
	}

	game, err := h.schedule.GetGame(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			h.errorResponse(w, http.StatusNotFound, "Game not found")
			return
		}
		h.logger.Errorw("Failed to load game", "error", err, "gameID", gameID)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load game")
		return
	}

	h.jsonResponse(w, http.StatusOK, game)
}
