package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// seasonParam resolves the season query param, defaulting to the current year.
func seasonParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("season")
	if raw == "" {
		return time.Now().UTC().Year(), true
	}
	season, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return season, true
}

// GetTeamStats returns a team's ingested season aggregates
// @Summary Get Team Season Stats
// @Tags Teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Param season query int false "Season, defaults to current year"
// @Success 200 {object} models.TeamSeasonStats
// @Failure 404 {object} map[string]string "Not Ingested"
// @Router /teams/{teamID}/stats [get]
func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid team ID")
		return
	}
	season, ok := seasonParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "Invalid season")
		return
	}

	stats, err := h.teamStats.GetSeasonStats(r.Context(), teamID, season)
	if err != nil {
		h.logger.Errorw("Failed to load team stats", "error", err, "teamID", teamID, "season", season)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load team stats")
		return
	}
	if stats == nil {
		h.errorResponse(w, http.StatusNotFound, "Stats not ingested for this team and season")
		return
	}

	h.jsonResponse(w, http.StatusOK, stats)
}

// GetParkFactors returns a venue's scoring adjustments
// @Summary Get Park Factors
// @Tags Venues
// @Produce json
// @Param venueID path int true "Venue ID"
// @Param season query int false "Season, defaults to current year"
// @Success 200 {object} models.ParkFactors
// @Failure 404 {object} map[string]string "Not Ingested"
// @Router /venues/{venueID}/park-factors [get]
func (h *Handler) GetParkFactors(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.Atoi(chi.URLParam(r, "venueID"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid venue ID")
		return
	}
	season, ok := seasonParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "Invalid season")
		return
	}

	factors, err := h.parks.GetFactors(r.Context(), venueID, season)
	if err != nil {
		h.logger.Errorw("Failed to load park factors", "error", err, "venueID", venueID, "season", season)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load park factors")
		return
	}
	if factors == nil {
		h.errorResponse(w, http.StatusNotFound, "Park factors not available for this venue")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"venue_id":        factors.VenueID,
		"season":          factors.Season,
		"runs_factor":     factors.RunsFactor,
		"home_run_factor": factors.HomeRunFactor,
		"hits_factor":     factors.HitsFactor,
		"category":        factors.Category(),
	})
}

// GetGameWeather returns the stored game-time weather
// @Summary Get Game Weather
// @Tags Schedule
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} models.WeatherConditions
// @Failure 404 {object} map[string]string "Not Ingested"
// @Router /games/{gameID}/weather [get]
func (h *Handler) GetGameWeather(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid game ID")
		return
	}

	weather, err := h.weather.GetGameWeather(r.Context(), gameID)
	if err != nil {
		h.logger.Errorw("Failed to load game weather", "error", err, "gameID", gameID)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load weather")
		return
	}
	if weather == nil {
		h.errorResponse(w, http.StatusNotFound, "Weather not available for this game")
		return
	}

	h.jsonResponse(w, http.StatusOK, weather)
}
