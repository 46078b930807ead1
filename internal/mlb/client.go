// Package mlb is the adapter for the public MLB Stats API. It fetches
// schedules, season aggregates, and game-time weather, and maps them onto the
// internal models; nothing here touches storage.
package mlb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/grandslam/forecast-api/internal/models"
)

const (
	apiVersion = "v1"
	userAgent  = "grand-slam-forecast/1.0"
	timeout    = 10 * time.Second
	maxRetries = 3
	retryDelay = 2 * time.Second

	sportIDMLB = 1
)

// Client talks to the MLB Stats API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchSchedule retrieves all games scheduled for one date.
func (c *Client) FetchSchedule(ctx context.Context, date time.Time) ([]models.Game, error) {
	endpoint := fmt.Sprintf("%s/api/%s/schedule", c.baseURL, apiVersion)

	params := url.Values{}
	params.Set("sportId", strconv.Itoa(sportIDMLB))
	params.Set("date", date.Format("2006-01-02"))

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch schedule failed: %w", err)
	}

	var apiResp scheduleResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse schedule response: %w", err)
	}

	return parseScheduleResponse(apiResp), nil
}

// FetchTeamStats retrieves every team's season aggregates by combining the
// standings (wins/losses), hitting, and pitching season splits.
func (c *Client) FetchTeamStats(ctx context.Context, season int) ([]models.TeamSeasonStats, error) {
	byTeam := make(map[int]*models.TeamSeasonStats)
	stats := func(teamID int) *models.TeamSeasonStats {
		if s, ok := byTeam[teamID]; ok {
			return s
		}
		s := &models.TeamSeasonStats{TeamID: teamID, Season: season}
		byTeam[teamID] = s
		return s
	}

	records, err := c.fetchStandings(ctx, season)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		s := stats(rec.Team.ID)
		s.Wins = rec.Wins
		s.Losses = rec.Losses
	}

	hitting, err := c.fetchStatSplits(ctx, season, "hitting")
	if err != nil {
		return nil, err
	}
	for _, split := range hitting {
		s := stats(split.Team.ID)
		s.RunsScored = split.Stat.Runs
		s.BattingAverage = split.Stat.AVG
		s.OnBasePercentage = split.Stat.OBP
		s.SluggingPercentage = split.Stat.SLG
	}

	pitching, err := c.fetchStatSplits(ctx, season, "pitching")
	if err != nil {
		return nil, err
	}
	for _, split := range pitching {
		s := stats(split.Team.ID)
		s.RunsAllowed = split.Stat.Runs
		s.ERA = split.Stat.ERA
	}

	out := make([]models.TeamSeasonStats, 0, len(byTeam))
	for _, s := range byTeam {
		out = append(out, *s)
	}
	return out, nil
}

// FetchGameWeather retrieves the game-time weather from the live feed.
// Returns (nil, nil) when the feed has no weather block yet.
func (c *Client) FetchGameWeather(ctx context.Context, gameID int) (*models.WeatherConditions, error) {
	endpoint := fmt.Sprintf("%s/api/v1.1/game/%d/feed/live", c.baseURL, gameID)

	body, err := c.doRequestWithRetry(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch game feed failed: %w", err)
	}

	var apiResp feedResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse game feed: %w", err)
	}

	w := apiResp.GameData.Weather
	if w.Condition == "" && w.Temp == "" {
		return nil, nil
	}

	temp, _ := strconv.ParseFloat(w.Temp, 64)
	speed, direction := parseWind(w.Wind)

	return &models.WeatherConditions{
		GameID:        gameID,
		TemperatureF:  temp,
		WindSpeedMPH:  speed,
		WindDirection: direction,
		Condition:     w.Condition,
	}, nil
}

func (c *Client) fetchStandings(ctx context.Context, season int) ([]teamRecord, error) {
	endpoint := fmt.Sprintf("%s/api/%s/standings", c.baseURL, apiVersion)

	params := url.Values{}
	params.Set("leagueId", "103,104")
	params.Set("season", strconv.Itoa(season))

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch standings failed: %w", err)
	}

	var apiResp standingsResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse standings response: %w", err)
	}

	var records []teamRecord
	for _, div := range apiResp.Records {
		records = append(records, div.TeamRecords...)
	}
	return records, nil
}

func (c *Client) fetchStatSplits(ctx context.Context, season int, group string) ([]statSplit, error) {
	endpoint := fmt.Sprintf("%s/api/%s/teams/stats", c.baseURL, apiVersion)

	params := url.Values{}
	params.Set("sportIds", strconv.Itoa(sportIDMLB))
	params.Set("season", strconv.Itoa(season))
	params.Set("group", group)
	params.Set("stats", "season")

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch %s stats failed: %w", group, err)
	}

	var apiResp teamStatsResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse %s stats response: %w", group, err)
	}

	var splits []statSplit
	for _, s := range apiResp.Stats {
		splits = append(splits, s.Splits...)
	}
	return splits, nil
}

// doRequestWithRetry performs an HTTP request with exponential backoff.
// Client errors other than 429 are not retried.
func (c *Client) doRequestWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if httpErr, ok := err.(*httpError); ok {
			if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 && httpErr.StatusCode != http.StatusTooManyRequests {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &httpError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return body, nil
}

func parseScheduleResponse(apiResp scheduleResponse) []models.Game {
	var games []models.Game
	for _, day := range apiResp.Dates {
		for _, g := range day.Games {
			gameDate, err := time.Parse(time.RFC3339, g.GameDate)
			if err != nil {
				continue // Skip malformed entries
			}

			game := models.Game{
				ID:           g.GamePk,
				Season:       g.SeasonYear(),
				GameDate:     gameDate,
				Status:       mapGameStatus(g.Status.AbstractGameState),
				HomeTeamID:   g.Teams.Home.Team.ID,
				AwayTeamID:   g.Teams.Away.Team.ID,
				HomeTeamName: g.Teams.Home.Team.Name,
				AwayTeamName: g.Teams.Away.Team.Name,
				VenueID:      g.Venue.ID,
				VenueName:    g.Venue.Name,
			}
			if g.Status.AbstractGameState == "Final" {
				home, away := g.Teams.Home.Score, g.Teams.Away.Score
				game.HomeScore = &home
				game.AwayScore = &away
			}
			games = append(games, game)
		}
	}
	return games
}

func mapGameStatus(abstractState string) string {
	switch abstractState {
	case "Final":
		return models.GameFinal
	case "Live":
		return models.GameLive
	default:
		return models.GameScheduled
	}
}

// parseWind decodes the feed's wind string, e.g. "12 mph, Out To CF" or
// "5 mph, R To L". Unrecognized directions map to crosswind.
func parseWind(wind string) (float64, models.WindDirection) {
	if wind == "" {
		return 0, models.WindCalm
	}

	parts := strings.SplitN(wind, ",", 2)
	speed := 0.0
	if fields := strings.Fields(parts[0]); len(fields) > 0 {
		speed, _ = strconv.ParseFloat(fields[0], 64)
	}

	direction := models.WindCrosswind
	if len(parts) == 2 {
		desc := strings.ToLower(strings.TrimSpace(parts[1]))
		switch {
		case strings.HasPrefix(desc, "out"):
			direction = models.WindOut
		case strings.HasPrefix(desc, "in"):
			direction = models.WindIn
		case strings.Contains(desc, "calm"):
			direction = models.WindCalm
		}
	} else if strings.Contains(strings.ToLower(wind), "calm") {
		return 0, models.WindCalm
	}

	if speed == 0 && direction == models.WindCrosswind {
		direction = models.WindCalm
	}
	return speed, direction
}

// httpError represents an HTTP error with status code
type httpError struct {
	StatusCode int
	Message    string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// API response structures matching the MLB Stats API JSON format

type scheduleResponse struct {
	Dates []struct {
		Date  string         `json:"date"`
		Games []scheduleGame `json:"games"`
	} `json:"dates"`
}

type scheduleGame struct {
	GamePk   int    `json:"gamePk"`
	GameDate string `json:"gameDate"`
	Season   string `json:"season"`
	Status   struct {
		AbstractGameState string `json:"abstractGameState"`
		DetailedState     string `json:"detailedState"`
	} `json:"status"`
	Teams struct {
		Home scheduleSide `json:"home"`
		Away scheduleSide `json:"away"`
	} `json:"teams"`
	Venue struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"venue"`
}

func (g scheduleGame) SeasonYear() int {
	year, _ := strconv.Atoi(g.Season)
	return year
}

type scheduleSide struct {
	Score int `json:"score"`
	Team  struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

type standingsResponse struct {
	Records []struct {
		TeamRecords []teamRecord `json:"teamRecords"`
	} `json:"records"`
}

type teamRecord struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type teamStatsResponse struct {
	Stats []struct {
		Splits []statSplit `json:"splits"`
	} `json:"stats"`
}

type statSplit struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Stat statLine `json:"stat"`
}

type feedResponse struct {
	GameData struct {
		Weather struct {
			Condition string `json:"condition"`
			Temp      string `json:"temp"`
			Wind      string `json:"wind"`
		} `json:"weather"`
	} `json:"gameData"`
}
