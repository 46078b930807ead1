package models

import "time"

// SimulationResult is the simulator's output for one game, serialized with
// the nested simulation_stats / factors / key_insights shape the dashboard
// consumes.
type SimulationResult struct {
	GameID          int               `json:"game_id"`
	SimulationCount int               `json:"simulation_count"`
	ConfidenceScore float64           `json:"confidence_score"`
	Stats           SimulationStats   `json:"simulation_stats"`
	Factors         AdjustmentFactors `json:"factors"`
	KeyInsights     KeyInsights       `json:"key_insights"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// SimulationStats carries the aggregated trial outcomes.
// HomeWinProbability + AwayWinProbability is 1 by construction.
type SimulationStats struct {
	HomeWinProbability float64 `json:"home_win_probability"`
	AwayWinProbability float64 `json:"away_win_probability"`
	PredictedHomeScore int     `json:"predicted_home_score"`
	PredictedAwayScore int     `json:"predicted_away_score"`
	AvgHomeRuns        float64 `json:"avg_home_runs"`
	AvgAwayRuns        float64 `json:"avg_away_runs"`
	OverUnderLine      float64 `json:"over_under_line"`
	OverProbability    float64 `json:"over_probability"`
	UnderProbability   float64 `json:"under_probability"`
}

// AdjustmentFactors are the multipliers applied to drawn run totals.
type AdjustmentFactors struct {
	ParkAdjustment      float64 `json:"park_adjustment"`
	WeatherAdjustment   float64 `json:"weather_adjustment"`
	HomeFieldAdjustment float64 `json:"home_field_adjustment"`
}

// Edge labels used in KeyInsights.
const (
	EdgeHome = "home"
	EdgeAway = "away"
	EdgeEven = "even"
)

// KeyInsights is the closed set of qualitative factors behind a prediction.
type KeyInsights struct {
	HomeFieldAdvantage bool   `json:"home_field_advantage"`
	PitchingEdge       string `json:"pitching_edge"`
	OffensiveEdge      string `json:"offensive_edge"`
	ParkCategory       string `json:"park_category"`
	WeatherSummary     string `json:"weather_summary"`
}
