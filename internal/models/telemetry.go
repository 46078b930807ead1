package models

import "time"

// SimulationRun is one telemetry row per simulation, batch-inserted into
// ClickHouse for accuracy tracking and dashboard analytics.
type SimulationRun struct {
	GameID             int
	Iterations         int
	Seed               int64
	HomeWinProbability float64
	PredictedHomeScore int
	PredictedAwayScore int
	OverUnderLine      float64
	ConfidenceScore    float64
	DurationMs         float64
	CreatedAt          time.Time
}
