package models

import "time"

// Game statuses as stored in the schedule table.
const (
	GameScheduled = "scheduled"
	GameLive      = "live"
	GameFinal     = "final"
	GamePostponed = "postponed"
)

// Game is one scheduled MLB game.
type Game struct {
	ID           int       `json:"id"`
	Season       int       `json:"season"`
	GameDate     time.Time `json:"game_date"`
	Status       string    `json:"status"`
	HomeTeamID   int       `json:"home_team_id"`
	AwayTeamID   int       `json:"away_team_id"`
	HomeTeamName string    `json:"home_team_name"`
	AwayTeamName string    `json:"away_team_name"`
	VenueID      int       `json:"venue_id"`
	VenueName    string    `json:"venue_name"`
	HomeScore    *int      `json:"home_score,omitempty"`
	AwayScore    *int      `json:"away_score,omitempty"`
}

// GameContext bundles every input the simulation kernel needs. Fields are
// pointers so an unresolved input is distinguishable from a zero value; the
// kernel refuses to run with any of them nil.
type GameContext struct {
	GameID        int
	HomeTeamStats *TeamSeasonStats
	AwayTeamStats *TeamSeasonStats
	ParkFactors   *ParkFactors
	Weather       *WeatherConditions
}
