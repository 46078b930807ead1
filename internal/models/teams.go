package models

// Team is an MLB club as tracked in the schedule store.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	LeagueID     int    `json:"league_id"`
	DivisionID   int    `json:"division_id"`
	VenueID      int    `json:"venue_id"`
}

// TeamSeasonStats holds a team's season-to-date aggregates. These are the
// simulator's offensive/pitching inputs; a zero GamesPlayed means the row is
// unusable as a per-game rate divisor.
type TeamSeasonStats struct {
	TeamID             int     `json:"team_id"`
	Season             int     `json:"season"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	RunsScored         float64 `json:"runs_scored"`
	RunsAllowed        float64 `json:"runs_allowed"`
	ERA                float64 `json:"era"`
	BattingAverage     float64 `json:"batting_average"`
	OnBasePercentage   float64 `json:"on_base_percentage"`
	SluggingPercentage float64 `json:"slugging_percentage"`
}

func (s *TeamSeasonStats) GamesPlayed() int {
	return s.Wins + s.Losses
}

// RunsPerGame is the baseline expected runs used by the simulation kernel.
func (s *TeamSeasonStats) RunsPerGame() float64 {
	g := s.GamesPlayed()
	if g == 0 {
		return 0
	}
	return s.RunsScored / float64(g)
}

// WinDifferential feeds the confidence heuristic (wins minus losses).
func (s *TeamSeasonStats) WinDifferential() int {
	return s.Wins - s.Losses
}

// PythagoreanExpectation estimates win rate from run differential
// (runs²/(runs²+allowed²)). Reported alongside stats, not used in the
// scoring loop.
func (s *TeamSeasonStats) PythagoreanExpectation() float64 {
	rs := s.RunsScored * s.RunsScored
	ra := s.RunsAllowed * s.RunsAllowed
	if rs+ra == 0 {
		return 0
	}
	return rs / (rs + ra)
}
