package models

// Park category thresholds on the runs factor, centered at neutral 1.0.
const ParkCategoryBand = 0.05

// Park categories reported in key insights.
const (
	ParkHitterFriendly  = "hitter_friendly"
	ParkPitcherFriendly = "pitcher_friendly"
	ParkNeutral         = "neutral"
)

// ParkFactors are multiplicative venue adjustments centered at 1.0.
// Values above 1.0 inflate scoring relative to league average.
type ParkFactors struct {
	VenueID       int     `json:"venue_id"`
	Season        int     `json:"season"`
	RunsFactor    float64 `json:"runs_factor"`
	HomeRunFactor float64 `json:"home_run_factor"`
	HitsFactor    float64 `json:"hits_factor"`
}

// Category classifies the venue by its runs factor.
func (p *ParkFactors) Category() string {
	switch {
	case p.RunsFactor >= 1.0+ParkCategoryBand:
		return ParkHitterFriendly
	case p.RunsFactor <= 1.0-ParkCategoryBand:
		return ParkPitcherFriendly
	default:
		return ParkNeutral
	}
}
