package models

import "fmt"

// WindDirection relative to home plate.
type WindDirection string

const (
	WindIn        WindDirection = "in"
	WindOut       WindDirection = "out"
	WindCrosswind WindDirection = "crosswind"
	WindCalm      WindDirection = "calm"
)

// WeatherConditions is the game-time forecast for a venue.
type WeatherConditions struct {
	GameID        int           `json:"game_id"`
	TemperatureF  float64       `json:"temperature_f"`
	WindSpeedMPH  float64       `json:"wind_speed_mph"`
	WindDirection WindDirection `json:"wind_direction"`
	Condition     string        `json:"condition"`
}

// Summary renders the weather line shown in key insights.
func (w *WeatherConditions) Summary() string {
	return fmt.Sprintf("%.0f°F, wind %.0f mph %s, %s",
		w.TemperatureF, w.WindSpeedMPH, w.WindDirection, w.Condition)
}
