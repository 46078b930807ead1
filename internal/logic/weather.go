package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grandslam/forecast-api/internal/models"
)

type weatherService struct {
	pg PgPool
}

func NewWeatherService(pg PgPool) WeatherService {
	return &weatherService{pg: pg}
}

// GetGameWeather returns the stored forecast for a game, or (nil, nil) when
// weather has not been ingested for it.
func (s *weatherService) GetGameWeather(ctx context.Context, gameID int) (*models.WeatherConditions, error) {
	weather := models.WeatherConditions{GameID: gameID}
	err := s.pg.QueryRow(ctx, `
		SELECT temperature_f, wind_speed_mph, wind_direction, condition
		FROM game_weather
		WHERE game_id = $1
	`, gameID).Scan(&weather.TemperatureF, &weather.WindSpeedMPH, &weather.WindDirection, &weather.Condition)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("game weather query failed: %w", err)
	}
	return &weather, nil
}
