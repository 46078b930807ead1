package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/grandslam/forecast-api/internal/models"
)

type scheduleService struct {
	pg PgPool
}

func NewScheduleService(pg PgPool) ScheduleService {
	return &scheduleService{pg: pg}
}

// GetSchedule lists the ingested games for one calendar day, earliest first.
func (s *scheduleService) GetSchedule(ctx context.Context, date time.Time) ([]models.Game, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := s.pg.Query(ctx, `
		SELECT id, season, game_date, status,
		       home_team_id, away_team_id, home_team_name, away_team_name,
		       venue_id, venue_name, home_score, away_score
		FROM games
		WHERE game_date >= $1 AND game_date < $2
		ORDER BY game_date, id
	`, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("schedule query failed: %w", err)
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		var g models.Game
		if err := rows.Scan(
			&g.ID, &g.Season, &g.GameDate, &g.Status,
			&g.HomeTeamID, &g.AwayTeamID, &g.HomeTeamName, &g.AwayTeamName,
			&g.VenueID, &g.VenueName, &g.HomeScore, &g.AwayScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedule row iteration failed: %w", err)
	}

	return games, nil
}

func (s *scheduleService) GetGame(ctx context.Context, gameID int) (*models.Game, error) {
	var g models.Game
	err := s.pg.QueryRow(ctx, `
		SELECT id, season, game_date, status,
		       home_team_id, away_team_id, home_team_name, away_team_name,
		       venue_id, venue_name, home_score, away_score
		FROM games
		WHERE id = $1
	`, gameID).Scan(
		&g.ID, &g.Season, &g.GameDate, &g.Status,
		&g.HomeTeamID, &g.AwayTeamID, &g.HomeTeamName, &g.AwayTeamName,
		&g.VenueID, &g.VenueName, &g.HomeScore, &g.AwayScore,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("game query failed: %w", err)
	}
	return &g, nil
}
