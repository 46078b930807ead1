package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/grandslam/forecast-api/internal/models"
)

type teamStatsService struct {
	pg       PgPool
	redis    RedisClient
	cacheTTL time.Duration
	logger   *zap.SugaredLogger
}

func NewTeamStatsService(pg PgPool, redis RedisClient, cacheTTL time.Duration, logger *zap.SugaredLogger) TeamStatsService {
	return &teamStatsService{pg: pg, redis: redis, cacheTTL: cacheTTL, logger: logger}
}

// GetSeasonStats returns a team's season aggregates, read-through cached in
// Redis. A nil result with nil error means the season has not been ingested;
// the caller decides whether that is fatal.
func (s *teamStatsService) GetSeasonStats(ctx context.Context, teamID, season int) (*models.TeamSeasonStats, error) {
	key := fmt.Sprintf("team_stats:%d:%d", teamID, season)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			var stats models.TeamSeasonStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
			// Corrupt cache entry falls through to the database.
		}
	}

	stats := models.TeamSeasonStats{TeamID: teamID, Season: season}
	err := s.pg.QueryRow(ctx, `
		SELECT wins, losses, runs_scored, runs_allowed,
		       era, batting_avg, on_base_pct, slugging_pct
		FROM team_season_stats
		WHERE team_id = $1 AND season = $2
	`, teamID, season).Scan(
		&stats.Wins, &stats.Losses, &stats.RunsScored, &stats.RunsAllowed,
		&stats.ERA, &stats.BattingAverage, &stats.OnBasePercentage, &stats.SluggingPercentage,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("team stats query failed: %w", err)
	}

	if s.redis != nil {
		if payload, err := json.Marshal(&stats); err == nil {
			if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warnw("Failed to cache team stats", "error", err, "key", key)
			}
		}
	}

	return &stats, nil
}
