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

type parkFactorsService struct {
	pg       PgPool
	redis    RedisClient
	cacheTTL time.Duration
	logger   *zap.SugaredLogger
}

func NewParkFactorsService(pg PgPool, redis RedisClient, cacheTTL time.Duration, logger *zap.SugaredLogger) ParkFactorsService {
	return &parkFactorsService{pg: pg, redis: redis, cacheTTL: cacheTTL, logger: logger}
}

// GetFactors returns the venue's scoring adjustments for a season.
// Park factors change at most yearly, so the cache TTL can be generous.
// A nil result with nil error means no factors are loaded for the venue.
func (s *parkFactorsService) GetFactors(ctx context.Context, venueID, season int) (*models.ParkFactors, error) {
	key := fmt.Sprintf("park_factors:%d:%d", venueID, season)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			var factors models.ParkFactors
			if err := json.Unmarshal([]byte(cached), &factors); err == nil {
				return &factors, nil
			}
		}
	}

	factors := models.ParkFactors{VenueID: venueID, Season: season}
	err := s.pg.QueryRow(ctx, `
		SELECT runs_factor, home_run_factor, hits_factor
		FROM park_factors
		WHERE venue_id = $1 AND season = $2
	`, venueID, season).Scan(&factors.RunsFactor, &factors.HomeRunFactor, &factors.HitsFactor)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("park factors query failed: %w", err)
	}

	if s.redis != nil {
		if payload, err := json.Marshal(&factors); err == nil {
			if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warnw("Failed to cache park factors", "error", err, "key", key)
			}
		}
	}

	return &factors, nil
}
