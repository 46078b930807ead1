package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/grandslam/forecast-api/internal/models"
	"github.com/grandslam/forecast-api/internal/sim"
)

type predictionService struct {
	pg        PgPool
	engine    *sim.Engine
	schedule  ScheduleService
	teamStats TeamStatsService
	parks     ParkFactorsService
	weather   WeatherService
	recorder  SimulationRecorder
	logger    *zap.SugaredLogger
	seedFn    func() int64
}

// PredictionConfig wires the prediction service's collaborators.
type PredictionConfig struct {
	Postgres  PgPool
	Engine    *sim.Engine
	Schedule  ScheduleService
	TeamStats TeamStatsService
	Parks     ParkFactorsService
	Weather   WeatherService
	Recorder  SimulationRecorder
	Logger    *zap.SugaredLogger
	// SeedFn supplies the simulation seed; defaults to nanosecond time.
	SeedFn func() int64
}

func NewPredictionService(cfg PredictionConfig) PredictionService {
	if cfg.SeedFn == nil {
		cfg.SeedFn = func() int64 { return time.Now().UnixNano() }
	}
	return &predictionService{
		pg:        cfg.Postgres,
		engine:    cfg.Engine,
		schedule:  cfg.Schedule,
		teamStats: cfg.TeamStats,
		parks:     cfg.Parks,
		weather:   cfg.Weather,
		recorder:  cfg.Recorder,
		logger:    cfg.Logger,
		seedFn:    cfg.SeedFn,
	}
}

// PredictGame resolves every simulation input for the game, runs the kernel,
// and upserts the result keyed by game id. Unresolved inputs surface as the
// kernel's MissingDataError; nothing is substituted with defaults.
func (s *predictionService) PredictGame(ctx context.Context, gameID, iterations int) (*models.SimulationResult, error) {
	game, err := s.schedule.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	gc := models.GameContext{GameID: gameID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.teamStats.GetSeasonStats(gctx, game.HomeTeamID, game.Season)
		if err != nil {
			return fmt.Errorf("home team stats: %w", err)
		}
		gc.HomeTeamStats = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.teamStats.GetSeasonStats(gctx, game.AwayTeamID, game.Season)
		if err != nil {
			return fmt.Errorf("away team stats: %w", err)
		}
		gc.AwayTeamStats = stats
		return nil
	})
	g.Go(func() error {
		factors, err := s.parks.GetFactors(gctx, game.VenueID, game.Season)
		if err != nil {
			return fmt.Errorf("park factors: %w", err)
		}
		gc.ParkFactors = factors
		return nil
	})
	g.Go(func() error {
		weather, err := s.weather.GetGameWeather(gctx, gameID)
		if err != nil {
			return fmt.Errorf("game weather: %w", err)
		}
		gc.Weather = weather
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seed := s.seedFn()
	start := time.Now()
	result, err := s.engine.Simulate(ctx, gc, sim.Options{Iterations: iterations, Seed: seed})
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	if err := s.upsert(ctx, result); err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordSimulation(models.SimulationRun{
			GameID:             result.GameID,
			Iterations:         result.SimulationCount,
			Seed:               seed,
			HomeWinProbability: result.Stats.HomeWinProbability,
			PredictedHomeScore: result.Stats.PredictedHomeScore,
			PredictedAwayScore: result.Stats.PredictedAwayScore,
			OverUnderLine:      result.Stats.OverUnderLine,
			ConfidenceScore:    result.ConfidenceScore,
			DurationMs:         float64(elapsed.Microseconds()) / 1000,
			CreatedAt:          result.GeneratedAt,
		})
	}

	s.logger.Infow("Game simulated",
		"gameID", gameID,
		"iterations", result.SimulationCount,
		"homeWinProb", result.Stats.HomeWinProbability,
		"duration", elapsed,
	)

	return result, nil
}

func (s *predictionService) upsert(ctx context.Context, result *models.SimulationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal prediction: %w", err)
	}

	_, err = s.pg.Exec(ctx, `
		INSERT INTO game_predictions (
			game_id, home_win_probability, predicted_home_score, predicted_away_score,
			over_under_line, confidence_score, simulation_count, payload, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id) DO UPDATE SET
			home_win_probability = EXCLUDED.home_win_probability,
			predicted_home_score = EXCLUDED.predicted_home_score,
			predicted_away_score = EXCLUDED.predicted_away_score,
			over_under_line      = EXCLUDED.over_under_line,
			confidence_score     = EXCLUDED.confidence_score,
			simulation_count     = EXCLUDED.simulation_count,
			payload              = EXCLUDED.payload,
			generated_at         = EXCLUDED.generated_at
	`,
		result.GameID, result.Stats.HomeWinProbability,
		result.Stats.PredictedHomeScore, result.Stats.PredictedAwayScore,
		result.Stats.OverUnderLine, result.ConfidenceScore,
		result.SimulationCount, payload, result.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert prediction: %w", err)
	}
	return nil
}

// GetPrediction returns the most recently stored result for a game.
func (s *predictionService) GetPrediction(ctx context.Context, gameID int) (*models.SimulationResult, error) {
	var payload []byte
	err := s.pg.QueryRow(ctx,
		`SELECT payload FROM game_predictions WHERE game_id = $1`, gameID,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("prediction query failed: %w", err)
	}

	var result models.SimulationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode stored prediction: %w", err)
	}
	return &result, nil
}
