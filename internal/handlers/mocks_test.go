package handlers

import (
	"context"
	"time"

	"github.com/grandslam/forecast-api/internal/logic"
	"github.com/grandslam/forecast-api/internal/models"
	"github.com/grandslam/forecast-api/internal/worker"
)

// MockIngestQueue implements IngestQueue
type MockIngestQueue struct {
	Tasks []worker.Task
	Full  bool
}

func (m *MockIngestQueue) Enqueue(task worker.Task) bool {
	if m.Full {
		return false
	}
	m.Tasks = append(m.Tasks, task)
	return true
}

func (m *MockIngestQueue) QueueDepth() int {
	return len(m.Tasks)
}

// MockScheduleService
type MockScheduleService struct {
	GetScheduleFunc func(ctx context.Context, date time.Time) ([]models.Game, error)
	GetGameFunc     func(ctx context.Context, gameID int) (*models.Game, error)
}

func (m *MockScheduleService) GetSchedule(ctx context.Context, date time.Time) ([]models.Game, error) {
	if m.GetScheduleFunc != nil {
		return m.GetScheduleFunc(ctx, date)
	}
	return nil, nil
}

func (m *MockScheduleService) GetGame(ctx context.Context, gameID int) (*models.Game, error) {
	if m.GetGameFunc != nil {
		return m.GetGameFunc(ctx, gameID)
	}
	return nil, logic.ErrNotFound
}

// MockTeamStatsService
type MockTeamStatsService struct {
	GetSeasonStatsFunc func(ctx context.Context, teamID, season int) (*models.TeamSeasonStats, error)
}

func (m *MockTeamStatsService) GetSeasonStats(ctx context.Context, teamID, season int) (*models.TeamSeasonStats, error) {
	if m.GetSeasonStatsFunc != nil {
		return m.GetSeasonStatsFunc(ctx, teamID, season)
	}
	return nil, nil
}

// MockParkFactorsService
type MockParkFactorsService struct {
	GetFactorsFunc func(ctx context.Context, venueID, season int) (*models.ParkFactors, error)
}

func (m *MockParkFactorsService) GetFactors(ctx context.Context, venueID, season int) (*models.ParkFactors, error) {
	if m.GetFactorsFunc != nil {
		return m.GetFactorsFunc(ctx, venueID, season)
	}
	return nil, nil
}

// MockWeatherService
type MockWeatherService struct {
	GetGameWeatherFunc func(ctx context.Context, gameID int) (*models.WeatherConditions, error)
}

func (m *MockWeatherService) GetGameWeather(ctx context.Context, gameID int) (*models.WeatherConditions, error) {
	if m.GetGameWeatherFunc != nil {
		return m.GetGameWeatherFunc(ctx, gameID)
	}
	return nil, nil
}

// MockPredictionService
type MockPredictionService struct {
	PredictGameFunc   func(ctx context.Context, gameID, iterations int) (*models.SimulationResult, error)
	GetPredictionFunc func(ctx context.Context, gameID int) (*models.SimulationResult, error)
}

func (m *MockPredictionService) PredictGame(ctx context.Context, gameID, iterations int) (*models.SimulationResult, error) {
	if m.PredictGameFunc != nil {
		return m.PredictGameFunc(ctx, gameID, iterations)
	}
	return nil, logic.ErrNotFound
}

func (m *MockPredictionService) GetPrediction(ctx context.Context, gameID int) (*models.SimulationResult, error) {
	if m.GetPredictionFunc != nil {
		return m.GetPredictionFunc(ctx, gameID)
	}
	return nil, logic.ErrNotFound
}

// MockIngestionService
type MockIngestionService struct {
	CreateJobFunc func(ctx context.Context, kind, target string) (*models.IngestionJob, error)
	GetJobFunc    func(ctx context.Context, id string) (*models.IngestionJob, error)
}

func (m *MockIngestionService) CreateJob(ctx context.Context, kind, target string) (*models.IngestionJob, error) {
	if m.CreateJobFunc != nil {
		return m.CreateJobFunc(ctx, kind, target)
	}
	return &models.IngestionJob{ID: "job-1", Kind: kind, Target: target, Status: models.JobPending}, nil
}

func (m *MockIngestionService) GetJob(ctx context.Context, id string) (*models.IngestionJob, error) {
	if m.GetJobFunc != nil {
		return m.GetJobFunc(ctx, id)
	}
	return nil, logic.ErrNotFound
}

func (m *MockIngestionService) MarkRunning(ctx context.Context, id string) error { return nil }

func (m *MockIngestionService) MarkCompleted(ctx context.Context, id string, recordsSynced int) error {
	return nil
}

func (m *MockIngestionService) MarkFailed(ctx context.Context, id string, cause error) error {
	return nil
}
