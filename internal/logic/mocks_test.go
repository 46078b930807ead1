package logic

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/grandslam/forecast-api/internal/models"
)

// mockPgPool implements PgPool for testing
type mockPgPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	ExecCalls    int
}

func (m *mockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return nil, errors.New("unexpected Query")
}

func (m *mockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &mockRow{err: pgx.ErrNoRows}
}

func (m *mockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.ExecCalls++
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

// mockRow implements pgx.Row with canned values
type mockRow struct {
	values []any
	err    error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, val := range r.values {
		if i < len(dest) {
			setDest(dest[i], val)
		}
	}
	return nil
}

func setDest(dest any, val any) {
	v := reflect.ValueOf(dest).Elem()
	valV := reflect.ValueOf(val)
	if valV.Type().ConvertibleTo(v.Type()) {
		v.Set(valV.Convert(v.Type()))
	} else {
		v.Set(valV)
	}
}

// mockRedis is an in-memory RedisClient
type mockRedis struct {
	store map[string]string
}

func newMockRedis() *mockRedis {
	return &mockRedis{store: make(map[string]string)}
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := m.store[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case string:
		m.store[key] = v
	case []byte:
		m.store[key] = string(v)
	}
	return redis.NewStatusResult("OK", nil)
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
	return nil, ErrNotFound
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

// mockRecorder captures telemetry rows
type mockRecorder struct {
	runs []models.SimulationRun
}

func (m *mockRecorder) RecordSimulation(run models.SimulationRun) {
	m.runs = append(m.runs, run)
}
