package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/grandslam/forecast-api/internal/models"
)

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn
	mu      sync.Mutex
	Batches []*MockBatch
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := &MockBatch{}
	m.Batches = append(m.Batches, b)
	return b, nil
}

func (m *MockClickHouseConn) SentRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, b := range m.Batches {
		if b.Sent {
			total += len(b.Appended)
		}
	}
	return total
}

type MockBatch struct {
	Appended [][]interface{}
	Sent     bool
}

func (m *MockBatch) IsSent() bool { return m.Sent }
func (m *MockBatch) Rows() int    { return len(m.Appended) }

func (m *MockBatch) Append(v ...interface{}) error {
	m.Appended = append(m.Appended, v)
	return nil
}

func (m *MockBatch) AppendStruct(v interface{}) error { return nil }
func (m *MockBatch) Column(int) driver.BatchColumn    { return nil }

func (m *MockBatch) Send() error {
	m.Sent = true
	return nil
}

func (m *MockBatch) Flush() error { return nil }
func (m *MockBatch) Abort() error { return nil }

// MockDBStore implements DBStore, recording executed statements
type MockDBStore struct {
	mu       sync.Mutex
	ExecSQLs []string
	ExecErr  error
}

func (m *MockDBStore) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (m *MockDBStore) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *MockDBStore) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExecErr != nil {
		return pgconn.CommandTag{}, m.ExecErr
	}
	m.ExecSQLs = append(m.ExecSQLs, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *MockDBStore) ExecCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ExecSQLs)
}

// MockFetcher implements StatsFetcher with func fields
type MockFetcher struct {
	FetchScheduleFunc    func(ctx context.Context, date time.Time) ([]models.Game, error)
	FetchTeamStatsFunc   func(ctx context.Context, season int) ([]models.TeamSeasonStats, error)
	FetchGameWeatherFunc func(ctx context.Context, gameID int) (*models.WeatherConditions, error)
}

func (m *MockFetcher) FetchSchedule(ctx context.Context, date time.Time) ([]models.Game, error) {
	if m.FetchScheduleFunc != nil {
		return m.FetchScheduleFunc(ctx, date)
	}
	return nil, nil
}

func (m *MockFetcher) FetchTeamStats(ctx context.Context, season int) ([]models.TeamSeasonStats, error) {
	if m.FetchTeamStatsFunc != nil {
		return m.FetchTeamStatsFunc(ctx, season)
	}
	return nil, nil
}

func (m *MockFetcher) FetchGameWeather(ctx context.Context, gameID int) (*models.WeatherConditions, error) {
	if m.FetchGameWeatherFunc != nil {
		return m.FetchGameWeatherFunc(ctx, gameID)
	}
	return nil, nil
}

// MockJobTracker implements logic.IngestionService, recording transitions
type MockJobTracker struct {
	mu        sync.Mutex
	Running   []string
	Completed map[string]int
	Failed    map[string]string
}

func NewMockJobTracker() *MockJobTracker {
	return &MockJobTracker{
		Completed: make(map[string]int),
		Failed:    make(map[string]string),
	}
}

func (m *MockJobTracker) CreateJob(ctx context.Context, kind, target string) (*models.IngestionJob, error) {
	return &models.IngestionJob{ID: "job-1", Kind: kind, Target: target, Status: models.JobPending}, nil
}

func (m *MockJobTracker) GetJob(ctx context.Context, id string) (*models.IngestionJob, error) {
	return nil, errors.New("not implemented")
}

func (m *MockJobTracker) MarkRunning(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Running = append(m.Running, id)
	return nil
}

func (m *MockJobTracker) MarkCompleted(ctx context.Context, id string, recordsSynced int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Completed[id] = recordsSynced
	return nil
}

func (m *MockJobTracker) MarkFailed(ctx context.Context, id string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	m.Failed[id] = msg
	return nil
}

func (m *MockJobTracker) CompletedRecords(id string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.Completed[id]
	return n, ok
}

func (m *MockJobTracker) FailedMessage(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.Failed[id]
	return msg, ok
}

// MockCacheStore records deleted keys
type MockCacheStore struct {
	mu      sync.Mutex
	Deleted []string
}

func (m *MockCacheStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *MockCacheStore) DeletedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Deleted))
	copy(out, m.Deleted)
	return out
}
