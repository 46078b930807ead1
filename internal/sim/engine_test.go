package sim

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/grandslam/forecast-api/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
}

func validStats(wins, losses int, runsScored float64) *models.TeamSeasonStats {
	return &models.TeamSeasonStats{
		TeamID:             1,
		Season:             2025,
		Wins:               wins,
		Losses:             losses,
		RunsScored:         runsScored,
		RunsAllowed:        700,
		ERA:                4.10,
		BattingAverage:     0.255,
		OnBasePercentage:   0.325,
		SluggingPercentage: 0.410,
	}
}

func neutralContext() models.GameContext {
	return models.GameContext{
		GameID:        745123,
		HomeTeamStats: validStats(81, 81, 750),
		AwayTeamStats: validStats(75, 87, 700),
		ParkFactors: &models.ParkFactors{
			VenueID:       12,
			Season:        2025,
			RunsFactor:    1.0,
			HomeRunFactor: 1.0,
			HitsFactor:    1.0,
		},
		Weather: &models.WeatherConditions{
			GameID:        745123,
			TemperatureF:  72,
			WindSpeedMPH:  5,
			WindDirection: models.WindCrosswind,
			Condition:     "Clear",
		},
	}
}

func TestSimulateProbabilityConservation(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock))

	tests := []struct {
		name string
		ctx  models.GameContext
		seed int64
	}{
		{"Even teams", neutralContext(), 1},
		{"Strong home", func() models.GameContext {
			gc := neutralContext()
			gc.HomeTeamStats = validStats(100, 62, 880)
			return gc
		}(), 2},
		{"Strong away", func() models.GameContext {
			gc := neutralContext()
			gc.AwayTeamStats = validStats(104, 58, 900)
			return gc
		}(), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Simulate(context.Background(), tt.ctx, Options{Seed: tt.seed})
			if err != nil {
				t.Fatalf("Simulate() error = %v", err)
			}
			sum := res.Stats.HomeWinProbability + res.Stats.AwayWinProbability
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("home+away probability = %v, want 1", sum)
			}
			if res.Stats.HomeWinProbability < 0 || res.Stats.HomeWinProbability > 1 {
				t.Errorf("home win probability %v out of [0,1]", res.Stats.HomeWinProbability)
			}
		})
	}
}

func TestSimulateConfidenceBounds(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock))

	tests := []struct {
		name     string
		home     *models.TeamSeasonStats
		away     *models.TeamSeasonStats
		want     float64
	}{
		{"Even differential", validStats(81, 81, 750), validStats(81, 81, 750), 0.5},
		{"Small differential", validStats(81, 81, 750), validStats(75, 87, 700), 0.62},
		{"Clamped at top", validStats(130, 32, 950), validStats(50, 112, 600), 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc := neutralContext()
			gc.HomeTeamStats = tt.home
			gc.AwayTeamStats = tt.away

			res, err := engine.Simulate(context.Background(), gc, Options{Seed: 7})
			if err != nil {
				t.Fatalf("Simulate() error = %v", err)
			}
			if math.Abs(res.ConfidenceScore-tt.want) > 1e-9 {
				t.Errorf("confidence = %v, want %v", res.ConfidenceScore, tt.want)
			}
			if res.ConfidenceScore < 0.5 || res.ConfidenceScore > 0.95 {
				t.Errorf("confidence %v out of [0.5,0.95]", res.ConfidenceScore)
			}
		})
	}
}

// Holding the away side fixed, more home offense must not lower the home win
// probability under a fixed seed.
func TestSimulateMonotonicInHomeOffense(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock))

	prev := -1.0
	for _, runsScored := range []float64{650, 750, 850} {
		gc := neutralContext()
		gc.HomeTeamStats = validStats(81, 81, runsScored)

		res, err := engine.Simulate(context.Background(), gc, Options{Iterations: 10000, Seed: 42})
		if err != nil {
			t.Fatalf("Simulate(runsScored=%v) error = %v", runsScored, err)
		}
		if res.Stats.HomeWinProbability < prev {
			t.Errorf("home win probability decreased: %v after %v (runsScored=%v)",
				res.Stats.HomeWinProbability, prev, runsScored)
		}
		prev = res.Stats.HomeWinProbability
	}
}

func TestSimulateIterationCount(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock))

	tests := []struct {
		name       string
		iterations int
		want       int
		wantErr    bool
	}{
		{"Default", 0, DefaultIterations, false},
		{"Minimum", 1000, 1000, false},
		{"Odd count", 2501, 2501, false},
		{"Maximum", 50000, 50000, false},
		{"Below range", 500, 0, true},
		{"Above range", 100000, 0, true},
		{"Negative", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Simulate(context.Background(), neutralContext(), Options{Iterations: tt.iterations, Seed: 9})
			if tt.wantErr {
				var invalid *InvalidParameterError
				if !errors.As(err, &invalid) {
					t.Fatalf("Simulate() error = %v, want InvalidParameterError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Simulate() error = %v", err)
			}
			if res.SimulationCount != tt.want {
				t.Errorf("SimulationCount = %v, want %v", res.SimulationCount, tt.want)
			}
		})
	}
}

func TestSimulateMissingData(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock))

	tests := []struct {
		name     string
		mutate   func(*models.GameContext)
		category MissingDataCategory
	}{
		{"Nil home stats", func(gc *models.GameContext) { gc.HomeTeamStats = nil }, InsufficientBattingData},
		{"Nil away stats", func(gc *models.GameContext) { gc.AwayTeamStats = nil }, InsufficientBattingData},
		{"Zero games played", func(gc *models.GameContext) {
			gc.HomeTeamStats.Wins = 0
			gc.HomeTeamStats.Losses = 0
		}, InsufficientBattingData},
		{"No batting average", func(gc *models.GameContext) { gc.AwayTeamStats.BattingAverage = 0 }, InsufficientBattingData},
		{"No ERA", func(gc *models.GameContext) { gc.HomeTeamStats.ERA = 0 }, InsufficientPitchingData},
		{"No runs allowed", func(gc *models.GameContext) { gc.AwayTeamStats.RunsAllowed = 0 }, InsufficientPitchingData},
		{"Nil park factors", func(gc *models.GameContext) { gc.ParkFactors = nil }, MissingParkFactors},
		{"Zero park factors", func(gc *models.GameContext) { gc.ParkFactors.RunsFactor = 0 }, MissingParkFactors},
		{"Nil weather", func(gc *models.GameContext) { gc.Weather = nil }, MissingWeatherData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc := neutralContext()
			tt.mutate(&gc)

			res, err := engine.Simulate(context.Background(), gc, Options{Seed: 5})
			if res != nil {
				t.Fatal("Simulate() returned a result despite missing data")
			}
			var missing *MissingDataError
			if !errors.As(err, &missing) {
				t.Fatalf("Simulate() error = %v, want MissingDataError", err)
			}
			if missing.Category != tt.category {
				t.Errorf("category = %v, want %v", missing.Category, tt.category)
			}
		})
	}
}

func TestSimulateDeterministicUnderSeed(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock))

	first, err := engine.Simulate(context.Background(), neutralContext(), Options{Iterations: 10000, Seed: 1234})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	second, err := engine.Simulate(context.Background(), neutralContext(), Options{Iterations: 10000, Seed: 1234})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ under identical seed:\n%+v\n%+v", first, second)
	}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("serialized results differ:\n%s\n%s", firstJSON, secondJSON)
	}

	// A different seed must be allowed to disagree; if it never does the
	// seed is not actually wired through.
	third, err := engine.Simulate(context.Background(), neutralContext(), Options{Iterations: 10000, Seed: 4321})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if reflect.DeepEqual(first.Stats, third.Stats) {
		t.Log("warning: distinct seeds produced identical aggregates")
	}
}

func TestSimulatePartitionCountInvariance(t *testing.T) {
	gc := neutralContext()

	serial := NewEngine(WithClock(fixedClock), WithPartitions(1))
	parallel := NewEngine(WithClock(fixedClock), WithPartitions(8))

	a, err := serial.Simulate(context.Background(), gc, Options{Iterations: 8000, Seed: 99})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	b, err := parallel.Simulate(context.Background(), gc, Options{Iterations: 8000, Seed: 99})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	// Different partition counts draw different RNG streams, so aggregates
	// may differ; the structural invariants must hold for both.
	for _, res := range []*models.SimulationResult{a, b} {
		if res.SimulationCount != 8000 {
			t.Errorf("SimulationCount = %v, want 8000", res.SimulationCount)
		}
		if sum := res.Stats.HomeWinProbability + res.Stats.AwayWinProbability; math.Abs(sum-1) > 1e-9 {
			t.Errorf("probability sum = %v, want 1", sum)
		}
	}
}

// The concrete reference scenario: .500 home club scoring 750 over a .463
// away club scoring 700 in a neutral park with mild weather.
func TestSimulateReferenceScenario(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock))

	res, err := engine.Simulate(context.Background(), neutralContext(), Options{Iterations: 10000, Seed: 20250615})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if res.Stats.HomeWinProbability <= 0.5 {
		t.Errorf("home win probability = %v, want a modest lean above 0.5", res.Stats.HomeWinProbability)
	}
	if res.Stats.HomeWinProbability > 0.65 {
		t.Errorf("home win probability = %v, implausibly large for near-even clubs", res.Stats.HomeWinProbability)
	}
	if res.Stats.OverUnderLine < 8.5 || res.Stats.OverUnderLine > 10.5 {
		t.Errorf("over/under line = %v, want near 9-10 total runs", res.Stats.OverUnderLine)
	}
	if math.Abs(res.ConfidenceScore-0.62) > 1e-9 {
		t.Errorf("confidence = %v, want 0.62 from a 12-game differential gap", res.ConfidenceScore)
	}
	if res.Stats.OverProbability < 0 || res.Stats.UnderProbability < 0 ||
		res.Stats.OverProbability+res.Stats.UnderProbability > 1+1e-9 {
		t.Errorf("over/under probabilities %v/%v not a valid split",
			res.Stats.OverProbability, res.Stats.UnderProbability)
	}
	if res.Stats.OverProbability == 0 && res.Stats.UnderProbability == 0 {
		t.Error("over/under probabilities both zero; not derived from trials")
	}

	insights := res.KeyInsights
	if !insights.HomeFieldAdvantage {
		t.Error("home field advantage flag not set")
	}
	if insights.ParkCategory != models.ParkNeutral {
		t.Errorf("park category = %v, want neutral", insights.ParkCategory)
	}
	if insights.OffensiveEdge != models.EdgeHome {
		t.Errorf("offensive edge = %v, want home", insights.OffensiveEdge)
	}
	if insights.WeatherSummary == "" {
		t.Error("weather summary empty")
	}
}

func TestWeatherAdjustment(t *testing.T) {
	tests := []struct {
		name    string
		weather models.WeatherConditions
		want    float64
	}{
		{"Mild", models.WeatherConditions{TemperatureF: 72, WindSpeedMPH: 5, WindDirection: models.WindCrosswind}, 1.0},
		{"Wind out", models.WeatherConditions{TemperatureF: 72, WindSpeedMPH: 8, WindDirection: models.WindOut}, 1.05},
		{"Gusty crosswind", models.WeatherConditions{TemperatureF: 72, WindSpeedMPH: 20, WindDirection: models.WindCrosswind}, 1.05},
		{"Cold", models.WeatherConditions{TemperatureF: 42, WindSpeedMPH: 5, WindDirection: models.WindIn}, 0.97},
		{"Cold and windy", models.WeatherConditions{TemperatureF: 42, WindSpeedMPH: 20, WindDirection: models.WindOut}, 1.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weatherAdjustment(&tt.weather); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("weatherAdjustment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParkCategory(t *testing.T) {
	tests := []struct {
		name       string
		runsFactor float64
		want       string
	}{
		{"Coors-like", 1.12, models.ParkHitterFriendly},
		{"Neutral high", 1.04, models.ParkNeutral},
		{"Neutral low", 0.96, models.ParkNeutral},
		{"Pitcher park", 0.93, models.ParkPitcherFriendly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := models.ParkFactors{RunsFactor: tt.runsFactor, HomeRunFactor: 1.0, HitsFactor: 1.0}
			if got := pf.Category(); got != tt.want {
				t.Errorf("Category() = %v, want %v", got, tt.want)
			}
		})
	}
}
