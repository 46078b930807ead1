// Package sim implements the Monte Carlo game-outcome kernel. It is a pure
// numerical routine: all inputs are resolved before Simulate runs, nothing is
// persisted, and a fixed seed reproduces the result bit for bit.
package sim

import (
	"context"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/grandslam/forecast-api/internal/models"
)

const (
	DefaultIterations = 10000
	MinIterations     = 1000
	MaxIterations     = 50000

	// Per-team run totals are drawn from Normal(baseline, runStdDev),
	// floored at zero.
	runStdDev = 2.0

	// Historical share of games won by the home side. The win-rate prior is
	// kept separate from the run multiplier derived from it; the multiplier
	// applied to home run totals is 1+(homeFieldWinRate-0.5).
	homeFieldWinRate = 0.54

	// Wind blowing out, or any wind above this speed, inflates scoring.
	windOutSpeedMPH = 15.0
	// Games colder than this suppress scoring.
	coldGameTempF = 50.0

	// Trials are split into a fixed number of partitions so the engine can
	// run them concurrently without the partition count (and therefore the
	// per-partition RNG streams) depending on the host.
	defaultPartitions = 4

	// Per-partition seeds are derived as seed + (i+1)*partitionSeedStride.
	partitionSeedStride = 0x5DEECE66D
)

// Options control one simulation run.
type Options struct {
	// Iterations is the trial count N. Zero means DefaultIterations; values
	// outside [MinIterations, MaxIterations] are rejected.
	Iterations int
	// Seed drives every random draw. The same seed with the same context
	// produces an identical SimulationResult.
	Seed int64
}

// Engine runs game simulations. It holds no per-game state; one Engine is
// safe for concurrent use.
type Engine struct {
	partitions int
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithPartitions overrides the trial partition count.
func WithPartitions(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.partitions = n
		}
	}
}

// WithClock overrides the timestamp source, for reproducible output in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		partitions: defaultPartitions,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// tally accumulates trial outcomes. All fields are order-independent sums so
// partitioned runs merge without caring which partition finished first.
type tally struct {
	homeWins int
	homeRuns int64
	awayRuns int64
	totals   map[int]int
}

func (t *tally) merge(other tally) {
	t.homeWins += other.homeWins
	t.homeRuns += other.homeRuns
	t.awayRuns += other.awayRuns
	for total, count := range other.totals {
		t.totals[total] += count
	}
}

// Simulate runs N independent trials of the run-scoring model and aggregates
// them into a SimulationResult. It fails with MissingDataError when any
// required input is absent rather than defaulting.
func (e *Engine) Simulate(ctx context.Context, gc models.GameContext, opts Options) (*models.SimulationResult, error) {
	n := opts.Iterations
	if n == 0 {
		n = DefaultIterations
	}
	if n < MinIterations || n > MaxIterations {
		return nil, &InvalidParameterError{
			Param:  "iterations",
			Reason: "must be between 1000 and 50000",
		}
	}
	if err := validateContext(gc); err != nil {
		return nil, err
	}

	homeBaseline := gc.HomeTeamStats.RunsPerGame()
	awayBaseline := gc.AwayTeamStats.RunsPerGame()

	parkAdj := (gc.ParkFactors.RunsFactor + gc.ParkFactors.HomeRunFactor) / 2
	weatherAdj := weatherAdjustment(gc.Weather)
	homeFieldAdj := 1 + (homeFieldWinRate - 0.5)

	homeMult := parkAdj * weatherAdj * homeFieldAdj
	awayMult := parkAdj * weatherAdj

	counts := e.partitionCounts(n)
	partials := make([]tally, len(counts))

	g, _ := errgroup.WithContext(ctx)
	for i, count := range counts {
		i, count := i, count
		g.Go(func() error {
			rng := rand.New(rand.NewSource(opts.Seed + int64(i+1)*partitionSeedStride))
			partials[i] = runTrials(rng, count, homeBaseline, awayBaseline, homeMult, awayMult)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := tally{totals: make(map[int]int)}
	for _, p := range partials {
		agg.merge(p)
	}

	homeWinProb := round3(float64(agg.homeWins) / float64(n))
	awayWinProb := round3(1 - homeWinProb)

	avgHome := round1(float64(agg.homeRuns) / float64(n))
	avgAway := round1(float64(agg.awayRuns) / float64(n))
	line := math.Round((avgHome+avgAway)*2) / 2

	// Over/under is the observed trial share on each side of the line.
	// Totals landing exactly on the line are a push and count for neither.
	var over, under int
	for total, count := range agg.totals {
		switch {
		case float64(total) > line:
			over += count
		case float64(total) < line:
			under += count
		}
	}

	confidence := 0.5 + math.Abs(float64(gc.HomeTeamStats.WinDifferential()-gc.AwayTeamStats.WinDifferential()))/100
	if confidence > 0.95 {
		confidence = 0.95
	}

	return &models.SimulationResult{
		GameID:          gc.GameID,
		SimulationCount: n,
		ConfidenceScore: confidence,
		Stats: models.SimulationStats{
			HomeWinProbability: homeWinProb,
			AwayWinProbability: awayWinProb,
			PredictedHomeScore: int(math.Round(avgHome)),
			PredictedAwayScore: int(math.Round(avgAway)),
			AvgHomeRuns:        avgHome,
			AvgAwayRuns:        avgAway,
			OverUnderLine:      line,
			OverProbability:    round3(float64(over) / float64(n)),
			UnderProbability:   round3(float64(under) / float64(n)),
		},
		Factors: models.AdjustmentFactors{
			ParkAdjustment:      parkAdj,
			WeatherAdjustment:   weatherAdj,
			HomeFieldAdjustment: homeFieldAdj,
		},
		KeyInsights: buildInsights(gc),
		GeneratedAt: e.now().UTC(),
	}, nil
}

// partitionCounts splits n trials across the fixed partition count. The split
// depends only on n, never on the host, so seeded runs stay reproducible.
func (e *Engine) partitionCounts(n int) []int {
	parts := e.partitions
	if parts > n {
		parts = 1
	}
	counts := make([]int, parts)
	base := n / parts
	rem := n % parts
	for i := range counts {
		counts[i] = base
		if i < rem {
			counts[i]++
		}
	}
	return counts
}

// runTrials draws one partition's worth of games. Draw order is home then
// away, which is part of the seeded contract.
func runTrials(rng *rand.Rand, n int, homeBaseline, awayBaseline, homeMult, awayMult float64) tally {
	t := tally{totals: make(map[int]int)}
	for i := 0; i < n; i++ {
		home := int(math.Round(drawRuns(rng, homeBaseline) * homeMult))
		away := int(math.Round(drawRuns(rng, awayBaseline) * awayMult))

		// Strictly higher score wins; a tie counts in N but in neither tally.
		if home > away {
			t.homeWins++
		}
		t.homeRuns += int64(home)
		t.awayRuns += int64(away)
		t.totals[home+away]++
	}
	return t
}

func drawRuns(rng *rand.Rand, baseline float64) float64 {
	runs := rng.NormFloat64()*runStdDev + baseline
	if runs < 0 {
		return 0
	}
	return runs
}

// weatherAdjustment starts neutral and stacks additive corrections.
func weatherAdjustment(w *models.WeatherConditions) float64 {
	adj := 1.0
	if w.WindDirection == models.WindOut || w.WindSpeedMPH > windOutSpeedMPH {
		adj += 0.05
	}
	if w.TemperatureF < coldGameTempF {
		adj -= 0.03
	}
	return adj
}

func buildInsights(gc models.GameContext) models.KeyInsights {
	return models.KeyInsights{
		HomeFieldAdvantage: true,
		PitchingEdge:       edge(gc.AwayTeamStats.ERA, gc.HomeTeamStats.ERA),
		OffensiveEdge:      edge(gc.HomeTeamStats.RunsPerGame(), gc.AwayTeamStats.RunsPerGame()),
		ParkCategory:       gc.ParkFactors.Category(),
		WeatherSummary:     gc.Weather.Summary(),
	}
}

// edge labels the side with the higher value of a better-when-bigger metric.
// Pitching callers pass ERA swapped so that lower ERA wins.
func edge(homeVal, awayVal float64) string {
	switch {
	case homeVal > awayVal:
		return models.EdgeHome
	case awayVal > homeVal:
		return models.EdgeAway
	default:
		return models.EdgeEven
	}
}

func validateContext(gc models.GameContext) error {
	sides := []struct {
		label string
		stats *models.TeamSeasonStats
	}{
		{"home", gc.HomeTeamStats},
		{"away", gc.AwayTeamStats},
	}
	for _, side := range sides {
		if side.stats == nil {
			return &MissingDataError{
				Category: InsufficientBattingData,
				Detail:   side.label + " team season stats not loaded",
			}
		}
		if side.stats.GamesPlayed() == 0 || side.stats.RunsScored <= 0 || side.stats.BattingAverage <= 0 {
			return &MissingDataError{
				Category: InsufficientBattingData,
				Detail:   side.label + " team batting aggregates incomplete",
			}
		}
		if side.stats.ERA <= 0 || side.stats.RunsAllowed <= 0 {
			return &MissingDataError{
				Category: InsufficientPitchingData,
				Detail:   side.label + " team pitching aggregates incomplete",
			}
		}
	}
	if gc.ParkFactors == nil || gc.ParkFactors.RunsFactor <= 0 || gc.ParkFactors.HomeRunFactor <= 0 {
		return &MissingDataError{
			Category: MissingParkFactors,
			Detail:   "park factors not ingested for venue",
		}
	}
	if gc.Weather == nil {
		return &MissingDataError{
			Category: MissingWeatherData,
			Detail:   "game weather not ingested",
		}
	}
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
