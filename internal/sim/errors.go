package sim

import "fmt"

// MissingDataCategory identifies which upstream ingestion step must run
// before a game can be simulated.
type MissingDataCategory string

const (
	InsufficientPitchingData MissingDataCategory = "INSUFFICIENT_PITCHING_DATA"
	InsufficientBattingData  MissingDataCategory = "INSUFFICIENT_BATTING_DATA"
	MissingParkFactors       MissingDataCategory = "MISSING_PARK_FACTORS"
	MissingWeatherData       MissingDataCategory = "MISSING_WEATHER_DATA"
)

// MissingDataError is returned when a required simulation input is absent.
// The kernel never substitutes league-average defaults; a prediction built
// on synthetic stats is worse than no prediction.
type MissingDataError struct {
	Category MissingDataCategory
	Detail   string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Detail)
}

// InvalidParameterError is returned for an iteration count outside the
// allowed range.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}
