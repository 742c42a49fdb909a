package condition

// Ratio is a Facility Condition Index on the 0-1 decimal scale.
// Classification always operates on Ratio, never on Percent.
type Ratio float64

// Percent is an FCI scaled by 100 for display. It exists as a distinct
// type so a display value cannot be passed where a decimal ratio is
// expected; that mistake silently classifies everything as Critical.
type Percent float64

// Percent converts a decimal ratio to its display percentage.
func (r Ratio) Percent() Percent {
	return Percent(r * 100)
}

// Rating is a qualitative condition rating.
type Rating string

const (
	RatingGood     Rating = "Good"
	RatingFair     Rating = "Fair"
	RatingPoor     Rating = "Poor"
	RatingCritical Rating = "Critical"
)

// CalculateFCI returns deferred maintenance cost over current replacement
// value. A zero replacement value means there is no basis for assessment
// and yields 0, not an error.
func CalculateFCI(deferredMaintenanceCost, currentReplacementValue float64) Ratio {
	if currentReplacementValue == 0 {
		return 0
	}
	return Ratio(deferredMaintenanceCost / currentReplacementValue)
}

// Thresholds holds the FCI rating boundaries on the decimal scale,
// inclusive on the lower rating. Jurisdictions may override them.
type Thresholds struct {
	Good float64 `yaml:"good"`
	Fair float64 `yaml:"fair"`
	Poor float64 `yaml:"poor"`
}

// DefaultThresholds returns the standard FCI boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Good: 0.05, Fair: 0.10, Poor: 0.30}
}

// Rating classifies a decimal-ratio FCI.
func (t Thresholds) Rating(fci Ratio) Rating {
	value := float64(fci)
	switch {
	case value <= t.Good:
		return RatingGood
	case value <= t.Fair:
		return RatingFair
	case value <= t.Poor:
		return RatingPoor
	default:
		return RatingCritical
	}
}

// RatingForFCI classifies with the default thresholds.
func RatingForFCI(fci Ratio) Rating {
	return DefaultThresholds().Rating(fci)
}
