package forecast

import "math"

// Needs carries the four capital-need totals by urgency bucket. The
// distributor does not care whether they came from one asset or the
// whole portfolio.
type Needs struct {
	Immediate  float64
	ShortTerm  float64
	MediumTerm float64
	LongTerm   float64
}

// Total sums all four buckets.
func (n Needs) Total() float64 {
	return n.Immediate + n.ShortTerm + n.MediumTerm + n.LongTerm
}

// YearFractions is one row of the distribution schedule: the fraction
// of each bucket's total allocated to that forecast year.
type YearFractions struct {
	Immediate  float64 `yaml:"immediate"`
	ShortTerm  float64 `yaml:"short_term"`
	MediumTerm float64 `yaml:"medium_term"`
	LongTerm   float64 `yaml:"long_term"`
}

// Schedule is an ordered list of per-year fraction tuples. Horizons
// longer than the schedule reuse the last tuple (clamped index). The
// engine does not verify that a bucket's fractions sum to <=1 across
// the horizon; that is a precondition on the configured schedule.
type Schedule []YearFractions

// FractionsFor returns the tuple for a 0-indexed forecast year.
func (s Schedule) FractionsFor(index int) YearFractions {
	if len(s) == 0 {
		return YearFractions{}
	}
	if index < 0 {
		index = 0
	}
	if index >= len(s) {
		index = len(s) - 1
	}
	return s[index]
}

// DefaultSchedule returns the standard 5-year distribution: immediate
// needs land entirely in year one, short-term needs spread over years
// one to three, medium-term over years two to five, long-term over
// years four and five.
func DefaultSchedule() Schedule {
	return Schedule{
		{Immediate: 1.00, ShortTerm: 0.20, MediumTerm: 0.00, LongTerm: 0.00},
		{Immediate: 0.00, ShortTerm: 0.40, MediumTerm: 0.10, LongTerm: 0.00},
		{Immediate: 0.00, ShortTerm: 0.40, MediumTerm: 0.20, LongTerm: 0.00},
		{Immediate: 0.00, ShortTerm: 0.00, MediumTerm: 0.30, LongTerm: 0.50},
		{Immediate: 0.00, ShortTerm: 0.00, MediumTerm: 0.40, LongTerm: 0.50},
	}
}

// ForecastYear is one row of a time-phased capital forecast. All cost
// fields are rounded to whole currency units; consumers never re-round.
type ForecastYear struct {
	Year               int
	ImmediateNeeds     float64
	ShortTermNeeds     float64
	MediumTermNeeds    float64
	LongTermNeeds      float64
	TotalProjectedCost float64
	CumulativeCost     float64
}

// Distribute spreads the need totals across the forecast horizon per
// the schedule. Each field is rounded half up independently, so small
// year-over-year rounding drift against the rounded total is expected.
// The function is pure: identical inputs yield identical output.
func Distribute(needs Needs, startYear, horizon int, schedule Schedule) []ForecastYear {
	if horizon <= 0 {
		return nil
	}

	years := make([]ForecastYear, 0, horizon)
	var cumulative float64
	for i := 0; i < horizon; i++ {
		fractions := schedule.FractionsFor(i)

		immediate := needs.Immediate * fractions.Immediate
		shortTerm := needs.ShortTerm * fractions.ShortTerm
		mediumTerm := needs.MediumTerm * fractions.MediumTerm
		longTerm := needs.LongTerm * fractions.LongTerm
		yearTotal := immediate + shortTerm + mediumTerm + longTerm
		cumulative += yearTotal

		years = append(years, ForecastYear{
			Year:               startYear + i,
			ImmediateNeeds:     roundHalfUp(immediate),
			ShortTermNeeds:     roundHalfUp(shortTerm),
			MediumTermNeeds:    roundHalfUp(mediumTerm),
			LongTermNeeds:      roundHalfUp(longTerm),
			TotalProjectedCost: roundHalfUp(yearTotal),
			CumulativeCost:     roundHalfUp(cumulative),
		})
	}
	return years
}

func roundHalfUp(value float64) float64 {
	return math.Floor(value + 0.5)
}
