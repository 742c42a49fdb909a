package prioritization

import "errors"

// DefaultScale is the raw score range criteria are judged on.
const DefaultScale = 10

// Calculator computes composite scores as a weighted average of raw
// criteria scores normalized to 0-100:
//
//	composite = 100 * sum(weight_i * score_i) / (scale * sum(weight_i))
//
// over the project's scores on active criteria. The formula is
// monotonically increasing in every raw score and bounded to [0,100].
// The exact coefficients (the weights, the scale) are configuration.
type Calculator struct {
	scale float64
}

// NewCalculator constructs a Calculator for a raw score scale.
func NewCalculator(scale float64) (Calculator, error) {
	if scale <= 0 {
		return Calculator{}, errors.New("prioritization: scale must be positive")
	}
	return Calculator{scale: scale}, nil
}

// Scale returns the raw score range.
func (c Calculator) Scale() float64 { return c.scale }

// ValidateScore checks a raw score against the scale.
func (c Calculator) ValidateScore(score float64) error {
	if score < 0 || score > c.scale {
		return ErrInvalidScore
	}
	return nil
}

// Compute derives the composite value from the current score set. The
// boolean is false when no score targets an active criterion, which
// means the project has no composite (absent, not zero). Scores whose
// criterion is unknown or inactive are ignored; weights <= 0 fall back
// to weight 1 so a misconfigured criterion cannot erase a score.
func (c Calculator) Compute(criteria map[string]Criterion, scores []CriteriaScore) (float64, bool) {
	var weightedSum, weightTotal float64
	contributing := 0

	for _, score := range scores {
		criterion, ok := criteria[score.CriterionID]
		if !ok || !criterion.Active {
			continue
		}
		weight := criterion.Weight
		if weight <= 0 {
			weight = 1
		}
		raw := score.Score
		if raw < 0 {
			raw = 0
		}
		if raw > c.scale {
			raw = c.scale
		}
		weightedSum += weight * raw
		weightTotal += weight
		contributing++
	}

	if contributing == 0 || weightTotal == 0 {
		return 0, false
	}

	composite := 100 * weightedSum / (c.scale * weightTotal)
	if composite < 0 {
		composite = 0
	}
	if composite > 100 {
		composite = 100
	}
	return composite, true
}
