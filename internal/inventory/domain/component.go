package inventory

import (
	"strconv"
	"strings"

	"facilities-cloud/internal/condition"
)

// PriorityBucket denotes urgency of needed capital work.
type PriorityBucket string

const (
	PriorityImmediate  PriorityBucket = "immediate"
	PriorityShortTerm  PriorityBucket = "short_term"
	PriorityMediumTerm PriorityBucket = "medium_term"
	PriorityLongTerm   PriorityBucket = "long_term"
)

// CanonicalBucketOrder is the fixed output order for priority groupings.
var CanonicalBucketOrder = []PriorityBucket{
	PriorityImmediate,
	PriorityShortTerm,
	PriorityMediumTerm,
	PriorityLongTerm,
}

// NormalizePriority maps arbitrary input to a known bucket. Missing or
// unknown priorities default to long_term.
func NormalizePriority(value string) PriorityBucket {
	switch PriorityBucket(value) {
	case PriorityImmediate, PriorityShortTerm, PriorityMediumTerm, PriorityLongTerm:
		return PriorityBucket(value)
	default:
		return PriorityLongTerm
	}
}

// DefaultClassificationCode is used when a record carries no
// classification; its leading Z lands the record in the General group.
const DefaultClassificationCode = "Z"

// Component is one inspected building component after boundary
// normalization. The engine never mutates components; they are owned by
// the inspection workflow.
type Component struct {
	ID                 string
	AssetID            string
	ClassificationCode string
	Condition          condition.Label
	ConditionPercent   *float64
	RepairCost         float64
	ReplacementCost    float64
	Priority           PriorityBucket
}

// RawComponent is a component record as it arrives from upstream
// parsing, with loosely typed fields. Several fields are optional or
// carry legacy encodings.
type RawComponent struct {
	ID                 string
	AssetID            string
	ClassificationCode string
	Condition          string
	ConditionRating    string
	ConditionPercent   *float64
	RepairCost         any
	ReplacementCost    any
	Priority           string
}

// Normalize converts a raw record into a strict Component. All
// defaulting happens here, exactly once, so the core engine functions
// stay total: missing classification maps to the General group, missing
// condition to not_assessed, missing priority to long_term, and
// unparseable or negative costs to 0.
func (r RawComponent) Normalize() Component {
	component := Component{
		ID:                 r.ID,
		AssetID:            r.AssetID,
		ClassificationCode: strings.ToUpper(strings.TrimSpace(r.ClassificationCode)),
		ConditionPercent:   r.ConditionPercent,
		RepairCost:         clampCost(parseCost(r.RepairCost)),
		ReplacementCost:    clampCost(parseCost(r.ReplacementCost)),
		Priority:           NormalizePriority(r.Priority),
	}
	if component.ClassificationCode == "" {
		component.ClassificationCode = DefaultClassificationCode
	}

	switch {
	case strings.TrimSpace(r.Condition) != "":
		component.Condition = condition.NormalizeLabel(strings.TrimSpace(r.Condition))
	case strings.TrimSpace(r.ConditionRating) != "":
		label, percent := condition.FromOrdinal(strings.TrimSpace(r.ConditionRating))
		component.Condition = label
		if component.ConditionPercent == nil {
			component.ConditionPercent = percent
		}
	default:
		component.Condition = condition.LabelNotAssessed
	}

	return component
}

// NormalizeAll converts a batch of raw records.
func NormalizeAll(raw []RawComponent) []Component {
	components := make([]Component, 0, len(raw))
	for _, record := range raw {
		components = append(components, record.Normalize())
	}
	return components
}

func parseCost(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func clampCost(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}
