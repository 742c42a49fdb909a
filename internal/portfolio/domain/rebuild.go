package portfolio

import (
	"math"

	inventory "facilities-cloud/internal/inventory/domain"
)

// ClassificationGroup summarizes all components under one major system
// group (the leading character of the classification code).
type ClassificationGroup struct {
	Code              string
	Name              string
	Count             int
	RepairCost        float64
	ReplacementCost   float64
	ConditionPercents []float64
}

// AverageConditionPercent averages the recorded condition percentages,
// or returns nil when no component in the group carries one.
func (g ClassificationGroup) AverageConditionPercent() *float64 {
	if len(g.ConditionPercents) == 0 {
		return nil
	}
	var sum float64
	for _, percent := range g.ConditionPercents {
		sum += percent
	}
	average := sum / float64(len(g.ConditionPercents))
	return &average
}

// PriorityGroup summarizes the capital need in one urgency bucket.
type PriorityGroup struct {
	Bucket            inventory.PriorityBucket
	Count             int
	TotalCost         float64
	PercentageOfTotal int
}

// majorGroupNames maps UNIFORMAT-style leading characters to major
// system group names. Z is the catch-all for unclassified records.
var majorGroupNames = map[string]string{
	"A": "Substructure",
	"B": "Shell",
	"C": "Interiors",
	"D": "Services",
	"E": "Equipment & Furnishings",
	"F": "Special Construction",
	"G": "Building Sitework",
	"Z": "General",
}

// MajorGroupName resolves the display name for a group code.
func MajorGroupName(code string) string {
	if name, ok := majorGroupNames[code]; ok {
		return name
	}
	return "Other"
}

// RebuildClassificationGroups groups components by the first character
// of their classification code. Groups appear in first-encounter order.
// The rebuild is a pure function of its input: identical inputs yield
// identical output.
func RebuildClassificationGroups(components []inventory.Component) []ClassificationGroup {
	index := make(map[string]int)
	var groups []ClassificationGroup

	for _, component := range components {
		code := inventory.DefaultClassificationCode
		if component.ClassificationCode != "" {
			code = component.ClassificationCode[:1]
		}

		position, seen := index[code]
		if !seen {
			position = len(groups)
			index[code] = position
			groups = append(groups, ClassificationGroup{Code: code, Name: MajorGroupName(code)})
		}

		group := &groups[position]
		group.Count++
		group.RepairCost += component.RepairCost
		group.ReplacementCost += component.ReplacementCost
		if component.ConditionPercent != nil {
			group.ConditionPercents = append(group.ConditionPercents, *component.ConditionPercent)
		}
	}
	return groups
}

// RebuildPriorityGroups groups components by priority bucket. Output
// follows the canonical bucket order, buckets with no records are
// omitted, and PercentageOfTotal is rounded half up (0 everywhere when
// the grand total is 0).
func RebuildPriorityGroups(components []inventory.Component) []PriorityGroup {
	byBucket := make(map[inventory.PriorityBucket]*PriorityGroup, len(inventory.CanonicalBucketOrder))
	var grandTotal float64

	for _, component := range components {
		bucket := component.Priority
		group, ok := byBucket[bucket]
		if !ok {
			group = &PriorityGroup{Bucket: bucket}
			byBucket[bucket] = group
		}
		group.Count++
		group.TotalCost += component.RepairCost
		grandTotal += component.RepairCost
	}

	var groups []PriorityGroup
	for _, bucket := range inventory.CanonicalBucketOrder {
		group, ok := byBucket[bucket]
		if !ok {
			continue
		}
		if grandTotal > 0 {
			group.PercentageOfTotal = int(roundHalfUp(group.TotalCost / grandTotal * 100))
		}
		groups = append(groups, *group)
	}
	return groups
}

// TotalCosts sums repair and replacement costs across all components.
func TotalCosts(components []inventory.Component) (repair, replacement float64) {
	for _, component := range components {
		repair += component.RepairCost
		replacement += component.ReplacementCost
	}
	return repair, replacement
}

func roundHalfUp(value float64) float64 {
	return math.Floor(value + 0.5)
}
