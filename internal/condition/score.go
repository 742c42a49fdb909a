package condition

// Label is an inspector-assigned condition label.
type Label string

const (
	LabelGood        Label = "good"
	LabelFair        Label = "fair"
	LabelPoor        Label = "poor"
	LabelCritical    Label = "critical"
	LabelNotAssessed Label = "not_assessed"
)

// NormalizeLabel maps arbitrary input to a known label. Unknown or empty
// values resolve to not_assessed; missing data is an expected state in a
// live portfolio, not an error.
func NormalizeLabel(value string) Label {
	switch Label(value) {
	case LabelGood, LabelFair, LabelPoor, LabelCritical, LabelNotAssessed:
		return Label(value)
	default:
		return LabelNotAssessed
	}
}

// ScoreTable maps condition labels to 0-100 numeric scores.
type ScoreTable struct {
	Good        float64 `yaml:"good"`
	Fair        float64 `yaml:"fair"`
	Poor        float64 `yaml:"poor"`
	Critical    float64 `yaml:"critical"`
	NotAssessed float64 `yaml:"not_assessed"`
}

// DefaultScoreTable returns the standard label-to-score mapping.
func DefaultScoreTable() ScoreTable {
	return ScoreTable{
		Good:        85,
		Fair:        65,
		Poor:        35,
		Critical:    15,
		NotAssessed: 50,
	}
}

// Score resolves a label to its numeric score. Unknown labels score the
// same as not_assessed.
func (t ScoreTable) Score(label Label) float64 {
	switch label {
	case LabelGood:
		return t.Good
	case LabelFair:
		return t.Fair
	case LabelPoor:
		return t.Poor
	case LabelCritical:
		return t.Critical
	default:
		return t.NotAssessed
	}
}

// ScoreForLabel resolves a label with the default table.
func ScoreForLabel(label Label) float64 {
	return DefaultScoreTable().Score(label)
}

// RatingForScore classifies a 0-100 condition score. The boundaries are
// not a perfect inverse of the score table and must stay as written:
// >=80 Good, >=60 Fair, >=30 Poor, else Critical.
func RatingForScore(score float64) Rating {
	switch {
	case score >= 80:
		return RatingGood
	case score >= 60:
		return RatingFair
	case score >= 30:
		return RatingPoor
	default:
		return RatingCritical
	}
}

// OrdinalMapping is one row of the legacy 1-5 ordinal condition scale.
type OrdinalMapping struct {
	Label   Label
	Percent float64
}

// legacyOrdinalTable is a fixed lookup, not a formula. Historic records
// carry a numeric conditionRating string instead of a label.
var legacyOrdinalTable = map[string]OrdinalMapping{
	"1": {Label: LabelGood, Percent: 95},
	"2": {Label: LabelGood, Percent: 80},
	"3": {Label: LabelFair, Percent: 60},
	"4": {Label: LabelPoor, Percent: 35},
	"5": {Label: LabelPoor, Percent: 15},
}

// FromOrdinal resolves a legacy ordinal rating. Unmapped values resolve
// to not_assessed with no percentage rather than failing.
func FromOrdinal(ordinal string) (Label, *float64) {
	mapping, ok := legacyOrdinalTable[ordinal]
	if !ok {
		return LabelNotAssessed, nil
	}
	percent := mapping.Percent
	return mapping.Label, &percent
}
