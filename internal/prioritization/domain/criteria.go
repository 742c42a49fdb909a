package prioritization

import (
	"sort"
	"time"
)

// Criterion is one weighted axis of project evaluation. Criteria are
// owned by configuration and read-only to the engine.
type Criterion struct {
	ID     string
	Name   string
	Weight float64
	Active bool
}

// CriteriaScore is a reviewer's raw score for one project against one
// criterion, on the 0-scale raw range (default 0-10).
type CriteriaScore struct {
	ProjectID     string
	CriterionID   string
	Score         float64
	Justification string
	UpdatedAt     time.Time
}

// CompositeScore is the derived 0-100 priority figure for one project.
// A project with no criteria scores has no composite at all, never a
// zero one.
type CompositeScore struct {
	ProjectID  string
	Value      float64
	Scores     []CriteriaScore
	ComputedAt time.Time
}

// RankedProject is one row of the ranked project list.
type RankedProject struct {
	ProjectID string
	Composite float64
	Rank      int
}

// RankProjects orders composites by value descending with a stable,
// deterministic tie-break on project id ascending, and assigns 1-based
// ranks.
func RankProjects(composites []CompositeScore) []RankedProject {
	ordered := make([]CompositeScore, len(composites))
	copy(ordered, composites)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Value != ordered[j].Value {
			return ordered[i].Value > ordered[j].Value
		}
		return ordered[i].ProjectID < ordered[j].ProjectID
	})

	ranked := make([]RankedProject, len(ordered))
	for i, composite := range ordered {
		ranked[i] = RankedProject{
			ProjectID: composite.ProjectID,
			Composite: composite.Value,
			Rank:      i + 1,
		}
	}
	return ranked
}
