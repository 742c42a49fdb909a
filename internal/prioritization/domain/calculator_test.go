package prioritization

import "testing"

func testCriteria() map[string]Criterion {
	return map[string]Criterion{
		"condition": {ID: "condition", Name: "Facility Condition", Weight: 3, Active: true},
		"risk":      {ID: "risk", Name: "Operational Risk", Weight: 2, Active: true},
		"mission":   {ID: "mission", Name: "Mission Alignment", Weight: 1, Active: true},
		"retired":   {ID: "retired", Name: "Retired Criterion", Weight: 5, Active: false},
	}
}

func TestCalculator_Compute(t *testing.T) {
	calc, err := NewCalculator(10)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}

	scores := []CriteriaScore{
		{CriterionID: "condition", Score: 8},
		{CriterionID: "risk", Score: 5},
		{CriterionID: "mission", Score: 10},
	}
	value, ok := calc.Compute(testCriteria(), scores)
	if !ok {
		t.Fatal("expected composite to be present")
	}
	// (3*8 + 2*5 + 1*10) / (10 * 6) * 100 = 44/60*100
	expected := 100.0 * 44.0 / 60.0
	if diff := value - expected; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected %f, got %f", expected, value)
	}
}

func TestCalculator_NoScoresMeansAbsent(t *testing.T) {
	calc, _ := NewCalculator(10)

	if _, ok := calc.Compute(testCriteria(), nil); ok {
		t.Fatal("expected absent composite for empty scores")
	}
	// Scores only against inactive or unknown criteria also yield no composite.
	scores := []CriteriaScore{
		{CriterionID: "retired", Score: 10},
		{CriterionID: "unknown", Score: 10},
	}
	if _, ok := calc.Compute(testCriteria(), scores); ok {
		t.Fatal("expected absent composite when no active criterion is scored")
	}
}

func TestCalculator_MonotonicInEachScore(t *testing.T) {
	calc, _ := NewCalculator(10)
	criteria := testCriteria()

	base := []CriteriaScore{
		{CriterionID: "condition", Score: 4},
		{CriterionID: "risk", Score: 4},
	}
	baseValue, ok := calc.Compute(criteria, base)
	if !ok {
		t.Fatal("expected composite")
	}

	for i := range base {
		raised := make([]CriteriaScore, len(base))
		copy(raised, base)
		raised[i].Score++
		raisedValue, ok := calc.Compute(criteria, raised)
		if !ok {
			t.Fatal("expected composite")
		}
		if raisedValue <= baseValue {
			t.Fatalf("raising %s must raise the composite: %f <= %f", base[i].CriterionID, raisedValue, baseValue)
		}
	}
}

func TestCalculator_Bounds(t *testing.T) {
	calc, _ := NewCalculator(10)
	criteria := testCriteria()

	allMax := []CriteriaScore{
		{CriterionID: "condition", Score: 10},
		{CriterionID: "risk", Score: 10},
		{CriterionID: "mission", Score: 10},
	}
	value, _ := calc.Compute(criteria, allMax)
	if value != 100 {
		t.Fatalf("all-max scores must yield 100, got %f", value)
	}

	allMin := []CriteriaScore{{CriterionID: "condition", Score: 0}}
	value, _ = calc.Compute(criteria, allMin)
	if value != 0 {
		t.Fatalf("all-zero scores must yield 0, got %f", value)
	}
}

func TestCalculator_ValidateScore(t *testing.T) {
	calc, _ := NewCalculator(10)
	if err := calc.ValidateScore(0); err != nil {
		t.Fatalf("0 must be valid: %v", err)
	}
	if err := calc.ValidateScore(10); err != nil {
		t.Fatalf("10 must be valid: %v", err)
	}
	if err := calc.ValidateScore(-1); err != ErrInvalidScore {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
	if err := calc.ValidateScore(10.5); err != ErrInvalidScore {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
}

func TestNewCalculator_RejectsNonPositiveScale(t *testing.T) {
	if _, err := NewCalculator(0); err == nil {
		t.Fatal("expected error for zero scale")
	}
	if _, err := NewCalculator(-5); err == nil {
		t.Fatal("expected error for negative scale")
	}
}

func TestRankProjects(t *testing.T) {
	composites := []CompositeScore{
		{ProjectID: "proj-c", Value: 70},
		{ProjectID: "proj-a", Value: 90},
		{ProjectID: "proj-d", Value: 70},
		{ProjectID: "proj-b", Value: 85},
	}

	ranked := RankProjects(composites)
	expected := []RankedProject{
		{ProjectID: "proj-a", Composite: 90, Rank: 1},
		{ProjectID: "proj-b", Composite: 85, Rank: 2},
		{ProjectID: "proj-c", Composite: 70, Rank: 3},
		{ProjectID: "proj-d", Composite: 70, Rank: 4},
	}
	if len(ranked) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(ranked))
	}
	for i, row := range expected {
		if ranked[i] != row {
			t.Fatalf("row %d: expected %+v, got %+v", i, row, ranked[i])
		}
	}
}

func TestRankProjects_DoesNotMutateInput(t *testing.T) {
	composites := []CompositeScore{
		{ProjectID: "proj-b", Value: 50},
		{ProjectID: "proj-a", Value: 90},
	}
	_ = RankProjects(composites)
	if composites[0].ProjectID != "proj-b" {
		t.Fatal("input slice must not be reordered")
	}
}
