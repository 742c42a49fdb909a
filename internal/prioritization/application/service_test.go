package application

import (
	"context"
	"errors"
	"log"
	"math"
	"testing"
	"time"

	prioritization "facilities-cloud/internal/prioritization/domain"
	"facilities-cloud/internal/prioritization/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	service    *PrioritizationService
	criteria   *memory.CriteriaRepository
	scores     *memory.ScoreRepository
	composites *memory.CompositeRepository
	projects   *memory.ProjectDirectory
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	criteria := memory.NewCriteriaRepository()
	criteria.Seed(prioritization.Criterion{ID: "condition", Name: "Facility Condition", Weight: 3, Active: true})
	criteria.Seed(prioritization.Criterion{ID: "risk", Name: "Operational Risk", Weight: 2, Active: true})
	criteria.Seed(prioritization.Criterion{ID: "retired", Name: "Retired Criterion", Weight: 5, Active: false})

	scores := memory.NewScoreRepository()
	composites := memory.NewCompositeRepository()
	projects := memory.NewProjectDirectory()
	projects.Seed("proj-1")
	projects.Seed("proj-2")

	calc, err := prioritization.NewCalculator(prioritization.DefaultScale)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	service, err := NewPrioritizationService(criteria, scores, composites, projects, calc,
		fixedClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}, log.Default())
	if err != nil {
		t.Fatalf("new prioritization service: %v", err)
	}
	return fixture{service: service, criteria: criteria, scores: scores, composites: composites, projects: projects}
}

func TestSubmitScores_ComputesAndPersistsComposite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	composite, err := f.service.SubmitScores(ctx, "proj-1", []ScoreSubmission{
		{CriterionID: "condition", Score: 8, Justification: "roof failing"},
		{CriterionID: "risk", Score: 5},
	})
	if err != nil {
		t.Fatalf("submit scores: %v", err)
	}
	// (3*8 + 2*5) / (10 * 5) * 100 = 68
	if math.Abs(composite.Value-68) > 1e-9 {
		t.Fatalf("expected composite 68, got %f", composite.Value)
	}
	if len(composite.Scores) != 2 {
		t.Fatalf("expected 2 scores in composite, got %d", len(composite.Scores))
	}

	stored, err := f.composites.Get(ctx, "proj-1")
	if err != nil {
		t.Fatalf("stored composite: %v", err)
	}
	if stored.Value != composite.Value {
		t.Fatalf("persisted value %f differs from returned %f", stored.Value, composite.Value)
	}
}

func TestSubmitScores_PartialResubmitUsesFullScoreSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.SubmitScores(ctx, "proj-1", []ScoreSubmission{
		{CriterionID: "condition", Score: 4},
		{CriterionID: "risk", Score: 4},
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// Resubmitting only one criterion must merge with the stored set,
	// not replace it.
	second, err := f.service.SubmitScores(ctx, "proj-1", []ScoreSubmission{
		{CriterionID: "condition", Score: 10},
	})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if len(second.Scores) != 2 {
		t.Fatalf("expected merged score set of 2, got %d", len(second.Scores))
	}
	if second.Value <= first.Value {
		t.Fatalf("raising one score must raise the composite: %f <= %f", second.Value, first.Value)
	}
}

func TestSubmitScores_AllMaxYieldsStrictlyHigherComposite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mid, err := f.service.SubmitScores(ctx, "proj-1", []ScoreSubmission{
		{CriterionID: "condition", Score: 6},
		{CriterionID: "risk", Score: 7},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	max, err := f.service.SubmitScores(ctx, "proj-1", []ScoreSubmission{
		{CriterionID: "condition", Score: 10},
		{CriterionID: "risk", Score: 10},
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if max.Value <= mid.Value {
		t.Fatalf("all-10 resubmission must score strictly higher: %f <= %f", max.Value, mid.Value)
	}
	if max.Value != 100 {
		t.Fatalf("all-10 scores must yield 100, got %f", max.Value)
	}
}

func TestSubmitScores_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name        string
		projectID   string
		submissions []ScoreSubmission
		expected    error
	}{
		{"empty submission", "proj-1", nil, prioritization.ErrEmptySubmission},
		{"unknown project", "proj-missing", []ScoreSubmission{{CriterionID: "condition", Score: 5}}, prioritization.ErrProjectNotFound},
		{"unknown criterion", "proj-1", []ScoreSubmission{{CriterionID: "nope", Score: 5}}, prioritization.ErrCriterionNotFound},
		{"inactive criterion", "proj-1", []ScoreSubmission{{CriterionID: "retired", Score: 5}}, prioritization.ErrCriterionInactive},
		{"score above scale", "proj-1", []ScoreSubmission{{CriterionID: "condition", Score: 11}}, prioritization.ErrInvalidScore},
		{"negative score", "proj-1", []ScoreSubmission{{CriterionID: "condition", Score: -1}}, prioritization.ErrInvalidScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.SubmitScores(ctx, tc.projectID, tc.submissions)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, err)
			}
		})
	}

	// A rejected submission must not leave partial state behind.
	if _, err := f.composites.Get(ctx, "proj-1"); !errors.Is(err, prioritization.ErrCompositeNotFound) {
		t.Fatalf("expected no composite after rejected submissions, got %v", err)
	}
}

func TestCompositeFor_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CompositeFor(context.Background(), "proj-1")
	if !errors.Is(err, prioritization.ErrCompositeNotFound) {
		t.Fatalf("expected ErrCompositeNotFound, got %v", err)
	}
}

func TestRankedProjects_AgreesWithSingleReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.service.SubmitScores(ctx, "proj-1", []ScoreSubmission{
		{CriterionID: "condition", Score: 9},
		{CriterionID: "risk", Score: 8},
	}); err != nil {
		t.Fatalf("submit proj-1: %v", err)
	}
	if _, err := f.service.SubmitScores(ctx, "proj-2", []ScoreSubmission{
		{CriterionID: "condition", Score: 3},
	}); err != nil {
		t.Fatalf("submit proj-2: %v", err)
	}

	ranked, err := f.service.RankedProjects(ctx)
	if err != nil {
		t.Fatalf("ranked projects: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked projects, got %d", len(ranked))
	}
	if ranked[0].ProjectID != "proj-1" || ranked[0].Rank != 1 {
		t.Fatalf("expected proj-1 ranked first, got %+v", ranked[0])
	}

	for _, row := range ranked {
		single, err := f.service.CompositeFor(ctx, row.ProjectID)
		if err != nil {
			t.Fatalf("composite for %s: %v", row.ProjectID, err)
		}
		if math.Abs(single.Value-row.Composite) > 0.1 {
			t.Fatalf("ranked value %f disagrees with single read %f for %s", row.Composite, single.Value, row.ProjectID)
		}
	}
}

func TestRecalculateAll_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.service.SubmitScores(ctx, "proj-1", []ScoreSubmission{
		{CriterionID: "condition", Score: 7},
	}); err != nil {
		t.Fatalf("submit proj-1: %v", err)
	}
	if _, err := f.service.SubmitScores(ctx, "proj-2", []ScoreSubmission{
		{CriterionID: "risk", Score: 2},
	}); err != nil {
		t.Fatalf("submit proj-2: %v", err)
	}

	first, err := f.service.RecalculateAll(ctx)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if first.Processed != 2 || first.Skipped != 0 {
		t.Fatalf("expected 2 processed, 0 skipped, got %+v", first)
	}

	before, _ := f.composites.List(ctx)
	second, err := f.service.RecalculateAll(ctx)
	if err != nil {
		t.Fatalf("second recalculate: %v", err)
	}
	if second != first {
		t.Fatalf("recalculate must be idempotent: %+v vs %+v", second, first)
	}
	after, _ := f.composites.List(ctx)
	for i := range before {
		if before[i].ProjectID != after[i].ProjectID || before[i].Value != after[i].Value {
			t.Fatalf("composite changed without score changes: %+v vs %+v", before[i], after[i])
		}
	}
}

func TestRecalculateAll_ReflectsWeightChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	original, err := f.service.SubmitScores(ctx, "proj-1", []ScoreSubmission{
		{CriterionID: "condition", Score: 10},
		{CriterionID: "risk", Score: 2},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Shifting weight toward the low-scored criterion must lower the
	// composite on the next recalculation.
	f.criteria.Seed(prioritization.Criterion{ID: "risk", Name: "Operational Risk", Weight: 10, Active: true})

	if _, err := f.service.RecalculateAll(ctx); err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	updated, err := f.composites.Get(ctx, "proj-1")
	if err != nil {
		t.Fatalf("composite: %v", err)
	}
	if updated.Value >= original.Value {
		t.Fatalf("expected lower composite after reweighting: %f >= %f", updated.Value, original.Value)
	}
}
