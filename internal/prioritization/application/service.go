package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	prioritization "facilities-cloud/internal/prioritization/domain"
)

const defaultRecalculateWorkers = 4

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// SystemClock uses the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// ScoreSubmission is one reviewer input for a single criterion.
type ScoreSubmission struct {
	CriterionID   string
	Score         float64
	Justification string
}

// RecalculateResult summarizes a full recomputation run.
type RecalculateResult struct {
	Processed int
	Skipped   int
}

// PrioritizationService manages criteria scoring and composite
// computation for capital projects.
type PrioritizationService struct {
	criteria   prioritization.CriteriaRepository
	scores     prioritization.ScoreRepository
	composites prioritization.CompositeRepository
	projects   prioritization.ProjectDirectory
	calculator prioritization.Calculator
	clock      Clock
	logger     *log.Logger
	workers    int
}

// NewPrioritizationService constructs a service.
func NewPrioritizationService(
	criteria prioritization.CriteriaRepository,
	scores prioritization.ScoreRepository,
	composites prioritization.CompositeRepository,
	projects prioritization.ProjectDirectory,
	calculator prioritization.Calculator,
	clock Clock,
	logger *log.Logger,
) (*PrioritizationService, error) {
	if criteria == nil {
		return nil, errors.New("prioritization service: nil criteria repository")
	}
	if scores == nil {
		return nil, errors.New("prioritization service: nil score repository")
	}
	if composites == nil {
		return nil, errors.New("prioritization service: nil composite repository")
	}
	if projects == nil {
		return nil, errors.New("prioritization service: nil project directory")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PrioritizationService{
		criteria:   criteria,
		scores:     scores,
		composites: composites,
		projects:   projects,
		calculator: calculator,
		clock:      clock,
		logger:     logger,
		workers:    defaultRecalculateWorkers,
	}, nil
}

// SubmitScores validates and persists a reviewer's scores for one
// project, then recomputes and persists the project's composite in the
// same call. The returned composite reflects the full persisted score
// set, not just the submitted subset.
func (s *PrioritizationService) SubmitScores(ctx context.Context, projectID string, submissions []ScoreSubmission) (prioritization.CompositeScore, error) {
	if projectID == "" {
		return prioritization.CompositeScore{}, prioritization.ErrProjectNotFound
	}
	if len(submissions) == 0 {
		return prioritization.CompositeScore{}, prioritization.ErrEmptySubmission
	}

	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return prioritization.CompositeScore{}, err
	}
	if !exists {
		return prioritization.CompositeScore{}, prioritization.ErrProjectNotFound
	}

	now := s.clock.Now().UTC()
	toStore := make([]prioritization.CriteriaScore, 0, len(submissions))
	for _, submission := range submissions {
		criterion, err := s.criteria.Get(ctx, submission.CriterionID)
		if err != nil {
			return prioritization.CompositeScore{}, err
		}
		if !criterion.Active {
			return prioritization.CompositeScore{}, prioritization.ErrCriterionInactive
		}
		if err := s.calculator.ValidateScore(submission.Score); err != nil {
			return prioritization.CompositeScore{}, err
		}
		toStore = append(toStore, prioritization.CriteriaScore{
			ProjectID:     projectID,
			CriterionID:   submission.CriterionID,
			Score:         submission.Score,
			Justification: submission.Justification,
			UpdatedAt:     now,
		})
	}

	refreshed, err := s.scores.UpsertScores(ctx, projectID, toStore)
	if err != nil {
		return prioritization.CompositeScore{}, err
	}

	return s.recompute(ctx, projectID, refreshed, now)
}

// CompositeFor returns the persisted composite for one project,
// together with the raw scores it was derived from.
func (s *PrioritizationService) CompositeFor(ctx context.Context, projectID string) (prioritization.CompositeScore, error) {
	if projectID == "" {
		return prioritization.CompositeScore{}, prioritization.ErrProjectNotFound
	}
	composite, err := s.composites.Get(ctx, projectID)
	if err != nil {
		return prioritization.CompositeScore{}, err
	}
	scores, err := s.scores.ListByProject(ctx, projectID)
	if err != nil {
		return prioritization.CompositeScore{}, err
	}
	composite.Scores = scores
	return composite, nil
}

// RankedProjects returns all scored projects ordered by composite
// value descending with 1-based ranks.
func (s *PrioritizationService) RankedProjects(ctx context.Context) ([]prioritization.RankedProject, error) {
	composites, err := s.composites.List(ctx)
	if err != nil {
		return nil, err
	}
	return prioritization.RankProjects(composites), nil
}

// RecalculateAll recomputes every scored project's composite from its
// stored raw scores, typically after criteria weights change. Projects
// that fail to recompute are skipped and counted; one bad project does
// not abort the run. Running it twice without score changes yields the
// same composites.
func (s *PrioritizationService) RecalculateAll(ctx context.Context) (RecalculateResult, error) {
	projectIDs, err := s.scores.ListProjectIDs(ctx)
	if err != nil {
		return RecalculateResult{}, err
	}

	now := s.clock.Now().UTC()
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	result := RecalculateResult{}

	for _, projectID := range projectIDs {
		wg.Add(1)
		go func(projectID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			scores, err := s.scores.ListByProject(ctx, projectID)
			if err == nil {
				_, err = s.recompute(ctx, projectID, scores, now)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Printf("recalculate: skipping project %s: %v", projectID, err)
				result.Skipped++
				return
			}
			result.Processed++
		}(projectID)
	}
	wg.Wait()

	return result, nil
}

// recompute derives and persists the composite from a full score set.
func (s *PrioritizationService) recompute(ctx context.Context, projectID string, scores []prioritization.CriteriaScore, now time.Time) (prioritization.CompositeScore, error) {
	active, err := s.criteria.ListActive(ctx)
	if err != nil {
		return prioritization.CompositeScore{}, err
	}
	byID := make(map[string]prioritization.Criterion, len(active))
	for _, criterion := range active {
		byID[criterion.ID] = criterion
	}

	value, ok := s.calculator.Compute(byID, scores)
	if !ok {
		return prioritization.CompositeScore{}, prioritization.ErrCompositeNotFound
	}

	composite := prioritization.CompositeScore{
		ProjectID:  projectID,
		Value:      value,
		Scores:     scores,
		ComputedAt: now,
	}
	if err := s.composites.Save(ctx, composite); err != nil {
		return prioritization.CompositeScore{}, err
	}
	return composite, nil
}
