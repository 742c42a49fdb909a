package prioritization

import "context"

// CriteriaRepository reads the configured evaluation criteria.
type CriteriaRepository interface {
	// ListActive returns all active criteria.
	ListActive(ctx context.Context) ([]Criterion, error)
	// Get returns one criterion by id, active or not. Returns
	// ErrCriterionNotFound when no such criterion exists.
	Get(ctx context.Context, criterionID string) (Criterion, error)
}

// ScoreRepository persists raw criteria scores.
type ScoreRepository interface {
	// UpsertScores writes the given scores atomically and returns the
	// project's full refreshed score set read in the same transaction.
	UpsertScores(ctx context.Context, projectID string, scores []CriteriaScore) ([]CriteriaScore, error)
	// ListByProject returns all stored scores for one project.
	ListByProject(ctx context.Context, projectID string) ([]CriteriaScore, error)
	// ListProjectIDs returns the distinct project ids that have at
	// least one stored score.
	ListProjectIDs(ctx context.Context) ([]string, error)
}

// CompositeRepository persists derived composite scores.
type CompositeRepository interface {
	// Save stores or replaces the composite for its project.
	Save(ctx context.Context, composite CompositeScore) error
	// Get returns the composite for one project. Returns
	// ErrCompositeNotFound when the project has none.
	Get(ctx context.Context, projectID string) (CompositeScore, error)
	// List returns all stored composites.
	List(ctx context.Context) ([]CompositeScore, error)
}

// ProjectDirectory answers whether a capital project exists.
type ProjectDirectory interface {
	Exists(ctx context.Context, projectID string) (bool, error)
}
