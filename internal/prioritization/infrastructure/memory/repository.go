package memory

import (
	"context"
	"sort"
	"sync"

	prioritization "facilities-cloud/internal/prioritization/domain"
)

// CriteriaRepository is an in-memory criteria store for demo/testing.
type CriteriaRepository struct {
	mu       sync.RWMutex
	criteria map[string]prioritization.Criterion
}

// NewCriteriaRepository constructs an empty criteria repository.
func NewCriteriaRepository() *CriteriaRepository {
	return &CriteriaRepository{criteria: make(map[string]prioritization.Criterion)}
}

// Seed registers a criterion.
func (r *CriteriaRepository) Seed(criterion prioritization.Criterion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.criteria[criterion.ID] = criterion
}

// ListActive returns all active criteria ordered by id.
func (r *CriteriaRepository) ListActive(ctx context.Context) ([]prioritization.Criterion, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]prioritization.Criterion, 0, len(r.criteria))
	for _, criterion := range r.criteria {
		if criterion.Active {
			result = append(result, criterion)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Get loads a criterion by id.
func (r *CriteriaRepository) Get(ctx context.Context, criterionID string) (prioritization.Criterion, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	criterion, ok := r.criteria[criterionID]
	if !ok {
		return prioritization.Criterion{}, prioritization.ErrCriterionNotFound
	}
	return criterion, nil
}

// ScoreRepository is an in-memory raw score store for demo/testing.
type ScoreRepository struct {
	mu     sync.RWMutex
	scores map[string]map[string]prioritization.CriteriaScore
}

// NewScoreRepository constructs an empty score repository.
func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{scores: make(map[string]map[string]prioritization.CriteriaScore)}
}

// UpsertScores writes the given scores and returns the project's full
// refreshed score set.
func (r *ScoreRepository) UpsertScores(ctx context.Context, projectID string, scores []prioritization.CriteriaScore) ([]prioritization.CriteriaScore, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	byCriterion := r.scores[projectID]
	if byCriterion == nil {
		byCriterion = make(map[string]prioritization.CriteriaScore)
		r.scores[projectID] = byCriterion
	}
	for _, score := range scores {
		score.ProjectID = projectID
		byCriterion[score.CriterionID] = score
	}
	return r.listByProjectLocked(projectID), nil
}

// ListByProject returns all stored scores for one project.
func (r *ScoreRepository) ListByProject(ctx context.Context, projectID string) ([]prioritization.CriteriaScore, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listByProjectLocked(projectID), nil
}

func (r *ScoreRepository) listByProjectLocked(projectID string) []prioritization.CriteriaScore {
	byCriterion := r.scores[projectID]
	result := make([]prioritization.CriteriaScore, 0, len(byCriterion))
	for _, score := range byCriterion {
		result = append(result, score)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CriterionID < result[j].CriterionID })
	return result
}

// ListProjectIDs returns the distinct project ids with stored scores.
func (r *ScoreRepository) ListProjectIDs(ctx context.Context) ([]string, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.scores))
	for projectID := range r.scores {
		ids = append(ids, projectID)
	}
	sort.Strings(ids)
	return ids, nil
}

// CompositeRepository is an in-memory composite store for demo/testing.
type CompositeRepository struct {
	mu         sync.RWMutex
	composites map[string]prioritization.CompositeScore
}

// NewCompositeRepository constructs an empty composite repository.
func NewCompositeRepository() *CompositeRepository {
	return &CompositeRepository{composites: make(map[string]prioritization.CompositeScore)}
}

// Save stores or replaces a composite.
func (r *CompositeRepository) Save(ctx context.Context, composite prioritization.CompositeScore) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.composites[composite.ProjectID] = composite
	return nil
}

// Get loads the composite for one project.
func (r *CompositeRepository) Get(ctx context.Context, projectID string) (prioritization.CompositeScore, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	composite, ok := r.composites[projectID]
	if !ok {
		return prioritization.CompositeScore{}, prioritization.ErrCompositeNotFound
	}
	return composite, nil
}

// List returns all stored composites ordered by project id.
func (r *CompositeRepository) List(ctx context.Context) ([]prioritization.CompositeScore, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]prioritization.CompositeScore, 0, len(r.composites))
	for _, composite := range r.composites {
		result = append(result, composite)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProjectID < result[j].ProjectID })
	return result, nil
}

// ProjectDirectory is an in-memory project registry for demo/testing.
type ProjectDirectory struct {
	mu       sync.RWMutex
	projects map[string]struct{}
}

// NewProjectDirectory constructs an empty directory.
func NewProjectDirectory() *ProjectDirectory {
	return &ProjectDirectory{projects: make(map[string]struct{})}
}

// Seed registers a capital project id.
func (d *ProjectDirectory) Seed(projectID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.projects[projectID] = struct{}{}
}

// Exists reports whether a project id is registered.
func (d *ProjectDirectory) Exists(ctx context.Context, projectID string) (bool, error) {
	_ = ctx
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.projects[projectID]
	return ok, nil
}
