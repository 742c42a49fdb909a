package postgres

import (
	"context"
	"database/sql"
	"errors"

	prioritization "facilities-cloud/internal/prioritization/domain"
)

// CriteriaRepository reads evaluation criteria from Postgres.
type CriteriaRepository struct {
	db *sql.DB
}

// NewCriteriaRepository constructs a repository.
func NewCriteriaRepository(db *sql.DB) *CriteriaRepository {
	return &CriteriaRepository{db: db}
}

// ListActive returns all active criteria ordered by id.
func (r *CriteriaRepository) ListActive(ctx context.Context) ([]prioritization.Criterion, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("criteria repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, weight, active
FROM capital_criteria
WHERE active = TRUE
ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []prioritization.Criterion
	for rows.Next() {
		var criterion prioritization.Criterion
		if err := rows.Scan(&criterion.ID, &criterion.Name, &criterion.Weight, &criterion.Active); err != nil {
			return nil, err
		}
		result = append(result, criterion)
	}
	return result, rows.Err()
}

// Get loads a criterion by id.
func (r *CriteriaRepository) Get(ctx context.Context, criterionID string) (prioritization.Criterion, error) {
	if r == nil || r.db == nil {
		return prioritization.Criterion{}, errors.New("criteria repo: nil db")
	}
	var criterion prioritization.Criterion
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, weight, active
FROM capital_criteria
WHERE id = $1
LIMIT 1`, criterionID).Scan(&criterion.ID, &criterion.Name, &criterion.Weight, &criterion.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return prioritization.Criterion{}, prioritization.ErrCriterionNotFound
	}
	if err != nil {
		return prioritization.Criterion{}, err
	}
	return criterion, nil
}

// ScoreRepository persists raw criteria scores in Postgres.
type ScoreRepository struct {
	db *sql.DB
}

// NewScoreRepository constructs a repository.
func NewScoreRepository(db *sql.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// UpsertScores writes the given scores and reads the project's full
// refreshed score set inside the same transaction, so the caller
// recomputes from exactly what was persisted.
func (r *ScoreRepository) UpsertScores(ctx context.Context, projectID string, scores []prioritization.CriteriaScore) ([]prioritization.CriteriaScore, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("score repo: nil db")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, score := range scores {
		_, err := tx.ExecContext(ctx, `
INSERT INTO project_criteria_scores (project_id, criterion_id, score, justification, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (project_id, criterion_id) DO UPDATE SET
	score = EXCLUDED.score,
	justification = EXCLUDED.justification,
	updated_at = EXCLUDED.updated_at`,
			projectID, score.CriterionID, score.Score, score.Justification, score.UpdatedAt)
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}

	refreshed, err := listByProject(ctx, tx, projectID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return refreshed, nil
}

// ListByProject returns all stored scores for one project.
func (r *ScoreRepository) ListByProject(ctx context.Context, projectID string) ([]prioritization.CriteriaScore, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("score repo: nil db")
	}
	return listByProject(ctx, r.db, projectID)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listByProject(ctx context.Context, q querier, projectID string) ([]prioritization.CriteriaScore, error) {
	rows, err := q.QueryContext(ctx, `
SELECT project_id, criterion_id, score, justification, updated_at
FROM project_criteria_scores
WHERE project_id = $1
ORDER BY criterion_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []prioritization.CriteriaScore
	for rows.Next() {
		var score prioritization.CriteriaScore
		var justification sql.NullString
		if err := rows.Scan(&score.ProjectID, &score.CriterionID, &score.Score, &justification, &score.UpdatedAt); err != nil {
			return nil, err
		}
		score.Justification = justification.String
		result = append(result, score)
	}
	return result, rows.Err()
}

// ListProjectIDs returns distinct project ids with stored scores.
func (r *ScoreRepository) ListProjectIDs(ctx context.Context) ([]string, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("score repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT project_id
FROM project_criteria_scores
ORDER BY project_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CompositeRepository persists derived composite scores in Postgres.
// Only the derived value is stored; the raw inputs live in the score
// repository.
type CompositeRepository struct {
	db *sql.DB
}

// NewCompositeRepository constructs a repository.
func NewCompositeRepository(db *sql.DB) *CompositeRepository {
	return &CompositeRepository{db: db}
}

// Save stores or replaces the composite for its project.
func (r *CompositeRepository) Save(ctx context.Context, composite prioritization.CompositeScore) error {
	if r == nil || r.db == nil {
		return errors.New("composite repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO project_composite_scores (project_id, value, computed_at)
VALUES ($1, $2, $3)
ON CONFLICT (project_id) DO UPDATE SET
	value = EXCLUDED.value,
	computed_at = EXCLUDED.computed_at`,
		composite.ProjectID, composite.Value, composite.ComputedAt)
	return err
}

// Get loads the composite for one project.
func (r *CompositeRepository) Get(ctx context.Context, projectID string) (prioritization.CompositeScore, error) {
	if r == nil || r.db == nil {
		return prioritization.CompositeScore{}, errors.New("composite repo: nil db")
	}
	var composite prioritization.CompositeScore
	err := r.db.QueryRowContext(ctx, `
SELECT project_id, value, computed_at
FROM project_composite_scores
WHERE project_id = $1
LIMIT 1`, projectID).Scan(&composite.ProjectID, &composite.Value, &composite.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return prioritization.CompositeScore{}, prioritization.ErrCompositeNotFound
	}
	if err != nil {
		return prioritization.CompositeScore{}, err
	}
	return composite, nil
}

// List returns all stored composites ordered by project id.
func (r *CompositeRepository) List(ctx context.Context) ([]prioritization.CompositeScore, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("composite repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT project_id, value, computed_at
FROM project_composite_scores
ORDER BY project_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []prioritization.CompositeScore
	for rows.Next() {
		var composite prioritization.CompositeScore
		if err := rows.Scan(&composite.ProjectID, &composite.Value, &composite.ComputedAt); err != nil {
			return nil, err
		}
		result = append(result, composite)
	}
	return result, rows.Err()
}

// ProjectDirectory checks capital project existence in Postgres.
type ProjectDirectory struct {
	db *sql.DB
}

// NewProjectDirectory constructs a directory.
func NewProjectDirectory(db *sql.DB) *ProjectDirectory {
	return &ProjectDirectory{db: db}
}

// Exists reports whether a project id is present.
func (d *ProjectDirectory) Exists(ctx context.Context, projectID string) (bool, error) {
	if d == nil || d.db == nil {
		return false, errors.New("project directory: nil db")
	}
	var one int
	err := d.db.QueryRowContext(ctx, `
SELECT 1
FROM capital_projects
WHERE id = $1
LIMIT 1`, projectID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
