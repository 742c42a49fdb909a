package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	inventory "facilities-cloud/internal/inventory/domain"
)

const defaultComponentTable = "facility_components"

// ComponentRepository reads inspected component records. The engine is
// a read-side consumer; writes belong to the inspection workflow.
type ComponentRepository struct {
	db       *sql.DB
	table    string
	tenantID string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*ComponentRepository)

// WithTable overrides the default table name.
func WithTable(table string) RepositoryOption {
	return func(repo *ComponentRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// WithTenantID scopes all reads to a tenant.
func WithTenantID(tenantID string) RepositoryOption {
	return func(repo *ComponentRepository) {
		if tenantID != "" {
			repo.tenantID = tenantID
		}
	}
}

// NewComponentRepository creates a component repository.
func NewComponentRepository(db *sql.DB, opts ...RepositoryOption) *ComponentRepository {
	repo := &ComponentRepository{db: db, table: defaultComponentTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// ListByAsset returns all normalized components for one asset.
func (r *ComponentRepository) ListByAsset(ctx context.Context, assetID string) ([]inventory.Component, error) {
	if assetID == "" {
		return nil, errors.New("component repo: empty asset id")
	}
	query := fmt.Sprintf(`
SELECT
	id,
	asset_id,
	classification_code,
	condition_label,
	condition_rating,
	condition_percent,
	repair_cost,
	replacement_cost,
	priority
FROM %s
WHERE tenant_id = $1
	AND asset_id = $2
ORDER BY id ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query, r.tenantID, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComponents(rows)
}

// ListAll returns all normalized components across the portfolio.
func (r *ComponentRepository) ListAll(ctx context.Context) ([]inventory.Component, error) {
	query := fmt.Sprintf(`
SELECT
	id,
	asset_id,
	classification_code,
	condition_label,
	condition_rating,
	condition_percent,
	repair_cost,
	replacement_cost,
	priority
FROM %s
WHERE tenant_id = $1
ORDER BY asset_id ASC, id ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query, r.tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComponents(rows)
}

func collectComponents(rows *sql.Rows) ([]inventory.Component, error) {
	var components []inventory.Component
	for rows.Next() {
		var (
			raw              inventory.RawComponent
			conditionLabel   sql.NullString
			conditionRating  sql.NullString
			conditionPercent sql.NullFloat64
			repairCost       sql.NullFloat64
			replacementCost  sql.NullFloat64
			priority         sql.NullString
		)
		if err := rows.Scan(
			&raw.ID,
			&raw.AssetID,
			&raw.ClassificationCode,
			&conditionLabel,
			&conditionRating,
			&conditionPercent,
			&repairCost,
			&replacementCost,
			&priority,
		); err != nil {
			return nil, err
		}
		raw.Condition = conditionLabel.String
		raw.ConditionRating = conditionRating.String
		if conditionPercent.Valid {
			value := conditionPercent.Float64
			raw.ConditionPercent = &value
		}
		if repairCost.Valid {
			raw.RepairCost = repairCost.Float64
		}
		if replacementCost.Valid {
			raw.ReplacementCost = replacementCost.Float64
		}
		raw.Priority = priority.String

		components = append(components, raw.Normalize())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return components, nil
}
