package auth

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrTenantMismatch indicates resource belongs to a different tenant.
	ErrTenantMismatch = errors.New("tenant mismatch")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("resource not found")
)

// AssetTenantChecker validates facility asset tenant ownership.
type AssetTenantChecker interface {
	EnsureAssetTenant(ctx context.Context, tenantID, assetID string) error
}

// AssetChecker checks asset ownership against the asset registry.
type AssetChecker struct {
	db *sql.DB
}

// NewAssetChecker constructs an AssetChecker.
func NewAssetChecker(db *sql.DB) *AssetChecker {
	if db == nil {
		return nil
	}
	return &AssetChecker{db: db}
}

// EnsureAssetTenant verifies the asset belongs to the tenant.
func (c *AssetChecker) EnsureAssetTenant(ctx context.Context, tenantID, assetID string) error {
	if c == nil || c.db == nil {
		return nil
	}
	if tenantID == "" || assetID == "" {
		return nil
	}
	var ownerTenant string
	err := c.db.QueryRowContext(ctx, `
SELECT tenant_id
FROM facility_assets
WHERE id = $1
LIMIT 1`, assetID).Scan(&ownerTenant)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if ownerTenant != tenantID {
		return ErrTenantMismatch
	}
	return nil
}
