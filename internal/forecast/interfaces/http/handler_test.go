package http

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"facilities-cloud/internal/auth"
	"facilities-cloud/internal/forecast/application"
	forecast "facilities-cloud/internal/forecast/domain"
	inventory "facilities-cloud/internal/inventory/domain"
)

type stubComponentSource struct {
	portfolio []inventory.Component
	byAsset   map[string][]inventory.Component
}

func (s stubComponentSource) ListAll(_ context.Context) ([]inventory.Component, error) {
	return s.portfolio, nil
}

func (s stubComponentSource) ListByAsset(_ context.Context, assetID string) ([]inventory.Component, error) {
	return s.byAsset[assetID], nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type stubAssetChecker struct {
	owners map[string]string
}

func (c stubAssetChecker) EnsureAssetTenant(_ context.Context, tenantID, assetID string) error {
	owner, ok := c.owners[assetID]
	if !ok {
		return auth.ErrNotFound
	}
	if owner != tenantID {
		return auth.ErrTenantMismatch
	}
	return nil
}

func newTestForecastHandler(t *testing.T, checker auth.AssetTenantChecker) *ForecastHandler {
	t.Helper()

	components := []inventory.Component{
		{AssetID: "asset-1", Priority: inventory.PriorityImmediate, RepairCost: 100000},
	}
	source := stubComponentSource{
		portfolio: components,
		byAsset:   map[string][]inventory.Component{"asset-1": components},
	}
	service, err := application.NewForecastService(source,
		application.Config{Schedule: forecast.DefaultSchedule(), DefaultHorizon: 5, MaxHorizon: 30},
		fixedClock{now: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("new forecast service: %v", err)
	}
	handler, err := NewForecastHandler(service, checker, log.Default())
	if err != nil {
		t.Fatalf("new forecast handler: %v", err)
	}
	return handler
}

func requestWithTenant(method, target, tenantID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if tenantID != "" {
		ctx := auth.WithIdentity(req.Context(), tenantID, auth.RoleViewer, "user-1")
		req = req.WithContext(ctx)
	}
	return req
}

func TestForecastHandler_AssetTenantEnforced(t *testing.T) {
	checker := stubAssetChecker{owners: map[string]string{"asset-1": "tenant-a"}}
	handler := newTestForecastHandler(t, checker)

	cases := []struct {
		name     string
		tenantID string
		target   string
		expected int
	}{
		{"owning tenant", "tenant-a", "/api/v1/forecast?asset_id=asset-1", http.StatusOK},
		{"foreign tenant", "tenant-b", "/api/v1/forecast?asset_id=asset-1", http.StatusForbidden},
		{"unknown asset", "tenant-a", "/api/v1/forecast?asset_id=asset-missing", http.StatusNotFound},
		{"portfolio scope unchecked", "tenant-b", "/api/v1/forecast", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, requestWithTenant(http.MethodGet, tc.target, tc.tenantID))
			if resp.Code != tc.expected {
				t.Fatalf("expected %d, got %d: %s", tc.expected, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestForecastHandler_BadQuery(t *testing.T) {
	handler := newTestForecastHandler(t, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/forecast?horizon=-2", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative horizon, got %d", resp.Code)
	}
}

func TestExportForecastXLSXHandler_AssetTenantEnforced(t *testing.T) {
	components := []inventory.Component{
		{AssetID: "asset-1", Priority: inventory.PriorityImmediate, RepairCost: 100000},
	}
	source := stubComponentSource{
		portfolio: components,
		byAsset:   map[string][]inventory.Component{"asset-1": components},
	}
	service, err := application.NewForecastService(source,
		application.Config{Schedule: forecast.DefaultSchedule(), DefaultHorizon: 5, MaxHorizon: 30},
		fixedClock{now: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("new forecast service: %v", err)
	}
	checker := stubAssetChecker{owners: map[string]string{"asset-1": "tenant-a"}}
	handler, err := NewExportForecastXLSXHandler(service, checker, log.Default())
	if err != nil {
		t.Fatalf("new export handler: %v", err)
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, requestWithTenant(http.MethodGet, "/api/v1/exports/forecast.xlsx?asset_id=asset-1", "tenant-b"))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign tenant, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, requestWithTenant(http.MethodGet, "/api/v1/exports/forecast.xlsx?asset_id=asset-1", "tenant-a"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for owning tenant, got %d", resp.Code)
	}
}
