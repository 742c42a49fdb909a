package http

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"facilities-cloud/internal/auth"
	"facilities-cloud/internal/observability/metrics"
	"facilities-cloud/internal/portfolio/application"
	"facilities-cloud/internal/portfolio/interfaces"
)

// ConditionReportHandler serves PDF condition reports.
type ConditionReportHandler struct {
	service      *application.SummaryService
	assetChecker auth.AssetTenantChecker
	logger       *log.Logger
}

// NewConditionReportHandler constructs a ConditionReportHandler.
func NewConditionReportHandler(service *application.SummaryService, assetChecker auth.AssetTenantChecker, logger *log.Logger) (*ConditionReportHandler, error) {
	if service == nil {
		return nil, errors.New("portfolio http: nil summary service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ConditionReportHandler{service: service, assetChecker: assetChecker, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/exports/condition-report.pdf and
// GET /api/v1/assets/{id}/report.pdf.
func (h *ConditionReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	assetID := ""
	if strings.HasPrefix(r.URL.Path, "/api/v1/assets/") {
		assetID = assetIDFromPath(r.URL.Path)
		if assetID == "" {
			http.Error(w, "asset id is required", http.StatusBadRequest)
			return
		}
		if err := ensureAssetTenant(r, h.assetChecker, assetID); err != nil {
			respondTenantError(w, err)
			return
		}
	}

	start := time.Now()
	summary, err := h.loadSummary(r, assetID)
	if err != nil {
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		h.logger.Printf("condition report error: asset=%s err=%v", assetID, err)
		http.Error(w, "condition report error", http.StatusInternalServerError)
		return
	}

	data, err := interfaces.BuildConditionReportPDF(summary)
	if err != nil {
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		h.logger.Printf("condition report render error: asset=%s err=%v", assetID, err)
		http.Error(w, "condition report render error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport("pdf", metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="condition-report.pdf"`)
	_, _ = w.Write(data)
}

func (h *ConditionReportHandler) loadSummary(r *http.Request, assetID string) (*application.Summary, error) {
	if assetID == "" {
		return h.service.PortfolioSummary(r.Context())
	}
	return h.service.AssetSummary(r.Context(), assetID)
}
