package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"facilities-cloud/internal/auth"
	"facilities-cloud/internal/observability/metrics"
	"facilities-cloud/internal/portfolio/application"
	portfolio "facilities-cloud/internal/portfolio/domain"
)

// SummaryHandler serves rebuilt condition summaries for the portfolio
// and for single assets.
type SummaryHandler struct {
	service      *application.SummaryService
	assetChecker auth.AssetTenantChecker
	logger       *log.Logger
}

// NewSummaryHandler constructs a SummaryHandler.
func NewSummaryHandler(service *application.SummaryService, assetChecker auth.AssetTenantChecker, logger *log.Logger) (*SummaryHandler, error) {
	if service == nil {
		return nil, errors.New("portfolio http: nil summary service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SummaryHandler{service: service, assetChecker: assetChecker, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/portfolio/summary and
// GET /api/v1/assets/{id}/summary.
func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	scope := "portfolio"
	assetID := ""
	if strings.HasPrefix(r.URL.Path, "/api/v1/assets/") {
		scope = "asset"
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
		metrics.ObserveSummaryRebuild(scope, metrics.ResultError, time.Since(start))
		h.logger.Printf("summary rebuild error: scope=%s asset=%s err=%v", scope, assetID, err)
		http.Error(w, "summary rebuild error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveSummaryRebuild(scope, metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toSummaryResponse(summary))
}

func (h *SummaryHandler) loadSummary(r *http.Request, assetID string) (*application.Summary, error) {
	if assetID == "" {
		return h.service.PortfolioSummary(r.Context())
	}
	return h.service.AssetSummary(r.Context(), assetID)
}

func assetIDFromPath(path string) string {
	rest := strings.TrimPrefix(path, "/api/v1/assets/")
	rest = strings.TrimSuffix(rest, "/summary")
	rest = strings.TrimSuffix(rest, "/report.pdf")
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

func ensureAssetTenant(r *http.Request, checker auth.AssetTenantChecker, assetID string) error {
	if checker == nil || assetID == "" {
		return nil
	}
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		return nil
	}
	return checker.EnsureAssetTenant(r.Context(), tenantID, assetID)
}

func respondTenantError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, auth.ErrTenantMismatch) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if errors.Is(err, auth.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "tenant check failed", http.StatusInternalServerError)
}

type summaryResponse struct {
	AssetID              string                        `json:"assetId,omitempty"`
	ComponentCount       int                           `json:"componentCount"`
	RepairCost           float64                       `json:"repairCost"`
	ReplacementCost      float64                       `json:"replacementCost"`
	FCI                  float64                       `json:"fci"`
	FCIPercent           float64                       `json:"fciPercent"`
	FCIRating            string                        `json:"fciRating"`
	ClassificationGroups []classificationGroupResponse `json:"classificationGroups"`
	PriorityGroups       []priorityGroupResponse       `json:"priorityGroups"`
	GeneratedAt          time.Time                     `json:"generatedAt"`
}

type classificationGroupResponse struct {
	Code                    string   `json:"code"`
	Name                    string   `json:"name"`
	Count                   int      `json:"count"`
	RepairCost              float64  `json:"repairCost"`
	ReplacementCost         float64  `json:"replacementCost"`
	AverageConditionPercent *float64 `json:"averageConditionPercent"`
}

type priorityGroupResponse struct {
	Priority          string  `json:"priority"`
	Count             int     `json:"count"`
	TotalCost         float64 `json:"totalCost"`
	PercentageOfTotal int     `json:"percentageOfTotal"`
}

func toSummaryResponse(summary *application.Summary) summaryResponse {
	resp := summaryResponse{
		AssetID:              summary.AssetID,
		ComponentCount:       summary.ComponentCount,
		RepairCost:           summary.RepairCost,
		ReplacementCost:      summary.ReplacementCost,
		FCI:                  float64(summary.FCI),
		FCIPercent:           float64(summary.FCIPercent),
		FCIRating:            string(summary.FCIRating),
		ClassificationGroups: make([]classificationGroupResponse, 0, len(summary.ClassificationGroups)),
		PriorityGroups:       make([]priorityGroupResponse, 0, len(summary.PriorityGroups)),
		GeneratedAt:          summary.GeneratedAt,
	}
	for _, group := range summary.ClassificationGroups {
		resp.ClassificationGroups = append(resp.ClassificationGroups, toClassificationGroupResponse(group))
	}
	for _, group := range summary.PriorityGroups {
		resp.PriorityGroups = append(resp.PriorityGroups, priorityGroupResponse{
			Priority:          string(group.Bucket),
			Count:             group.Count,
			TotalCost:         group.TotalCost,
			PercentageOfTotal: group.PercentageOfTotal,
		})
	}
	return resp
}

func toClassificationGroupResponse(group portfolio.ClassificationGroup) classificationGroupResponse {
	return classificationGroupResponse{
		Code:                    group.Code,
		Name:                    group.Name,
		Count:                   group.Count,
		RepairCost:              group.RepairCost,
		ReplacementCost:         group.ReplacementCost,
		AverageConditionPercent: group.AverageConditionPercent(),
	}
}
