package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"facilities-cloud/internal/auth"
	"facilities-cloud/internal/forecast/application"
	forecast "facilities-cloud/internal/forecast/domain"
	"facilities-cloud/internal/forecast/interfaces"
	"facilities-cloud/internal/observability/metrics"
)

// ForecastHandler serves time-phased capital forecasts.
type ForecastHandler struct {
	service      *application.ForecastService
	assetChecker auth.AssetTenantChecker
	logger       *log.Logger
}

// NewForecastHandler constructs a ForecastHandler.
func NewForecastHandler(service *application.ForecastService, assetChecker auth.AssetTenantChecker, logger *log.Logger) (*ForecastHandler, error) {
	if service == nil {
		return nil, errors.New("forecast http: nil forecast service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ForecastHandler{service: service, assetChecker: assetChecker, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/forecast.
func (h *ForecastHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	assetID, startYear, horizon, err := parseForecastQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	scope := "portfolio"
	if assetID != "" {
		scope = "asset"
		if err := ensureAssetTenant(r, h.assetChecker, assetID); err != nil {
			respondTenantError(w, err)
			return
		}
	}

	start := time.Now()
	run, err := h.runForecast(r, assetID, startYear, horizon)
	if err != nil {
		metrics.ObserveForecast(scope, metrics.ResultError, time.Since(start))
		h.logger.Printf("forecast error: scope=%s asset=%s err=%v", scope, assetID, err)
		http.Error(w, "forecast error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveForecast(scope, metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toForecastResponse(run))
}

func (h *ForecastHandler) runForecast(r *http.Request, assetID string, startYear, horizon int) (*application.Forecast, error) {
	if assetID == "" {
		return h.service.PortfolioForecast(r.Context(), startYear, horizon)
	}
	return h.service.AssetForecast(r.Context(), assetID, startYear, horizon)
}

// ExportForecastXLSXHandler serves forecast workbook exports.
type ExportForecastXLSXHandler struct {
	service      *application.ForecastService
	assetChecker auth.AssetTenantChecker
	logger       *log.Logger
}

// NewExportForecastXLSXHandler constructs an ExportForecastXLSXHandler.
func NewExportForecastXLSXHandler(service *application.ForecastService, assetChecker auth.AssetTenantChecker, logger *log.Logger) (*ExportForecastXLSXHandler, error) {
	if service == nil {
		return nil, errors.New("forecast http: nil forecast service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ExportForecastXLSXHandler{service: service, assetChecker: assetChecker, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/exports/forecast.xlsx.
func (h *ExportForecastXLSXHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	assetID, startYear, horizon, err := parseForecastQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if assetID != "" {
		if err := ensureAssetTenant(r, h.assetChecker, assetID); err != nil {
			respondTenantError(w, err)
			return
		}
	}

	start := time.Now()
	var run *application.Forecast
	if assetID == "" {
		run, err = h.service.PortfolioForecast(r.Context(), startYear, horizon)
	} else {
		run, err = h.service.AssetForecast(r.Context(), assetID, startYear, horizon)
	}
	if err != nil {
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		h.logger.Printf("forecast export error: asset=%s err=%v", assetID, err)
		http.Error(w, "forecast export error", http.StatusInternalServerError)
		return
	}

	data, err := interfaces.BuildForecastXLSX(run)
	if err != nil {
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		h.logger.Printf("forecast export render error: asset=%s err=%v", assetID, err)
		http.Error(w, "forecast export render error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport("xlsx", metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="capital-forecast.xlsx"`)
	_, _ = w.Write(data)
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

func parseForecastQuery(r *http.Request) (assetID string, startYear, horizon int, err error) {
	query := r.URL.Query()
	assetID = query.Get("asset_id")

	if raw := query.Get("start_year"); raw != "" {
		startYear, err = strconv.Atoi(raw)
		if err != nil || startYear <= 0 {
			return "", 0, 0, errors.New("start_year must be a positive integer")
		}
	}
	if raw := query.Get("horizon"); raw != "" {
		horizon, err = strconv.Atoi(raw)
		if err != nil || horizon <= 0 {
			return "", 0, 0, errors.New("horizon must be a positive integer")
		}
	}
	return assetID, startYear, horizon, nil
}

type forecastResponse struct {
	AssetID   string                 `json:"assetId,omitempty"`
	StartYear int                    `json:"startYear"`
	Horizon   int                    `json:"horizon"`
	Needs     needsResponse          `json:"needs"`
	Years     []forecastYearResponse `json:"years"`
}

type needsResponse struct {
	Immediate  float64 `json:"immediate"`
	ShortTerm  float64 `json:"shortTerm"`
	MediumTerm float64 `json:"mediumTerm"`
	LongTerm   float64 `json:"longTerm"`
	Total      float64 `json:"total"`
}

type forecastYearResponse struct {
	Year               int     `json:"year"`
	ImmediateNeeds     float64 `json:"immediateNeeds"`
	ShortTermNeeds     float64 `json:"shortTermNeeds"`
	MediumTermNeeds    float64 `json:"mediumTermNeeds"`
	LongTermNeeds      float64 `json:"longTermNeeds"`
	TotalProjectedCost float64 `json:"totalProjectedCost"`
	CumulativeCost     float64 `json:"cumulativeCost"`
}

func toForecastResponse(run *application.Forecast) forecastResponse {
	resp := forecastResponse{
		AssetID:   run.AssetID,
		StartYear: run.StartYear,
		Horizon:   run.Horizon,
		Needs: needsResponse{
			Immediate:  run.Needs.Immediate,
			ShortTerm:  run.Needs.ShortTerm,
			MediumTerm: run.Needs.MediumTerm,
			LongTerm:   run.Needs.LongTerm,
			Total:      run.Needs.Total(),
		},
		Years: make([]forecastYearResponse, 0, len(run.Years)),
	}
	for _, year := range run.Years {
		resp.Years = append(resp.Years, toForecastYearResponse(year))
	}
	return resp
}

func toForecastYearResponse(year forecast.ForecastYear) forecastYearResponse {
	return forecastYearResponse{
		Year:               year.Year,
		ImmediateNeeds:     year.ImmediateNeeds,
		ShortTermNeeds:     year.ShortTermNeeds,
		MediumTermNeeds:    year.MediumTermNeeds,
		LongTermNeeds:      year.LongTermNeeds,
		TotalProjectedCost: year.TotalProjectedCost,
		CumulativeCost:     year.CumulativeCost,
	}
}
