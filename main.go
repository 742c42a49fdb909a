package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"facilities-cloud/internal/audit"
	"facilities-cloud/internal/auth"
	"facilities-cloud/internal/condition"
	forecastapp "facilities-cloud/internal/forecast/application"
	forecasthttp "facilities-cloud/internal/forecast/interfaces/http"
	inventoryrepo "facilities-cloud/internal/inventory/infrastructure/postgres"
	"facilities-cloud/internal/observability/metrics"
	portfolioapp "facilities-cloud/internal/portfolio/application"
	portfoliohttp "facilities-cloud/internal/portfolio/interfaces/http"
	prioritizationapp "facilities-cloud/internal/prioritization/application"
	prioritization "facilities-cloud/internal/prioritization/domain"
	prioritizationrepo "facilities-cloud/internal/prioritization/infrastructure/postgres"
	prioritizationhttp "facilities-cloud/internal/prioritization/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	assetChecker := auth.NewAssetChecker(db)
	auditRepo := audit.NewRepository(db)

	scoringCfg, err := condition.LoadConfig()
	if err != nil {
		logger.Fatalf("condition config error: %v", err)
	}
	forecastCfg, err := forecastapp.LoadConfig()
	if err != nil {
		logger.Fatalf("forecast config error: %v", err)
	}

	componentRepo := inventoryrepo.NewComponentRepository(db, inventoryrepo.WithTenantID(cfg.TenantID))

	summaryService, err := portfolioapp.NewSummaryService(componentRepo, scoringCfg, portfolioapp.SystemClock{})
	if err != nil {
		logger.Fatalf("summary service error: %v", err)
	}
	forecastService, err := forecastapp.NewForecastService(componentRepo, forecastCfg, forecastapp.SystemClock{})
	if err != nil {
		logger.Fatalf("forecast service error: %v", err)
	}

	calculator, err := prioritization.NewCalculator(cfg.CriteriaScale)
	if err != nil {
		logger.Fatalf("calculator error: %v", err)
	}
	prioritizationService, err := prioritizationapp.NewPrioritizationService(
		prioritizationrepo.NewCriteriaRepository(db),
		prioritizationrepo.NewScoreRepository(db),
		prioritizationrepo.NewCompositeRepository(db),
		prioritizationrepo.NewProjectDirectory(db),
		calculator,
		prioritizationapp.SystemClock{},
		logger,
	)
	if err != nil {
		logger.Fatalf("prioritization service error: %v", err)
	}

	summaryHandler, err := portfoliohttp.NewSummaryHandler(summaryService, assetChecker, logger)
	if err != nil {
		logger.Fatalf("summary handler error: %v", err)
	}
	reportHandler, err := portfoliohttp.NewConditionReportHandler(summaryService, assetChecker, logger)
	if err != nil {
		logger.Fatalf("condition report handler error: %v", err)
	}
	forecastHandler, err := forecasthttp.NewForecastHandler(forecastService, assetChecker, logger)
	if err != nil {
		logger.Fatalf("forecast handler error: %v", err)
	}
	forecastExportHandler, err := forecasthttp.NewExportForecastXLSXHandler(forecastService, assetChecker, logger)
	if err != nil {
		logger.Fatalf("forecast export handler error: %v", err)
	}
	scoringHandler, err := prioritizationhttp.NewProjectScoringHandler(prioritizationService, auditRepo, logger)
	if err != nil {
		logger.Fatalf("project scoring handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/portfolio/summary", summaryHandler)
	mux.Handle("/api/v1/assets/", assetDispatcher(summaryHandler, reportHandler))
	mux.Handle("/api/v1/forecast", forecastHandler)
	mux.Handle("/api/v1/exports/condition-report.pdf", reportHandler)
	mux.Handle("/api/v1/exports/forecast.xlsx", forecastExportHandler)
	mux.Handle("/api/v1/projects/", scoringHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

// assetDispatcher routes /api/v1/assets/{id}/summary to the summary
// handler and /api/v1/assets/{id}/report.pdf to the report handler.
func assetDispatcher(summary, report http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/summary"):
			summary.ServeHTTP(w, r)
		case strings.HasSuffix(r.URL.Path, "/report.pdf"):
			report.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type config struct {
	DatabaseURL   string
	HTTPAddr      string
	TenantID      string
	JWTSecret     string
	CriteriaScale float64
}

func loadConfig() config {
	return config{
		DatabaseURL:   getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:      getenvDefault("HTTP_ADDR", ":8080"),
		TenantID:      getenvDefault("TENANT_ID", "tenant-demo"),
		JWTSecret:     getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		CriteriaScale: getenvFloatDefault("CRITERIA_SCALE", prioritization.DefaultScale),
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
