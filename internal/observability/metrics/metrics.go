package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "facilities_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	summaryRebuildTotal   *prometheus.CounterVec
	summaryRebuildLatency *prometheus.HistogramVec

	forecastTotal   *prometheus.CounterVec
	forecastLatency *prometheus.HistogramVec

	scoreSubmitTotal   *prometheus.CounterVec
	scoreSubmitLatency *prometheus.HistogramVec

	recalculateTotal     *prometheus.CounterVec
	recalculateLatency   *prometheus.HistogramVec
	recalculateProcessed prometheus.Counter
	recalculateSkipped   prometheus.Counter

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		summaryRebuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "summary_rebuild_total",
				Help: "Total aggregate summary rebuilds by scope and result",
			},
			[]string{"scope", "result"},
		)
		summaryRebuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "summary_rebuild_latency_seconds",
				Help:    "Aggregate summary rebuild latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scope", "result"},
		)

		forecastTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "forecast_total",
				Help: "Total capital forecast runs by scope and result",
			},
			[]string{"scope", "result"},
		)
		forecastLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "forecast_latency_seconds",
				Help:    "Capital forecast latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scope", "result"},
		)

		scoreSubmitTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "score_submit_total",
				Help: "Total criteria score submissions by result",
			},
			[]string{"result"},
		)
		scoreSubmitLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "score_submit_latency_seconds",
				Help:    "Criteria score submission latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		recalculateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "recalculate_total",
				Help: "Total bulk composite recalculations by result",
			},
			[]string{"result"},
		)
		recalculateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "recalculate_latency_seconds",
				Help:    "Bulk composite recalculation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		recalculateProcessed = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "recalculate_projects_processed_total",
				Help: "Total projects processed by bulk recalculation",
			},
		)
		recalculateSkipped = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "recalculate_projects_skipped_total",
				Help: "Total projects skipped by bulk recalculation",
			},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			summaryRebuildTotal,
			summaryRebuildLatency,
			forecastTotal,
			forecastLatency,
			scoreSubmitTotal,
			scoreSubmitLatency,
			recalculateTotal,
			recalculateLatency,
			recalculateProcessed,
			recalculateSkipped,
			exportTotal,
			exportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveSummaryRebuild records summary rebuild latency and result.
func ObserveSummaryRebuild(scope, result string, duration time.Duration) {
	if scope == "" {
		scope = "portfolio"
	}
	if result == "" {
		result = resultSuccess
	}
	if summaryRebuildTotal != nil {
		summaryRebuildTotal.WithLabelValues(scope, result).Inc()
	}
	if summaryRebuildLatency != nil {
		summaryRebuildLatency.WithLabelValues(scope, result).Observe(duration.Seconds())
	}
}

// ObserveForecast records forecast run latency and result.
func ObserveForecast(scope, result string, duration time.Duration) {
	if scope == "" {
		scope = "portfolio"
	}
	if result == "" {
		result = resultSuccess
	}
	if forecastTotal != nil {
		forecastTotal.WithLabelValues(scope, result).Inc()
	}
	if forecastLatency != nil {
		forecastLatency.WithLabelValues(scope, result).Observe(duration.Seconds())
	}
}

// ObserveScoreSubmit records score submission latency and result.
func ObserveScoreSubmit(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if scoreSubmitTotal != nil {
		scoreSubmitTotal.WithLabelValues(result).Inc()
	}
	if scoreSubmitLatency != nil {
		scoreSubmitLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveRecalculate records bulk recalculation latency, result and counts.
func ObserveRecalculate(result string, processed, skipped int, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if recalculateTotal != nil {
		recalculateTotal.WithLabelValues(result).Inc()
	}
	if recalculateLatency != nil {
		recalculateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if recalculateProcessed != nil && processed > 0 {
		recalculateProcessed.Add(float64(processed))
	}
	if recalculateSkipped != nil && skipped > 0 {
		recalculateSkipped.Add(float64(skipped))
	}
}

// ObserveExport records export latency, format and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
