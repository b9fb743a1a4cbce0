package observability

import (
	"time"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the funding BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	matchOutcomes   *prometheus.CounterVec
	invalidProducts prometheus.Counter
	matchRuns       *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "funding_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funding_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funding_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funding_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		matchOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funding_match_products_total",
				Help: "Total per-product classifications by bucket.",
			},
			[]string{"bucket"},
		),
		invalidProducts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "funding_invalid_products_total",
				Help: "Total catalog records skipped as structurally invalid.",
			},
		),
		matchRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funding_match_runs_total",
				Help: "Total full-catalog match runs.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordMatchOutcomes records how many products landed in each bucket
// for one match run.
func (m *Metrics) RecordMatchOutcomes(qualified, needInfo, notQualified, invalid int) {
	m.matchOutcomes.WithLabelValues("qualified").Add(float64(qualified))
	m.matchOutcomes.WithLabelValues("need_more_info").Add(float64(needInfo))
	m.matchOutcomes.WithLabelValues("not_qualified").Add(float64(notQualified))
	if invalid > 0 {
		m.invalidProducts.Add(float64(invalid))
	}
}

// IncrMatchRun increments the match-run counter with a status label.
func (m *Metrics) IncrMatchRun(status string) {
	m.matchRuns.WithLabelValues(status).Inc()
}

// GetMatchingSnapshot returns a snapshot of matching metrics suitable
// for the GET /v1/metrics/matching endpoint.
func (m *Metrics) GetMatchingSnapshot() *domain.MatchingMetrics {
	qualified := getCounterValue(m.matchOutcomes, "qualified")
	needInfo := getCounterValue(m.matchOutcomes, "need_more_info")
	notQualified := getCounterValue(m.matchOutcomes, "not_qualified")
	runs := getCounterValue(m.matchRuns, "ok") + getCounterValue(m.matchRuns, "error")
	errorCount := getCounterValue(m.matchRuns, "error")
	cacheHits := getCounterValue(m.cacheHits, "catalog")
	cacheMisses := getCounterValue(m.cacheMisses, "catalog")

	errorRate := float64(0)
	cacheHitRate := float64(0)
	if runs > 0 {
		errorRate = errorCount / runs
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	var invalid float64
	metric := &dto.Metric{}
	if err := m.invalidProducts.Write(metric); err == nil && metric.Counter != nil && metric.Counter.Value != nil {
		invalid = *metric.Counter.Value
	}

	return &domain.MatchingMetrics{
		TotalMatchRuns:    int64(runs),
		QualifiedTotal:    int64(qualified),
		NeedMoreInfoTotal: int64(needInfo),
		NotQualifiedTotal: int64(notQualified),
		InvalidProducts:   int64(invalid),
		CacheHitRate:      cacheHitRate,
		ErrorRate:         errorRate,
		Period:            "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
