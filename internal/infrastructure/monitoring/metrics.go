package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/pkg/constants"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	AssessmentsTotal       *prometheus.CounterVec
	AssessmentScore        prometheus.Histogram
	AssessmentLatency      prometheus.Histogram
	FactorScore            *prometheus.HistogramVec
	PoliticalLookups       *prometheus.CounterVec
	CacheAccess            *prometheus.CounterVec
	StoreErrors            *prometheus.CounterVec
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	RateLimitHits          *prometheus.CounterVec
	SupplierUpdatesHandled *prometheus.CounterVec
}

var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// NewMetrics creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	ns := constants.MetricsNamespace

	return &Metrics{
		AssessmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "assessments_total",
				Help:      "Total number of supplier risk assessments by risk level.",
			},
			[]string{"risk_level"},
		),
		AssessmentScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "assessment_score",
				Help:      "Distribution of combined supplier risk scores.",
				Buckets:   scoreBuckets,
			},
		),
		AssessmentLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "assessment_duration_seconds",
				Help:      "Latency of supplier risk assessments.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		FactorScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "factor_score",
				Help:      "Distribution of per-factor scores.",
				Buckets:   scoreBuckets,
			},
			[]string{"factor"},
		),
		PoliticalLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "political_lookups_total",
				Help:      "Political risk lookups by source and result.",
			},
			[]string{"source", "result"},
		),
		CacheAccess: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "cache_access_total",
				Help:      "Cache accesses by cache type and outcome.",
			},
			[]string{"cache", "outcome"},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "store_errors_total",
				Help:      "Failed supplier store operations.",
			},
			[]string{"operation"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "rate_limit_hits_total",
				Help:      "Total number of rate limit hits.",
			},
			[]string{"scope"},
		),
		SupplierUpdatesHandled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "supplier_updates_consumed_total",
				Help:      "Supplier update messages consumed by result.",
			},
			[]string{"result"},
		),
	}
}

// RecordAssessment records a completed assessment.
func (m *Metrics) RecordAssessment(score *models.RiskScore, duration time.Duration) {
	if score == nil {
		return
	}
	m.AssessmentsTotal.WithLabelValues(string(score.RiskLevel)).Inc()
	m.AssessmentScore.Observe(score.Score)
	m.AssessmentLatency.Observe(duration.Seconds())
	for _, f := range score.Factors {
		m.FactorScore.WithLabelValues(f.Name).Observe(f.Score)
	}
}

func (m *Metrics) RecordPoliticalLookup(source string, success bool) {
	m.PoliticalLookups.WithLabelValues(source, resultLabel(success)).Inc()
}

func (m *Metrics) RecordCacheAccess(cacheType string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheAccess.WithLabelValues(cacheType, outcome).Inc()
}

func (m *Metrics) RecordStoreError(operation string) {
	m.StoreErrors.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRateLimitHit records a rejected request.
func (m *Metrics) RecordRateLimitHit(scope string) {
	m.RateLimitHits.WithLabelValues(scope).Inc()
}

// RecordSupplierUpdate records a consumed supplier update message.
func (m *Metrics) RecordSupplierUpdate(success bool) {
	m.SupplierUpdatesHandled.WithLabelValues(resultLabel(success)).Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

//Personal.AI order the ending
