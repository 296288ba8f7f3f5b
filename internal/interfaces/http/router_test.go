package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/bell24h/supplierrisk/internal/application/service"
	"github.com/bell24h/supplierrisk/internal/config"
	"github.com/bell24h/supplierrisk/internal/domain/models"
	domainservice "github.com/bell24h/supplierrisk/internal/domain/service"
	"github.com/bell24h/supplierrisk/internal/infrastructure/monitoring"
	"github.com/bell24h/supplierrisk/internal/interfaces/http/handlers"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

type memorySuppliers struct {
	mu   sync.Mutex
	data map[string]*models.SupplierProfile
}

func (m *memorySuppliers) GetSupplierByID(_ context.Context, id string) (*models.SupplierProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[id], nil
}

func (m *memorySuppliers) UpsertSupplier(_ context.Context, p *models.SupplierProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[p.ID] = p
	return nil
}

func newTestRouter(t *testing.T, rateLimit config.RateLimitConfig) (*Router, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	svc := service.NewSupplierRiskAppService(service.Dependencies{
		Aggregator: domainservice.NewRiskAggregator(domainservice.WithClock(func() time.Time { return now })),
		Suppliers:  &memorySuppliers{data: map[string]*models.SupplierProfile{}},
		Metrics:    monitoring.NewMetricsAdapter(metrics),
	})

	cfg := &config.Config{
		Server:    config.ServerConfig{Environment: "production", AllowedOrigins: []string{"https://bell24h.com"}},
		RateLimit: rateLimit,
	}
	router := NewRouter(RouterDeps{
		Config:   cfg,
		Logger:   logger.NewNoopLogger(),
		Tracer:   noop.NewTracerProvider().Tracer("test"),
		Recorder: metrics,
		Gatherer: reg,
	},
		handlers.NewHealthHandler(nil, logger.NewNoopLogger()),
		handlers.NewRiskHandler(svc),
		handlers.NewSupplierHandler(svc),
	)
	return router, reg
}

func request(r *Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)
	return w
}

func TestRouter_EndToEnd(t *testing.T) {
	router, _ := newTestRouter(t, config.RateLimitConfig{})

	w := request(router, http.MethodGet, "/api/v1/risk-score/sup-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(router, http.MethodPut, "/api/v1/suppliers/sup-1", `{
		"name": "Acme Components",
		"creditScore": 80,
		"qualityScore": 90,
		"customerSatisfaction": 90,
		"deliveryStats": {"onTimePercentage": 95, "averageDelay": 1, "returnRate": 2},
		"certifications": ["ISO9001", "ISO14001"],
		"lastAuditScore": 90,
		"yearsInBusiness": 15,
		"reviewScore": 85,
		"industryRank": 10,
		"location": "Location Z"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(router, http.MethodPost, "/api/v1/risk-score/sup-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var score models.RiskScore
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &score))
	assert.Equal(t, "sup-1", score.SupplierID)
	assert.Len(t, score.Factors, 6)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = request(router, http.MethodPost, "/api/v1/supplier/risk-score", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &score))
	assert.Equal(t, models.RiskLevelSevere, score.RiskLevel)
	assert.Len(t, score.Recommendations, 6)

	w = request(router, http.MethodPost, "/api/v1/supplier/risk-score", "not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(router, http.MethodGet, "/api/v1/suppliers/sup-1/assessments", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, config.RateLimitConfig{})

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/live", "").Code)

	request(router, http.MethodGet, "/live", "")
	w := request(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "supplier_risk_http_requests_total")

	w = request(router, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")

	// pprof is not mounted in production
	assert.Equal(t, http.StatusNotFound, request(router, http.MethodGet, "/debug/pprof/", "").Code)
}

func TestRouter_RateLimit(t *testing.T) {
	router, _ := newTestRouter(t, config.RateLimitConfig{Enabled: true, DefaultRPM: 1, BurstSize: 1})

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/api/v1/scoring-model", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, request(router, http.MethodGet, "/api/v1/scoring-model", "").Code)
	// operational endpoints are outside the limited group
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/live", "").Code)
}
