package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bell24h/supplierrisk/internal/domain/models"
)

func TestMetricsAdapter_RecordAssessment(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	adapter := NewMetricsAdapter(m)

	adapter.RecordAssessment(&models.RiskScore{
		Score:     72.5,
		RiskLevel: models.RiskLevelModerate,
		Factors: []models.RiskFactor{
			{Name: "financialStability", Score: 70},
			{Name: "qualityConsistency", Score: 90},
		},
	}, 15*time.Millisecond)
	adapter.RecordAssessment(nil, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AssessmentsTotal.WithLabelValues("MODERATE")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.AssessmentScore))
	assert.Equal(t, 2, testutil.CollectAndCount(m.FactorScore))
}

func TestMetricsAdapter_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	adapter := NewMetricsAdapter(m)

	adapter.RecordPoliticalLookup("provider", false)
	adapter.RecordPoliticalLookup("provider", true)
	adapter.RecordPoliticalLookup("provider", true)
	adapter.RecordCacheAccess("redis", true)
	adapter.RecordCacheAccess("redis", false)
	adapter.RecordStoreError("get_supplier")
	m.RecordHTTPRequest("GET", "/api/v1/risk-score/:supplier_id", 200, time.Millisecond)
	m.RecordRateLimitHit("ip")
	m.RecordSupplierUpdate(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PoliticalLookups.WithLabelValues("provider", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PoliticalLookups.WithLabelValues("provider", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheAccess.WithLabelValues("redis", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheAccess.WithLabelValues("redis", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("get_supplier")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/risk-score/:supplier_id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitHits.WithLabelValues("ip")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SupplierUpdatesHandled.WithLabelValues("failure")))
}

func TestTraceOperation_NoopTracer(t *testing.T) {
	tm := NewNoopTracingManager()

	called := false
	err := TraceOperation(context.Background(), tm, "op", map[string]interface{}{"k": 1}, func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	err = TraceOperation(context.Background(), tm, "op", nil, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, tm.Shutdown(context.Background()))
}
