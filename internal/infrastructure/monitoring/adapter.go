// Package monitoring provides the zap logger, Prometheus metrics and OpenTelemetry tracing,
// and adapts them to the domain's ports.
package monitoring

import (
	"time"

	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/internal/domain/service"
)

// MetricsAdapter implements the domain's service.Metrics interface, sending metrics to a Prometheus backend.
// MetricsAdapter 实现了域的 service.Metrics 接口，将指标发送到 Prometheus 后端。
type MetricsAdapter struct {
	metrics *Metrics
}

var _ service.Metrics = (*MetricsAdapter)(nil)

// NewMetricsAdapter wraps a concrete Prometheus Metrics object.
// NewMetricsAdapter 包装具体的 Prometheus Metrics 对象。
func NewMetricsAdapter(metrics *Metrics) *MetricsAdapter {
	return &MetricsAdapter{metrics: metrics}
}

// RecordAssessment delegates the call to the underlying Prometheus Metrics object.
// RecordAssessment 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordAssessment(score *models.RiskScore, duration time.Duration) {
	a.metrics.RecordAssessment(score, duration)
}

// RecordPoliticalLookup delegates the call to the underlying Prometheus Metrics object.
// RecordPoliticalLookup 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordPoliticalLookup(source string, success bool) {
	a.metrics.RecordPoliticalLookup(source, success)
}

// RecordCacheAccess delegates the call to the underlying Prometheus Metrics object.
// RecordCacheAccess 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordCacheAccess(cacheType string, hit bool) {
	a.metrics.RecordCacheAccess(cacheType, hit)
}

// RecordStoreError delegates the call to the underlying Prometheus Metrics object.
// RecordStoreError 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordStoreError(operation string) {
	a.metrics.RecordStoreError(operation)
}
