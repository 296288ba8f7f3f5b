// Package service contains the supplier risk domain services and the ports they depend on.
package service

import (
	"time"

	"github.com/bell24h/supplierrisk/internal/domain/models"
)

// Metrics defines the interface for collecting business metrics.
// This abstraction allows the application layer to remain independent of the specific monitoring implementation (e.g., Prometheus).
// Metrics 定义了收集业务指标的接口。
// 这种抽象使应用层能够独立于具体的监控实现（例如 Prometheus）。
type Metrics interface {
	// RecordAssessment records a completed assessment and its factor breakdown.
	// RecordAssessment 记录一次完成的评估及其因子明细。
	RecordAssessment(score *models.RiskScore, duration time.Duration)

	// RecordPoliticalLookup records the outcome of a political risk lookup.
	// RecordPoliticalLookup 记录政治风险查询的结果。
	RecordPoliticalLookup(source string, success bool)

	// RecordCacheAccess records a cache hit or miss.
	// RecordCacheAccess 记录缓存命中或未命中。
	RecordCacheAccess(cacheType string, hit bool)

	// RecordStoreError records a failed supplier store operation.
	// RecordStoreError 记录失败的供应商存储操作。
	RecordStoreError(operation string)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) RecordAssessment(*models.RiskScore, time.Duration) {}
func (NoopMetrics) RecordPoliticalLookup(string, bool)                {}
func (NoopMetrics) RecordCacheAccess(string, bool)                    {}
func (NoopMetrics) RecordStoreError(string)                           {}
