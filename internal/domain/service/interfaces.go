package service

import (
	"context"

	"github.com/bell24h/supplierrisk/internal/domain/models"
)

// PoliticalRiskProvider resolves the political risk (0 = stable, 100 = unstable) of a location.
// Implementations may call external feeds; callers bound every call with a deadline.
// PoliticalRiskProvider 解析某个地点的政治风险（0 = 稳定，100 = 不稳定）。
type PoliticalRiskProvider interface {
	PoliticalRisk(ctx context.Context, location string) (float64, error)
}

// EventPublisher emits domain events to downstream consumers.
// EventPublisher 将领域事件发送给下游消费者。
type EventPublisher interface {
	// PublishRiskAssessed announces a completed supplier assessment.
	// PublishRiskAssessed 发布已完成的供应商风险评估。
	PublishRiskAssessed(ctx context.Context, event models.RiskAssessedEvent) error

	// Close releases the underlying transport.
	Close() error
}

// SupplierCache stores supplier profiles in front of the supplier store.
// A miss is reported as (nil, nil).
// SupplierCache 在供应商存储之前缓存供应商档案。未命中时返回 (nil, nil)。
type SupplierCache interface {
	GetSupplier(ctx context.Context, supplierID string) (*models.SupplierProfile, error)
	SetSupplier(ctx context.Context, profile *models.SupplierProfile) error
	InvalidateSupplier(ctx context.Context, supplierID string) error
}
