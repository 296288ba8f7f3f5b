package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bell24h/supplierrisk/internal/domain/models"
)

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) GetSupplierByID(ctx context.Context, supplierID string) (*models.SupplierProfile, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupplierProfile), args.Error(1)
}

func (m *MockSupplierRepository) UpsertSupplier(ctx context.Context, profile *models.SupplierProfile) error {
	return m.Called(ctx, profile).Error(0)
}

type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) SaveAssessment(ctx context.Context, assessment *models.RiskAssessment) error {
	return m.Called(ctx, assessment).Error(0)
}

func (m *MockAssessmentRepository) ListBySupplier(ctx context.Context, supplierID string, limit int) ([]*models.RiskAssessment, error) {
	args := m.Called(ctx, supplierID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RiskAssessment), args.Error(1)
}

type MockSupplierCache struct {
	mock.Mock
}

func (m *MockSupplierCache) GetSupplier(ctx context.Context, supplierID string) (*models.SupplierProfile, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupplierProfile), args.Error(1)
}

func (m *MockSupplierCache) SetSupplier(ctx context.Context, profile *models.SupplierProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockSupplierCache) InvalidateSupplier(ctx context.Context, supplierID string) error {
	return m.Called(ctx, supplierID).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishRiskAssessed(ctx context.Context, event models.RiskAssessedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}
