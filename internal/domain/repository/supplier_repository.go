package repository

import (
	"context"

	"github.com/bell24h/supplierrisk/internal/domain/models"
)

// SupplierRepository is the supplier data provider consulted by assessments.
type SupplierRepository interface {
	// GetSupplierByID retrieves a supplier profile.
	// If the supplier is not found, it returns (nil, nil) so the service layer
	// can tell "not found" apart from a store failure.
	GetSupplierByID(ctx context.Context, supplierID string) (*models.SupplierProfile, error)

	// UpsertSupplier creates or replaces a supplier profile.
	UpsertSupplier(ctx context.Context, profile *models.SupplierProfile) error
}

// AssessmentRepository persists assessment snapshots.
type AssessmentRepository interface {
	// SaveAssessment stores a completed assessment.
	SaveAssessment(ctx context.Context, assessment *models.RiskAssessment) error

	// ListBySupplier returns up to limit assessments for a supplier, newest first.
	ListBySupplier(ctx context.Context, supplierID string, limit int) ([]*models.RiskAssessment, error)
}
