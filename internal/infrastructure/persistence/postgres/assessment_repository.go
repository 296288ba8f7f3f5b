package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/internal/domain/repository"
	"github.com/bell24h/supplierrisk/pkg/constants"
)

// assessmentDBM is the database model for the risk_assessments table.
type assessmentDBM struct {
	ID              string `gorm:"primaryKey;size:64"`
	SupplierID      string `gorm:"size:128;index:idx_assessment_supplier_time,priority:1"`
	Score           float64
	RiskLevel       string              `gorm:"size:16"`
	Factors         []models.RiskFactor `gorm:"type:jsonb;serializer:json"`
	Recommendations []string            `gorm:"type:jsonb;serializer:json"`
	AssessedAt      time.Time           `gorm:"index:idx_assessment_supplier_time,priority:2"`
}

func (assessmentDBM) TableName() string {
	return "risk_assessments"
}

func (dbm *assessmentDBM) toDomain() *models.RiskAssessment {
	factors := make([]models.RiskFactor, len(dbm.Factors))
	copy(factors, dbm.Factors)
	// Kind is not serialised; restore it from the factor name
	for i := range factors {
		for _, kind := range models.AllFactorKinds {
			if kind.String() == factors[i].Name {
				factors[i].Kind = kind
			}
		}
	}
	return &models.RiskAssessment{
		ID: dbm.ID,
		RiskScore: models.RiskScore{
			SupplierID:      dbm.SupplierID,
			Score:           dbm.Score,
			RiskLevel:       models.RiskLevel(dbm.RiskLevel),
			Factors:         factors,
			Recommendations: dbm.Recommendations,
			Timestamp:       dbm.AssessedAt,
		},
	}
}

func assessmentFromDomain(a *models.RiskAssessment) *assessmentDBM {
	return &assessmentDBM{
		ID:              a.ID,
		SupplierID:      a.SupplierID,
		Score:           a.Score,
		RiskLevel:       string(a.RiskLevel),
		Factors:         a.Factors,
		Recommendations: a.Recommendations,
		AssessedAt:      a.Timestamp,
	}
}

// AssessmentRepository is the gorm implementation of repository.AssessmentRepository.
type AssessmentRepository struct {
	db *gorm.DB
}

var _ repository.AssessmentRepository = (*AssessmentRepository)(nil)

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (r *AssessmentRepository) SaveAssessment(ctx context.Context, assessment *models.RiskAssessment) error {
	return r.db.WithContext(ctx).Create(assessmentFromDomain(assessment)).Error
}

// ListBySupplier returns the newest assessments first. limit is clamped to
// [1, MaxAssessmentPageSize]; zero selects the default page size.
func (r *AssessmentRepository) ListBySupplier(ctx context.Context, supplierID string, limit int) ([]*models.RiskAssessment, error) {
	switch {
	case limit <= 0:
		limit = constants.DefaultAssessmentPageSize
	case limit > constants.MaxAssessmentPageSize:
		limit = constants.MaxAssessmentPageSize
	}

	var rows []assessmentDBM
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("assessed_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*models.RiskAssessment, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
