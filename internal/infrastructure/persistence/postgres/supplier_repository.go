package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/internal/domain/repository"
)

// supplierDBM is the database model for the suppliers table. The full profile is kept
// as a JSON document; name and location are denormalised for querying.
type supplierDBM struct {
	ID        string                 `gorm:"primaryKey;size:128"`
	Name      string                 `gorm:"size:255"`
	Location  string                 `gorm:"size:255;index"`
	Profile   models.SupplierProfile `gorm:"type:jsonb;serializer:json"`
	UpdatedAt time.Time
}

func (supplierDBM) TableName() string {
	return "suppliers"
}

func (dbm *supplierDBM) toDomain() *models.SupplierProfile {
	p := dbm.Profile
	p.ID = dbm.ID
	p.UpdatedAt = dbm.UpdatedAt
	return &p
}

func supplierFromDomain(p *models.SupplierProfile) *supplierDBM {
	return &supplierDBM{
		ID:        p.ID,
		Name:      p.Name,
		Location:  p.Location,
		Profile:   *p,
		UpdatedAt: p.UpdatedAt,
	}
}

// SupplierRepository is the gorm implementation of repository.SupplierRepository.
type SupplierRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ repository.SupplierRepository = (*SupplierRepository)(nil)

// NewSupplierRepository creates a new SupplierRepository.
func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// GetSupplierByID returns (nil, nil) when the supplier does not exist.
func (r *SupplierRepository) GetSupplierByID(ctx context.Context, supplierID string) (*models.SupplierProfile, error) {
	var dbm supplierDBM
	if err := r.db.WithContext(ctx).Where("id = ?", supplierID).First(&dbm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return dbm.toDomain(), nil
}

// UpsertSupplier creates or replaces a supplier profile and stamps UpdatedAt.
func (r *SupplierRepository) UpsertSupplier(ctx context.Context, profile *models.SupplierProfile) error {
	profile.UpdatedAt = r.now()
	dbm := supplierFromDomain(profile)

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "location", "profile", "updated_at"}),
	}).Create(dbm).Error
}
