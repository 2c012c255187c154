package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rental-service/internal/models"
)

type UnitRepository interface {
	Create(unit *models.UnitRecord) error
	GetByID(id uuid.UUID) (*models.UnitRecord, error)
	GetForPeriod(tenantID uuid.UUID, month string, year int) (*models.UnitRecord, error)
	ListByTenant(tenantID uuid.UUID) ([]models.UnitRecord, error)
	List() ([]models.UnitRecord, error)
	Update(unit *models.UnitRecord) error
	MarkPaid(tenantID uuid.UUID, month string, year int) (int64, error)
	Delete(id uuid.UUID) error
}

type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit record repository
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) Create(unit *models.UnitRecord) error {
	return r.db.Create(unit).Error
}

func (r *unitRepository) GetByID(id uuid.UUID) (*models.UnitRecord, error) {
	var unit models.UnitRecord
	err := r.db.First(&unit, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// GetForPeriod returns the unit record for (tenant, month, year), or nil when
// no usage has been recorded yet. Absence is a valid state, not an error.
func (r *unitRepository) GetForPeriod(tenantID uuid.UUID, month string, year int) (*models.UnitRecord, error) {
	var unit models.UnitRecord
	err := r.db.Where("tenant_id = ? AND month = ? AND year = ?", tenantID, month, year).
		First(&unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// ListByTenant orders by year then month descending. Month is a string name,
// so the month ordering is lexical, not calendar.
func (r *unitRepository) ListByTenant(tenantID uuid.UUID) ([]models.UnitRecord, error) {
	var units []models.UnitRecord
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("year DESC").Order("month DESC").
		Find(&units).Error
	return units, err
}

func (r *unitRepository) List() ([]models.UnitRecord, error) {
	var units []models.UnitRecord
	err := r.db.Order("created_at DESC").Find(&units).Error
	return units, err
}

func (r *unitRepository) Update(unit *models.UnitRecord) error {
	return r.db.Save(unit).Error
}

// MarkPaid flips is_paid on the period's unit record. Returns the number of
// rows touched; 0 means no usage row exists for the period.
func (r *unitRepository) MarkPaid(tenantID uuid.UUID, month string, year int) (int64, error) {
	result := r.db.Model(&models.UnitRecord{}).
		Where("tenant_id = ? AND month = ? AND year = ?", tenantID, month, year).
		Update("is_paid", true)
	return result.RowsAffected, result.Error
}

func (r *unitRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.UnitRecord{}, "id = ?", id).Error
}
