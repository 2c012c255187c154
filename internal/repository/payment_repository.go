package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rental-service/internal/models"
)

type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uuid.UUID) (*models.Payment, error)
	GetForPeriod(tenantID uuid.UUID, month string, year int) (*models.Payment, error)
	ListByTenant(tenantID uuid.UUID) ([]models.Payment, error)
	List() ([]models.Payment, error)
	Update(payment *models.Payment) error
	Delete(id uuid.UUID) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepository) GetByID(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetForPeriod returns the most recent payment for (tenant, month, year), or
// nil when none exists. The schema allows several payment rows per period, so
// the newest one is taken as the period's current settlement state.
func (r *paymentRepository) GetForPeriod(tenantID uuid.UUID, month string, year int) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("tenant_id = ? AND month = ? AND year = ?", tenantID, month, year).
		Order("created_at DESC").
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByTenant(tenantID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("year DESC").Order("month DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) List() ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

func (r *paymentRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Payment{}, "id = ?", id).Error
}
