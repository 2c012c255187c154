package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"rental-service/internal/models"
)

type TenantRepository interface {
	Create(tenant *models.Tenant) error
	GetByID(id uuid.UUID) (*models.Tenant, error)
	GetByIDs(ids []uuid.UUID) (map[uuid.UUID]models.Tenant, error)
	List() ([]models.Tenant, error)
	Update(tenant *models.Tenant) error
	Delete(id uuid.UUID) error
}

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(tenant *models.Tenant) error {
	return r.db.Create(tenant).Error
}

func (r *tenantRepository) GetByID(id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.First(&tenant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetByIDs batch-loads tenants for projection hydration. Missing ids are
// simply absent from the result map; callers treat that as an orphan row.
func (r *tenantRepository) GetByIDs(ids []uuid.UUID) (map[uuid.UUID]models.Tenant, error) {
	result := make(map[uuid.UUID]models.Tenant, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var tenants []models.Tenant
	if err := r.db.Where("id IN ?", ids).Find(&tenants).Error; err != nil {
		return nil, err
	}
	for _, t := range tenants {
		result[t.ID] = t
	}
	return result, nil
}

func (r *tenantRepository) List() ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.Order("created_at DESC").Find(&tenants).Error
	return tenants, err
}

func (r *tenantRepository) Update(tenant *models.Tenant) error {
	return r.db.Save(tenant).Error
}

// Delete removes only the tenant row. Dependent unit records and payments are
// never cascaded; they stay queryable with a null tenant projection.
func (r *tenantRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Tenant{}, "id = ?", id).Error
}
