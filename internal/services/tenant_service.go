package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rental-service/internal/cache"
	"rental-service/internal/events"
	"rental-service/internal/models"
	"rental-service/internal/repository"
)

type TenantService interface {
	Register(req *models.CreateTenantRequest) (*models.Tenant, error)
	Get(id uuid.UUID) (*models.Tenant, error)
	List() ([]models.Tenant, error)
	Update(id uuid.UUID, patch *models.TenantPatch) (*models.Tenant, error)
	Delete(id uuid.UUID) error
}

type tenantService struct {
	tenantRepo   repository.TenantRepository
	billingCache *cache.BillingCache
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository, billingCache *cache.BillingCache) TenantService {
	return &tenantService{
		tenantRepo:   tenantRepo,
		billingCache: billingCache,
	}
}

// Register creates a tenant with rent derived from the portion policy table.
// The derived rent is stored; later portion changes do not re-derive it.
func (s *tenantService) Register(req *models.CreateTenantRequest) (*models.Tenant, error) {
	if req.Name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if req.Phone == "" {
		return nil, NewValidationError("phone", "phone is required")
	}
	if req.StartDate.IsZero() {
		return nil, NewValidationError("startDate", "start date is required")
	}
	if req.Members < 1 {
		return nil, NewValidationError("members", "members must be at least 1")
	}
	if req.Vehicles < 0 {
		return nil, NewValidationError("vehicles", "vehicles must not be negative")
	}
	if !req.Portion.IsValid() {
		return nil, NewValidationError("portion", "portion must be one of Front Portion, Back Portion, Roof Room")
	}

	tenant := &models.Tenant{
		ID:        uuid.New(),
		Name:      req.Name,
		Phone:     req.Phone,
		StartDate: req.StartDate,
		Members:   req.Members,
		Vehicles:  req.Vehicles,
		Portion:   req.Portion,
		IsActive:  true,
		Rent:      models.PortionRents[req.Portion],
	}

	if err := s.tenantRepo.Create(tenant); err != nil {
		return nil, err
	}

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishTenantCreated(context.Background(), tenant); err != nil {
			log.Printf("[WARN] failed to publish tenant created event: %v", err)
		}
	}

	return tenant, nil
}

func (s *tenantService) Get(id uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("tenant", id.String())
	}
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) List() ([]models.Tenant, error) {
	return s.tenantRepo.List()
}

// Update applies each supplied field verbatim. Rent is NOT re-derived when the
// portion changes; only an explicit rent field changes the stored rent.
func (s *tenantService) Update(id uuid.UUID, patch *models.TenantPatch) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("tenant", id.String())
	}
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, NewValidationError("name", "name must not be empty")
		}
		tenant.Name = *patch.Name
	}
	if patch.Phone != nil {
		if *patch.Phone == "" {
			return nil, NewValidationError("phone", "phone must not be empty")
		}
		tenant.Phone = *patch.Phone
	}
	if patch.StartDate != nil {
		if patch.StartDate.IsZero() {
			return nil, NewValidationError("startDate", "start date must not be empty")
		}
		tenant.StartDate = *patch.StartDate
	}
	if patch.Members != nil {
		if *patch.Members < 1 {
			return nil, NewValidationError("members", "members must be at least 1")
		}
		tenant.Members = *patch.Members
	}
	if patch.Vehicles != nil {
		if *patch.Vehicles < 0 {
			return nil, NewValidationError("vehicles", "vehicles must not be negative")
		}
		tenant.Vehicles = *patch.Vehicles
	}
	if patch.Portion != nil {
		if !patch.Portion.IsValid() {
			return nil, NewValidationError("portion", "portion must be one of Front Portion, Back Portion, Roof Room")
		}
		tenant.Portion = *patch.Portion
	}
	if patch.IsActive != nil {
		tenant.IsActive = *patch.IsActive
	}
	if patch.Rent != nil {
		if *patch.Rent < 0 {
			return nil, NewValidationError("rent", "rent must not be negative")
		}
		tenant.Rent = *patch.Rent
	}

	if err := s.tenantRepo.Update(tenant); err != nil {
		return nil, err
	}

	// Rent, members and portion feed settlement figures for every period.
	s.billingCache.InvalidateTenant(tenant.ID)

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishTenantUpdated(context.Background(), tenant); err != nil {
			log.Printf("[WARN] failed to publish tenant updated event: %v", err)
		}
	}

	return tenant, nil
}

// Delete removes the tenant row only; dependent unit records and payments are
// left in place and stay readable with a null tenant projection.
func (s *tenantService) Delete(id uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("tenant", id.String())
	}
	if err != nil {
		return err
	}

	if err := s.tenantRepo.Delete(id); err != nil {
		return err
	}

	s.billingCache.InvalidateTenant(id)

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishTenantDeleted(context.Background(), tenant); err != nil {
			log.Printf("[WARN] failed to publish tenant deleted event: %v", err)
		}
	}

	return nil
}
