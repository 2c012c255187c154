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

type UnitService interface {
	RecordUsage(req *models.CreateUnitRequest) (*models.UnitRecord, error)
	Get(id uuid.UUID) (*models.UnitRecord, error)
	GetForPeriod(tenantID uuid.UUID, month string, year int) (*models.UnitRecord, error)
	ListByTenant(tenantID uuid.UUID) ([]models.UnitRecord, error)
	List() ([]models.UnitRecord, error)
	UpdateUsage(id uuid.UUID, patch *models.UnitPatch) (*models.UnitRecord, error)
	Delete(id uuid.UUID) error
}

type unitService struct {
	unitRepo     repository.UnitRepository
	tenantRepo   repository.TenantRepository
	billingCache *cache.BillingCache
}

// NewUnitService creates a new unit record service
func NewUnitService(unitRepo repository.UnitRepository, tenantRepo repository.TenantRepository, billingCache *cache.BillingCache) UnitService {
	return &unitService{
		unitRepo:     unitRepo,
		tenantRepo:   tenantRepo,
		billingCache: billingCache,
	}
}

// RecordUsage creates the period's unit record with
// electricityBill = units x rate and the optional charges defaulting to 0.
// Exactly one record may exist per (tenant, month, year).
func (s *unitService) RecordUsage(req *models.CreateUnitRequest) (*models.UnitRecord, error) {
	if req.TenantID == uuid.Nil {
		return nil, NewValidationError("tenantId", "tenant id is required")
	}
	if req.Month == "" {
		return nil, NewValidationError("month", "month is required")
	}
	if req.Year == 0 {
		return nil, NewValidationError("year", "year is required")
	}
	if req.Units < 0 {
		return nil, NewValidationError("units", "units must not be negative")
	}
	if req.Rate < 0 {
		return nil, NewValidationError("rate", "rate must not be negative")
	}
	if req.Maintenance < 0 || req.WaterBill < 0 || req.OtherCharges < 0 {
		return nil, NewValidationError("breakdown", "charges must not be negative")
	}

	existing, err := s.unitRepo.GetForPeriod(req.TenantID, req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("unit record", "a record already exists for this tenant and period")
	}

	unit := &models.UnitRecord{
		ID:       uuid.New(),
		TenantID: req.TenantID,
		Month:    req.Month,
		Year:     req.Year,
		Units:    req.Units,
		Rate:     req.Rate,
		Breakdown: models.Breakdown{
			ElectricityBill: float64(req.Units) * req.Rate,
			Maintenance:     req.Maintenance,
			WaterBill:       req.WaterBill,
			OtherCharges:    req.OtherCharges,
		},
	}
	unit.RecomputeTotal()

	if err := s.unitRepo.Create(unit); err != nil {
		// Concurrent creates race against the unique index; exactly one wins.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError("unit record", "a record already exists for this tenant and period")
		}
		return nil, err
	}

	s.billingCache.Invalidate(unit.TenantID, unit.Month, unit.Year)

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishUsageRecorded(context.Background(), unit); err != nil {
			log.Printf("[WARN] failed to publish usage recorded event: %v", err)
		}
	}

	return unit, nil
}

func (s *unitService) Get(id uuid.UUID) (*models.UnitRecord, error) {
	unit, err := s.unitRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("unit record", id.String())
	}
	if err != nil {
		return nil, err
	}
	s.attachTenant(unit)
	return unit, nil
}

// GetForPeriod returns nil without error when no usage exists for the period;
// callers display "no usage yet" rather than failing.
func (s *unitService) GetForPeriod(tenantID uuid.UUID, month string, year int) (*models.UnitRecord, error) {
	unit, err := s.unitRepo.GetForPeriod(tenantID, month, year)
	if err != nil || unit == nil {
		return unit, err
	}
	s.attachTenant(unit)
	return unit, nil
}

func (s *unitService) ListByTenant(tenantID uuid.UUID) ([]models.UnitRecord, error) {
	return s.unitRepo.ListByTenant(tenantID)
}

func (s *unitService) List() ([]models.UnitRecord, error) {
	units, err := s.unitRepo.List()
	if err != nil {
		return nil, err
	}
	if err := s.hydrateTenants(units); err != nil {
		return nil, err
	}
	return units, nil
}

// UpdateUsage applies a typed partial update. When units or rate changes, the
// electricity bill is recomputed once from the final values of both fields;
// the stored total is then re-derived from the final breakdown.
func (s *unitService) UpdateUsage(id uuid.UUID, patch *models.UnitPatch) (*models.UnitRecord, error) {
	unit, err := s.unitRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("unit record", id.String())
	}
	if err != nil {
		return nil, err
	}

	if patch.Units != nil {
		if *patch.Units < 0 {
			return nil, NewValidationError("units", "units must not be negative")
		}
		unit.Units = *patch.Units
	}
	if patch.Rate != nil {
		if *patch.Rate < 0 {
			return nil, NewValidationError("rate", "rate must not be negative")
		}
		unit.Rate = *patch.Rate
	}
	if patch.Units != nil || patch.Rate != nil {
		unit.Breakdown.ElectricityBill = float64(unit.Units) * unit.Rate
	}
	if patch.Maintenance != nil {
		if *patch.Maintenance < 0 {
			return nil, NewValidationError("maintenance", "maintenance must not be negative")
		}
		unit.Breakdown.Maintenance = *patch.Maintenance
	}
	if patch.WaterBill != nil {
		if *patch.WaterBill < 0 {
			return nil, NewValidationError("waterBill", "water bill must not be negative")
		}
		unit.Breakdown.WaterBill = *patch.WaterBill
	}
	if patch.OtherCharges != nil {
		if *patch.OtherCharges < 0 {
			return nil, NewValidationError("otherCharges", "other charges must not be negative")
		}
		unit.Breakdown.OtherCharges = *patch.OtherCharges
	}
	if patch.IsPaid != nil {
		unit.IsPaid = *patch.IsPaid
	}

	unit.RecomputeTotal()

	if err := s.unitRepo.Update(unit); err != nil {
		return nil, err
	}

	s.billingCache.Invalidate(unit.TenantID, unit.Month, unit.Year)

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishUsageUpdated(context.Background(), unit); err != nil {
			log.Printf("[WARN] failed to publish usage updated event: %v", err)
		}
	}

	return unit, nil
}

func (s *unitService) Delete(id uuid.UUID) error {
	unit, err := s.unitRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("unit record", id.String())
	}
	if err != nil {
		return err
	}

	if err := s.unitRepo.Delete(id); err != nil {
		return err
	}

	s.billingCache.Invalidate(unit.TenantID, unit.Month, unit.Year)
	return nil
}

// attachTenant hydrates a single row's tenant projection. Orphan rows (tenant
// deleted) keep a nil projection instead of failing.
func (s *unitService) attachTenant(unit *models.UnitRecord) {
	tenants, err := s.tenantRepo.GetByIDs([]uuid.UUID{unit.TenantID})
	if err != nil {
		log.Printf("[WARN] failed to load tenant projection: %v", err)
		return
	}
	if t, ok := tenants[unit.TenantID]; ok {
		unit.Tenant = t.Ref()
	}
}

func (s *unitService) hydrateTenants(units []models.UnitRecord) error {
	if len(units) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(units))
	ids := make([]uuid.UUID, 0, len(units))
	for i := range units {
		if _, ok := seen[units[i].TenantID]; !ok {
			seen[units[i].TenantID] = struct{}{}
			ids = append(ids, units[i].TenantID)
		}
	}

	tenants, err := s.tenantRepo.GetByIDs(ids)
	if err != nil {
		return err
	}
	for i := range units {
		if t, ok := tenants[units[i].TenantID]; ok {
			units[i].Tenant = t.Ref()
		}
	}
	return nil
}
