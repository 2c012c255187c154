package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rental-service/internal/cache"
	"rental-service/internal/models"
	"rental-service/internal/repository"
)

type BillingService interface {
	ComputeSettlement(tenantID uuid.UUID, month string, year int) (*models.Settlement, error)
}

type billingService struct {
	tenantRepo   repository.TenantRepository
	unitRepo     repository.UnitRepository
	paymentRepo  repository.PaymentRepository
	billingCache *cache.BillingCache
}

// NewBillingService creates a new billing reconciliation service
func NewBillingService(tenantRepo repository.TenantRepository, unitRepo repository.UnitRepository, paymentRepo repository.PaymentRepository, billingCache *cache.BillingCache) BillingService {
	return &billingService{
		tenantRepo:   tenantRepo,
		unitRepo:     unitRepo,
		paymentRepo:  paymentRepo,
		billingCache: billingCache,
	}
}

// ComputeSettlement derives the period's amount due and settlement state.
//
// The settlement total prices electricity at the fixed SettlementUnitRate
// rather than the rate stored on the unit record; the record's stored
// totalAmount is surfaced separately as LedgerTotal. Maintenance is waived for
// Roof Room tenants regardless of the stored breakdown value, and maintenance
// and water fall back to their fixed defaults when the period stores none.
func (s *billingService) ComputeSettlement(tenantID uuid.UUID, month string, year int) (*models.Settlement, error) {
	if cached, ok := s.billingCache.Get(tenantID, month, year); ok {
		return cached, nil
	}

	tenant, err := s.tenantRepo.GetByID(tenantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("tenant", tenantID.String())
	}
	if err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.GetForPeriod(tenantID, month, year)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetForPeriod(tenantID, month, year)
	if err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		TenantID: tenantID,
		Month:    month,
		Year:     year,
		Rent:     tenant.Rent,
	}

	maintenance := models.DefaultMaintenanceCharge
	waterBill := float64(tenant.Members) * models.WaterRatePerMember

	if unit != nil {
		settlement.Units = unit.Units
		settlement.LedgerTotal = unit.TotalAmount
		settlement.OtherCharges = unit.Breakdown.OtherCharges
		if unit.Breakdown.Maintenance > 0 {
			maintenance = unit.Breakdown.Maintenance
		}
		if unit.Breakdown.WaterBill > 0 {
			waterBill = unit.Breakdown.WaterBill
		}
	}

	if tenant.Portion == models.PortionRoof {
		maintenance = 0
	}

	settlement.ElectricityBill = float64(settlement.Units) * models.SettlementUnitRate
	settlement.Maintenance = maintenance
	settlement.WaterBill = waterBill
	settlement.Total = settlement.ElectricityBill + settlement.Maintenance +
		settlement.WaterBill + float64(settlement.Rent) + settlement.OtherCharges

	settlement.Paid = payment != nil && payment.Status == models.PaymentStatusCompleted

	s.billingCache.Set(settlement)

	return settlement, nil
}
