package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rental-service/internal/cache"
	"rental-service/internal/events"
	"rental-service/internal/models"
	"rental-service/internal/repository"
)

type PaymentService interface {
	RecordPayment(req *models.CreatePaymentRequest) (*models.Payment, error)
	Get(id uuid.UUID) (*models.Payment, error)
	GetForPeriod(tenantID uuid.UUID, month string, year int) (*models.Payment, error)
	ListByTenant(tenantID uuid.UUID) ([]models.Payment, error)
	List() ([]models.Payment, error)
	UpdatePayment(id uuid.UUID, patch *models.PaymentPatch) (*models.Payment, error)
	Delete(id uuid.UUID) error
}

type paymentService struct {
	paymentRepo  repository.PaymentRepository
	unitRepo     repository.UnitRepository
	tenantRepo   repository.TenantRepository
	billingCache *cache.BillingCache
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repository.PaymentRepository, unitRepo repository.UnitRepository, tenantRepo repository.TenantRepository, billingCache *cache.BillingCache) PaymentService {
	return &paymentService{
		paymentRepo:  paymentRepo,
		unitRepo:     unitRepo,
		tenantRepo:   tenantRepo,
		billingCache: billingCache,
	}
}

// RecordPayment inserts the payment row, then — for unit payments — flips the
// period's unit record to paid as a second sequential write. The two writes
// are not wrapped in a transaction: a failure between them leaves the payment
// recorded and the usage row unmarked, which is the accepted consistency gap.
func (s *paymentService) RecordPayment(req *models.CreatePaymentRequest) (*models.Payment, error) {
	if req.TenantID == uuid.Nil {
		return nil, NewValidationError("tenantId", "tenant id is required")
	}
	if req.Month == "" {
		return nil, NewValidationError("month", "month is required")
	}
	if req.Year == 0 {
		return nil, NewValidationError("year", "year is required")
	}
	if req.Amount < 0 {
		return nil, NewValidationError("amount", "amount must not be negative")
	}
	if !req.PaymentMethod.IsValid() {
		return nil, NewValidationError("paymentMethod", "payment method must be one of Cash, Bank Transfer, UPI")
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		TenantID:      req.TenantID,
		Month:         req.Month,
		Year:          req.Year,
		Amount:        req.Amount,
		PaymentDate:   time.Now().UTC(),
		PaymentMethod: req.PaymentMethod,
		Status:        models.PaymentStatusPending,
		Notes:         req.Notes,
	}

	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	if req.IsUnitPayment {
		rows, err := s.unitRepo.MarkPaid(req.TenantID, req.Month, req.Year)
		if err != nil {
			log.Printf("[WARN] payment %s recorded but unit record not marked paid: %v", payment.ID, err)
		} else if rows == 0 {
			log.Printf("[WARN] payment %s recorded but no unit record exists for %s %d", payment.ID, req.Month, req.Year)
		}
	}

	s.billingCache.Invalidate(payment.TenantID, payment.Month, payment.Year)

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishPaymentRecorded(context.Background(), payment); err != nil {
			log.Printf("[WARN] failed to publish payment recorded event: %v", err)
		}
	}

	return payment, nil
}

func (s *paymentService) Get(id uuid.UUID) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("payment", id.String())
	}
	if err != nil {
		return nil, err
	}
	s.attachTenant(payment)
	return payment, nil
}

func (s *paymentService) GetForPeriod(tenantID uuid.UUID, month string, year int) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetForPeriod(tenantID, month, year)
	if err != nil || payment == nil {
		return payment, err
	}
	s.attachTenant(payment)
	return payment, nil
}

func (s *paymentService) ListByTenant(tenantID uuid.UUID) ([]models.Payment, error) {
	return s.paymentRepo.ListByTenant(tenantID)
}

func (s *paymentService) List() ([]models.Payment, error) {
	payments, err := s.paymentRepo.List()
	if err != nil {
		return nil, err
	}
	if err := s.hydrateTenants(payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// UpdatePayment mutates only status and notes.
func (s *paymentService) UpdatePayment(id uuid.UUID, patch *models.PaymentPatch) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("payment", id.String())
	}
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, NewValidationError("status", "status must be one of Pending, Completed, Failed")
		}
		payment.Status = *patch.Status
	}
	if patch.Notes != nil {
		payment.Notes = *patch.Notes
	}

	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}

	s.billingCache.Invalidate(payment.TenantID, payment.Month, payment.Year)

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishPaymentStatusUpdated(context.Background(), payment); err != nil {
			log.Printf("[WARN] failed to publish payment status event: %v", err)
		}
	}

	return payment, nil
}

func (s *paymentService) Delete(id uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("payment", id.String())
	}
	if err != nil {
		return err
	}

	if err := s.paymentRepo.Delete(id); err != nil {
		return err
	}

	s.billingCache.Invalidate(payment.TenantID, payment.Month, payment.Year)
	return nil
}

func (s *paymentService) attachTenant(payment *models.Payment) {
	tenants, err := s.tenantRepo.GetByIDs([]uuid.UUID{payment.TenantID})
	if err != nil {
		log.Printf("[WARN] failed to load tenant projection: %v", err)
		return
	}
	if t, ok := tenants[payment.TenantID]; ok {
		payment.Tenant = t.Ref()
	}
}

func (s *paymentService) hydrateTenants(payments []models.Payment) error {
	if len(payments) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(payments))
	ids := make([]uuid.UUID, 0, len(payments))
	for i := range payments {
		if _, ok := seen[payments[i].TenantID]; !ok {
			seen[payments[i].TenantID] = struct{}{}
			ids = append(ids, payments[i].TenantID)
		}
	}

	tenants, err := s.tenantRepo.GetByIDs(ids)
	if err != nil {
		return err
	}
	for i := range payments {
		if t, ok := tenants[payments[i].TenantID]; ok {
			payments[i].Tenant = t.Ref()
		}
	}
	return nil
}
