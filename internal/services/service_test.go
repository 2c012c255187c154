package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rental-service/internal/cache"
	"rental-service/internal/models"
	"rental-service/internal/repository"
)

// testEnv wires the services against an in-memory sqlite database so tests
// exercise the real repository and hook behavior.
type testEnv struct {
	db *gorm.DB

	tenantRepo  repository.TenantRepository
	unitRepo    repository.UnitRepository
	paymentRepo repository.PaymentRepository

	tenants  TenantService
	units    UnitService
	payments PaymentService
	billing  BillingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see a different :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Tenant{}, &models.UnitRecord{}, &models.Payment{}))

	tenantRepo := repository.NewTenantRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	billingCache := cache.NewBillingCache(nil)

	return &testEnv{
		db:          db,
		tenantRepo:  tenantRepo,
		unitRepo:    unitRepo,
		paymentRepo: paymentRepo,
		tenants:     NewTenantService(tenantRepo, billingCache),
		units:       NewUnitService(unitRepo, tenantRepo, billingCache),
		payments:    NewPaymentService(paymentRepo, unitRepo, tenantRepo, billingCache),
		billing:     NewBillingService(tenantRepo, unitRepo, paymentRepo, billingCache),
	}
}

func (e *testEnv) registerTenant(t *testing.T, portion models.Portion, members int) *models.Tenant {
	t.Helper()

	tenant, err := e.tenants.Register(&models.CreateTenantRequest{
		Name:      "Test Tenant",
		Phone:     "9876543210",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Members:   members,
		Vehicles:  1,
		Portion:   portion,
	})
	require.NoError(t, err)
	return tenant
}
