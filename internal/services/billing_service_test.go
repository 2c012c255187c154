package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/models"
)

func TestComputeSettlement_DefaultsWhenNoUsageRecorded(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionFront, 4)

	settlement, err := env.billing.ComputeSettlement(tenant.ID, "March", 2025)
	require.NoError(t, err)

	assert.Equal(t, 0, settlement.Units)
	assert.Equal(t, 0.0, settlement.ElectricityBill)
	assert.Equal(t, models.DefaultMaintenanceCharge, settlement.Maintenance)
	assert.Equal(t, 4*models.WaterRatePerMember, settlement.WaterBill)
	assert.Equal(t, 10000, settlement.Rent)
	assert.Equal(t, 0.0+500+400+10000, settlement.Total)
	assert.Equal(t, 0.0, settlement.LedgerTotal)
	assert.False(t, settlement.Paid)
}

func TestComputeSettlement_ElectricityUsesFixedRateNotStoredRate(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionFront, 2)

	_, err := env.units.RecordUsage(&models.CreateUnitRequest{
		TenantID: tenant.ID,
		Month:    "March",
		Year:     2025,
		Units:    80,
		Rate:     10, // the ledger rate, not the settlement rate
	})
	require.NoError(t, err)

	settlement, err := env.billing.ComputeSettlement(tenant.ID, "March", 2025)
	require.NoError(t, err)

	assert.Equal(t, 80, settlement.Units)
	assert.Equal(t, 80*models.SettlementUnitRate, settlement.ElectricityBill)

	// The ledger total reflects the stored rate; the two figures stay distinct.
	assert.Equal(t, 800.0, settlement.LedgerTotal)
	assert.NotEqual(t, settlement.LedgerTotal, settlement.Total)
}

func TestComputeSettlement_StoredChargesOverrideDefaults(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionBack, 3)

	_, err := env.units.RecordUsage(&models.CreateUnitRequest{
		TenantID:     tenant.ID,
		Month:        "April",
		Year:         2025,
		Units:        50,
		Rate:         9,
		Maintenance:  750,
		WaterBill:    420,
		OtherCharges: 60,
	})
	require.NoError(t, err)

	settlement, err := env.billing.ComputeSettlement(tenant.ID, "April", 2025)
	require.NoError(t, err)

	assert.Equal(t, 750.0, settlement.Maintenance)
	assert.Equal(t, 420.0, settlement.WaterBill)
	assert.Equal(t, 60.0, settlement.OtherCharges)
	assert.Equal(t, 50*models.SettlementUnitRate+750+420+60+8000, settlement.Total)
}

func TestComputeSettlement_RoofRoomWaivesMaintenance(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionRoof, 1)

	// Even a stored maintenance figure is waived for Roof Room tenants.
	_, err := env.units.RecordUsage(&models.CreateUnitRequest{
		TenantID:    tenant.ID,
		Month:       "March",
		Year:        2025,
		Units:       30,
		Rate:        8,
		Maintenance: 500,
	})
	require.NoError(t, err)

	settlement, err := env.billing.ComputeSettlement(tenant.ID, "March", 2025)
	require.NoError(t, err)

	assert.Equal(t, 0.0, settlement.Maintenance)
	assert.Equal(t, 3000, settlement.Rent)
	assert.Equal(t, 30*models.SettlementUnitRate+0+1*models.WaterRatePerMember+3000, settlement.Total)
}

func TestComputeSettlement_PaidOnlyWhenCompleted(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionFront, 3)

	payment, err := env.payments.RecordPayment(&models.CreatePaymentRequest{
		TenantID:      tenant.ID,
		Month:         "March",
		Year:          2025,
		Amount:        11700,
		PaymentMethod: models.PaymentMethodUPI,
	})
	require.NoError(t, err)

	settlement, err := env.billing.ComputeSettlement(tenant.ID, "March", 2025)
	require.NoError(t, err)
	assert.False(t, settlement.Paid, "a pending payment does not settle the period")

	status := models.PaymentStatusCompleted
	_, err = env.payments.UpdatePayment(payment.ID, &models.PaymentPatch{Status: &status})
	require.NoError(t, err)

	settlement, err = env.billing.ComputeSettlement(tenant.ID, "March", 2025)
	require.NoError(t, err)
	assert.True(t, settlement.Paid)

	status = models.PaymentStatusFailed
	_, err = env.payments.UpdatePayment(payment.ID, &models.PaymentPatch{Status: &status})
	require.NoError(t, err)

	settlement, err = env.billing.ComputeSettlement(tenant.ID, "March", 2025)
	require.NoError(t, err)
	assert.False(t, settlement.Paid)
}

func TestComputeSettlement_ReflectsUsageUpdates(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionFront, 2)

	unit, err := env.units.RecordUsage(&models.CreateUnitRequest{
		TenantID: tenant.ID,
		Month:    "May",
		Year:     2025,
		Units:    40,
		Rate:     10,
	})
	require.NoError(t, err)

	settlement, err := env.billing.ComputeSettlement(tenant.ID, "May", 2025)
	require.NoError(t, err)
	require.Equal(t, 40, settlement.Units)

	// The cached settlement is invalidated by the usage update.
	units := 60
	_, err = env.units.UpdateUsage(unit.ID, &models.UnitPatch{Units: &units})
	require.NoError(t, err)

	settlement, err = env.billing.ComputeSettlement(tenant.ID, "May", 2025)
	require.NoError(t, err)
	assert.Equal(t, 60, settlement.Units)
	assert.Equal(t, 60*models.SettlementUnitRate, settlement.ElectricityBill)
}

func TestComputeSettlement_UnknownTenant(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.billing.ComputeSettlement(uuid.New(), "March", 2025)
	require.Error(t, err)
	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
}
