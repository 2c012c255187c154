package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/models"
)

func TestRecordUsage_ComputesElectricityAndTotal(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionFront, 3)

	unit, err := env.units.RecordUsage(&models.CreateUnitRequest{
		TenantID:     tenant.ID,
		Month:        "March",
		Year:         2025,
		Units:        80,
		Rate:         10,
		Maintenance:  500,
		WaterBill:    300,
		OtherCharges: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, 800.0, unit.Breakdown.ElectricityBill)
	assert.Equal(t, 800.0+500+300+120, unit.TotalAmount)
	assert.False(t, unit.IsPaid)
}

func TestRecordUsage_OptionalChargesDefaultToZero(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionBack, 2)

	unit, err := env.units.RecordUsage(&models.CreateUnitRequest{
		TenantID: tenant.ID,
		Month:    "April",
		Year:     2025,
		Units:    40,
		Rate:     9,
	})
	require.NoError(t, err)

	assert.Equal(t, 360.0, unit.Breakdown.ElectricityBill)
	assert.Equal(t, 0.0, unit.Breakdown.Maintenance)
	assert.Equal(t, 0.0, unit.Breakdown.WaterBill)
	assert.Equal(t, 0.0, unit.Breakdown.OtherCharges)
	assert.Equal(t, 360.0, unit.TotalAmount)
}

func TestRecordUsage_DuplicatePeriodConflicts(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionFront, 3)

	req := models.CreateUnitRequest{
		TenantID: tenant.ID,
		Month:    "March",
		Year:     2025,
		Units:    80,
		Rate:     10,
	}

	_, err := env.units.RecordUsage(&req)
	require.NoError(t, err)

	_, err = env.units.RecordUsage(&req)
	require.Error(t, err)
	_, ok := IsConflictError(err)
	assert.True(t, ok, "expected a conflict error, got %v", err)

	// Same month in a different year is a different period.
	req.Year = 2026
	_, err = env.units.RecordUsage(&req)
	assert.NoError(t, err)
}

func TestRecordUsage_Validation(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionFront, 3)

	valid := models.CreateUnitRequest{
		TenantID: tenant.ID,
		Month:    "March",
		Year:     2025,
		Units:    10,
		Rate:     5,
	}

	tests := []struct {
		name   string
		mutate func(r *models.CreateUnitRequest)
	}{
		{"missing tenant", func(r *models.CreateUnitRequest) { r.TenantID = uuid.Nil }},
		{"missing month", func(r *models.CreateUnitRequest) { r.Month = "" }},
		{"missing year", func(r *models.CreateUnitRequest) { r.Year = 0 }},
		{"negative units", func(r *models.CreateUnitRequest) { r.Units = -1 }},
		{"negative rate", func(r *models.CreateUnitRequest) { r.Rate = -0.5 }},
		{"negative charges", func(r *models.CreateUnitRequest) { r.WaterBill = -10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			_, err := env.units.RecordUsage(&req)
			require.Error(t, err)
			_, ok := IsValidationError(err)
			assert.True(t, ok, "expected a validation error, got %v", err)
		})
	}
}

func TestUpdateUsage_RecomputesElectricityFromFinalValues(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionFront, 3)

	unit, err := env.units.RecordUsage(&models.CreateUnitRequest{
		TenantID: tenant.ID,
		Month:    "March",
		Year:     2025,
		Units:    80,
		Rate:     10,
	})
	require.NoError(t, err)
	require.Equal(t, 800.0, unit.Breakdown.ElectricityBill)

	// Rate alone: recomputed against the stored units.
	rate := 12.0
	unit, err = env.units.UpdateUsage(unit.ID, &models.UnitPatch{Rate: &rate})
	require.NoError(t, err)
	assert.Equal(t, 960.0, unit.Breakdown.ElectricityBill)
	assert.Equal(t, 960.0, unit.TotalAmount)

	// Units alone: recomputed against the stored rate.
	units := 100
	unit, err = env.units.UpdateUsage(unit.ID, &models.UnitPatch{Units: &units})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, unit.Breakdown.ElectricityBill)

	// Both in one patch: exactly one recomputation from the final pair.
	units, rate = 50, 8.0
	unit, err = env.units.UpdateUsage(unit.ID, &models.UnitPatch{Units: &units, Rate: &rate})
	require.NoError(t, err)
	assert.Equal(t, 400.0, unit.Breakdown.ElectricityBill)
	assert.Equal(t, 400.0, unit.TotalAmount)
}

func TestUpdateUsage_TotalTracksBreakdown(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionFront, 3)

	unit, err := env.units.RecordUsage(&models.CreateUnitRequest{
		TenantID: tenant.ID,
		Month:    "May",
		Year:     2025,
		Units:    20,
		Rate:     10,
	})
	require.NoError(t, err)

	maintenance := 700.0
	water := 250.0
	unit, err = env.units.UpdateUsage(unit.ID, &models.UnitPatch{
		Maintenance: &maintenance,
		WaterBill:   &water,
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0+700+250, unit.TotalAmount)

	stored, err := env.units.Get(unit.ID)
	require.NoError(t, err)
	assert.Equal(t, unit.TotalAmount, stored.TotalAmount)
}

func TestUpdateUsage_NotFound(t *testing.T) {
	env := newTestEnv(t)

	units := 10
	_, err := env.units.UpdateUsage(uuid.New(), &models.UnitPatch{Units: &units})
	require.Error(t, err)
	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
}

func TestGetUsageForPeriod_AbsenceIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.registerTenant(t, models.PortionFront, 3)

	unit, err := env.units.GetForPeriod(tenant.ID, "December", 2025)
	require.NoError(t, err)
	assert.Nil(t, unit)
}

func TestListUsage_HydratesTenantProjections(t *testing.T) {
	env := newTestEnv(t)
	kept := env.registerTenant(t, models.PortionFront, 3)
	removed := env.registerTenant(t, models.PortionRoof, 1)

	_, err := env.units.RecordUsage(&models.CreateUnitRequest{
		TenantID: kept.ID, Month: "March", Year: 2025, Units: 10, Rate: 5,
	})
	require.NoError(t, err)
	_, err = env.units.RecordUsage(&models.CreateUnitRequest{
		TenantID: removed.ID, Month: "March", Year: 2025, Units: 20, Rate: 5,
	})
	require.NoError(t, err)

	require.NoError(t, env.tenants.Delete(removed.ID))

	units, err := env.units.List()
	require.NoError(t, err)
	require.Len(t, units, 2)

	byTenant := make(map[uuid.UUID]*models.TenantRef, len(units))
	for i := range units {
		byTenant[units[i].TenantID] = units[i].Tenant
	}

	require.NotNil(t, byTenant[kept.ID])
	assert.Equal(t, kept.Name, byTenant[kept.ID].Name)
	assert.Equal(t, kept.Portion, byTenant[kept.ID].Portion)
	assert.Nil(t, byTenant[removed.ID], "orphan rows keep a nil tenant projection")
}
