package models

import "github.com/google/uuid"

// ==========================================
// SETTLEMENT (BILLING RECONCILIATION) VIEW
// ==========================================

// Billing constants. SettlementUnitRate is the fixed per-unit rate used for the
// headline settlement figure; it is deliberately independent of the per-row
// rate stored on unit records, which feeds the ledger total instead. The two
// totals are kept as separate named computations.
const (
	// SettlementUnitRate is the fixed display rate per consumed unit.
	SettlementUnitRate = 100.0

	// DefaultMaintenanceCharge applies when a period stores no maintenance
	// figure. Roof Room tenants are exempt from maintenance entirely.
	DefaultMaintenanceCharge = 500.0

	// WaterRatePerMember is the fallback monthly water charge per household
	// member when a period stores no water figure.
	WaterRatePerMember = 100.0
)

// Settlement is the derived, presentation-facing view of a tenant's period:
// the amount due including rent, and whether the period is settled.
type Settlement struct {
	TenantID uuid.UUID `json:"tenantId"`
	Month    string    `json:"month"`
	Year     int       `json:"year"`

	Units           int     `json:"units"`
	ElectricityBill float64 `json:"electricityBill"`
	Maintenance     float64 `json:"maintenance"`
	WaterBill       float64 `json:"waterBill"`
	OtherCharges    float64 `json:"otherCharges"`
	Rent            int     `json:"rent"`

	// Total is the settlement total: electricity at the fixed settlement rate
	// plus maintenance, water, other charges and rent.
	Total float64 `json:"total"`

	// LedgerTotal is the unit record's stored totalAmount (the sum of its
	// breakdown components), 0 when no usage has been recorded.
	LedgerTotal float64 `json:"ledgerTotal"`

	Paid bool `json:"paid"`
}
