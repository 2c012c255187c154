package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ==========================================
// UNIT RECORD (PERIOD USAGE) MODEL
// ==========================================

// Breakdown itemizes the charges of a billing period. The four components sum
// to the row's TotalAmount.
type Breakdown struct {
	ElectricityBill float64 `json:"electricityBill" gorm:"not null;default:0"`
	Maintenance     float64 `json:"maintenance" gorm:"not null;default:0"`
	WaterBill       float64 `json:"waterBill" gorm:"not null;default:0"`
	OtherCharges    float64 `json:"otherCharges" gorm:"not null;default:0"`
}

// Sum returns the ledger total of the breakdown.
func (b Breakdown) Sum() float64 {
	return b.ElectricityBill + b.Maintenance + b.WaterBill + b.OtherCharges
}

// UnitRecord is one metered-usage row per (tenant, month, year), enforced by a
// composite unique index. TotalAmount is derived from the breakdown and is
// recomputed on every save so it can never drift from the components.
type UnitRecord struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID `json:"tenantId" gorm:"type:uuid;not null;uniqueIndex:idx_unit_records_period"`
	Month       string    `json:"month" gorm:"type:varchar(20);not null;uniqueIndex:idx_unit_records_period"`
	Year        int       `json:"year" gorm:"not null;uniqueIndex:idx_unit_records_period"`
	Units       int       `json:"units" gorm:"not null"`
	Rate        float64   `json:"rate" gorm:"not null;default:0"`
	TotalAmount float64   `json:"totalAmount" gorm:"not null"`
	IsPaid      bool      `json:"isPaid" gorm:"not null;default:false"`
	Breakdown   Breakdown `json:"breakdown" gorm:"embedded;embeddedPrefix:breakdown_"`

	// Non-owning reference; hydrated from the tenants table, nil for orphans.
	Tenant *TenantRef `json:"tenant" gorm:"-"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName returns the table name for the UnitRecord model
func (UnitRecord) TableName() string {
	return "unit_records"
}

// RecomputeTotal re-derives TotalAmount from the breakdown components.
func (u *UnitRecord) RecomputeTotal() {
	u.TotalAmount = u.Breakdown.Sum()
}

// BeforeSave keeps the stored total consistent with the breakdown on every
// create and save path.
func (u *UnitRecord) BeforeSave(tx *gorm.DB) error {
	u.RecomputeTotal()
	return nil
}

// ==========================================
// REQUEST TYPES
// ==========================================

type CreateUnitRequest struct {
	TenantID     uuid.UUID `json:"tenantId"`
	Month        string    `json:"month"`
	Year         int       `json:"year"`
	Units        int       `json:"units"`
	Rate         float64   `json:"rate"`
	Maintenance  float64   `json:"maintenance"`
	WaterBill    float64   `json:"waterBill"`
	OtherCharges float64   `json:"otherCharges"`
}

// UnitPatch lists exactly the mutable unit-record fields. When units or rate is
// supplied, the electricity bill is recomputed once from the final values of
// both fields, so the result does not depend on field order within the patch.
type UnitPatch struct {
	Units        *int     `json:"units,omitempty"`
	Rate         *float64 `json:"rate,omitempty"`
	Maintenance  *float64 `json:"maintenance,omitempty"`
	WaterBill    *float64 `json:"waterBill,omitempty"`
	OtherCharges *float64 `json:"otherCharges,omitempty"`
	IsPaid       *bool    `json:"isPaid,omitempty"`
}
