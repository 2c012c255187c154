package models

import (
	"time"

	"github.com/google/uuid"
)

// ==========================================
// PORTION / RENT POLICY
// ==========================================

// Portion identifies the rented unit type. Each portion carries a fixed base rent.
type Portion string

const (
	PortionFront Portion = "Front Portion"
	PortionBack  Portion = "Back Portion"
	PortionRoof  Portion = "Roof Room"
)

// PortionRents maps each portion to its monthly base rent. The rent is derived
// once at registration and stored on the tenant; it is not recomputed on read.
var PortionRents = map[Portion]int{
	PortionFront: 10000,
	PortionBack:  8000,
	PortionRoof:  3000,
}

// IsValid reports whether p is a known portion.
func (p Portion) IsValid() bool {
	_, ok := PortionRents[p]
	return ok
}

// ==========================================
// TENANT MODEL
// ==========================================

type Tenant struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Phone     string    `json:"phone" gorm:"type:varchar(50);not null"`
	StartDate time.Time `json:"startDate" gorm:"not null"`
	Members   int       `json:"members" gorm:"not null"`
	Vehicles  int       `json:"vehicles" gorm:"not null;default:0"`
	Portion   Portion   `json:"portion" gorm:"type:varchar(50);not null"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	Rent      int       `json:"rent" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantRef is the projection of a tenant attached to unit and payment rows.
// It is nil when the referenced tenant has been deleted; dependent rows are
// never cascaded and stay readable.
type TenantRef struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Portion Portion   `json:"portion"`
}

// Ref returns the list/detail projection of the tenant.
func (t *Tenant) Ref() *TenantRef {
	return &TenantRef{ID: t.ID, Name: t.Name, Portion: t.Portion}
}

// ==========================================
// REQUEST TYPES
// ==========================================

type CreateTenantRequest struct {
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	StartDate time.Time `json:"startDate"`
	Members   int       `json:"members"`
	Vehicles  int       `json:"vehicles"`
	Portion   Portion   `json:"portion"`
}

// TenantPatch lists exactly the mutable tenant fields. Unknown JSON fields are
// rejected at the transport layer instead of being merged blindly. Note that
// supplying a new portion does NOT re-derive rent; rent only changes when the
// patch sets it explicitly.
type TenantPatch struct {
	Name      *string    `json:"name,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	Members   *int       `json:"members,omitempty"`
	Vehicles  *int       `json:"vehicles,omitempty"`
	Portion   *Portion   `json:"portion,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
	Rent      *int       `json:"rent,omitempty"`
}
