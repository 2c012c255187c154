package models

import (
	"time"

	"github.com/google/uuid"
)

// ==========================================
// PAYMENT MODEL
// ==========================================

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodUPI          PaymentMethod = "UPI"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodUPI:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// IsValid reports whether s is a known payment status.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// Payment is one settlement event for a tenant's period. Unlike unit records
// there is no uniqueness constraint: several payment rows may exist per
// (tenant, month, year); the composite index only serves period lookups.
type Payment struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID     `json:"tenantId" gorm:"type:uuid;not null;index:idx_payments_period"`
	Month         string        `json:"month" gorm:"type:varchar(20);not null;index:idx_payments_period"`
	Year          int           `json:"year" gorm:"not null;index:idx_payments_period"`
	Amount        float64       `json:"amount" gorm:"not null"`
	PaymentDate   time.Time     `json:"paymentDate" gorm:"not null"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"type:varchar(50);not null"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(20);not null;default:'Pending'"`
	Notes         string        `json:"notes,omitempty" gorm:"type:text"`

	// Non-owning reference; hydrated from the tenants table, nil for orphans.
	Tenant *TenantRef `json:"tenant" gorm:"-"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// ==========================================
// REQUEST TYPES
// ==========================================

type CreatePaymentRequest struct {
	TenantID      uuid.UUID     `json:"tenantId"`
	Month         string        `json:"month"`
	Year          int           `json:"year"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Notes         string        `json:"notes"`

	// IsUnitPayment marks the matching unit record paid as a second,
	// best-effort write after the payment row is inserted.
	IsUnitPayment bool `json:"isUnitPayment"`
}

// PaymentPatch lists the mutable payment fields: status and notes only.
type PaymentPatch struct {
	Status *PaymentStatus `json:"status,omitempty"`
	Notes  *string        `json:"notes,omitempty"`
}
