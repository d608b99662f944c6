package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale.
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDING"
	SaleStatusConfirmed SaleStatus = "CONFIRMED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
	SaleStatusRefunded  SaleStatus = "REFUNDED"
)

// IsTerminal returns true if the status is a terminal state.
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusCancelled || s == SaleStatusRefunded
}

// CanTransitionTo returns true if the status can transition to the target status.
// Re-applying the current status is not a transition.
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusPending:
		return target == SaleStatusConfirmed || target == SaleStatusCancelled
	case SaleStatusConfirmed:
		return target == SaleStatusRefunded || target == SaleStatusCancelled
	default:
		return false
	}
}

// Sale is the canonical ledger entry for one platform transaction.
type Sale struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	ProductID      uint            `json:"product_id" gorm:"not null;index"`
	IntegrationID  uint            `json:"integration_id" gorm:"not null;uniqueIndex:idx_sales_integration_platform_sale"`
	PlatformSaleID string          `json:"platform_sale_id" gorm:"type:varchar(255);not null;uniqueIndex:idx_sales_integration_platform_sale"`
	Status         SaleStatus      `json:"status" gorm:"type:varchar(20);not null;index"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	Currency       string          `json:"currency" gorm:"type:varchar(3);not null"`
	CustomerName   string          `json:"customer_name,omitempty" gorm:"type:varchar(255)"`
	CustomerEmail  string          `json:"customer_email,omitempty" gorm:"type:varchar(255)"`
	SaleDate       time.Time       `json:"sale_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for Sale.
func (Sale) TableName() string {
	return "sales"
}

// SaleFact is the canonical output of a platform adapter.
// It is consumed once by the ledger and never persisted.
type SaleFact struct {
	PlatformSaleID string
	EventType      EventType
	Amount         decimal.Decimal
	Currency       string
	CustomerName   string
	CustomerEmail  string
	SaleDate       time.Time
	ProductName    string

	// InitialStatus replaces CONFIRMED as the status a paid event drives a sale towards.
	InitialStatus SaleStatus
}

// RevenueSummary is the confirmed revenue of an integration in one currency.
type RevenueSummary struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}
