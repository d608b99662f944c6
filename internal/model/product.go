package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductStatus represents the status of a product.
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// DefaultProductCurrency is assigned to products created from webhooks.
const DefaultProductCurrency = "BRL"

// Product is a sellable item scoped to a user.
// Name is unique per user among non-deleted rows.
type Product struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	UserID      uint                `json:"user_id" gorm:"not null;uniqueIndex:idx_products_user_name,where:deleted_at IS NULL"`
	Name        string              `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_products_user_name,where:deleted_at IS NULL"`
	Description string              `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.NullDecimal `json:"price,omitempty" gorm:"type:numeric(12,2)"`
	Currency    string              `json:"currency" gorm:"type:varchar(3);not null;default:BRL"`
	Category    string              `json:"category,omitempty" gorm:"type:varchar(100)"`
	Status      ProductStatus       `json:"status" gorm:"type:varchar(20);not null;default:draft"`
	Metadata    datatypes.JSON      `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `json:"-" gorm:"index"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

// NewWebhookProduct builds the minimal product created the first time a sale references it.
func NewWebhookProduct(userID uint, name string) *Product {
	return &Product{
		UserID:   userID,
		Name:     name,
		Currency: DefaultProductCurrency,
		Status:   ProductStatusDraft,
	}
}
