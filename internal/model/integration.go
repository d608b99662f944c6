package model

import (
	"time"
)

// IntegrationStatus represents the status of an integration.
type IntegrationStatus string

const (
	IntegrationStatusActive   IntegrationStatus = "active"
	IntegrationStatusInactive IntegrationStatus = "inactive"
	IntegrationStatusError    IntegrationStatus = "error"
)

// IsValid returns true if the status is a known integration status.
func (s IntegrationStatus) IsValid() bool {
	return s == IntegrationStatusActive || s == IntegrationStatusInactive || s == IntegrationStatusError
}

// Integration binds a user to a platform account and its shared secret.
type Integration struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	UserID     uint              `json:"user_id" gorm:"not null;index"`
	Platform   Platform          `json:"platform" gorm:"type:varchar(20);not null"`
	Secret     string            `json:"-" gorm:"column:api_key;not null;default:''"`
	Status     IntegrationStatus `json:"status" gorm:"type:varchar(20);not null;default:active"`
	LastSyncAt *time.Time        `json:"last_sync_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// TableName returns the table name for Integration.
func (Integration) TableName() string {
	return "integrations"
}

// HasSecret reports whether a shared secret is configured.
func (i *Integration) HasSecret() bool {
	return i.Secret != ""
}

// CreateIntegrationRequest represents a request to register an integration.
type CreateIntegrationRequest struct {
	UserID   uint   `json:"user_id" binding:"required,gt=0"`
	Platform string `json:"platform" binding:"required,oneof=KIWIFY EDUZZ HOTMART kiwify eduzz hotmart"`
	Secret   string `json:"secret"`
}

// UpdateIntegrationStatusRequest represents a request to change an integration status.
type UpdateIntegrationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive error"`
}
