package model

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookLogStatus represents the outcome recorded for an inbound webhook.
type WebhookLogStatus string

const (
	WebhookLogStatusPending    WebhookLogStatus = "PENDING"
	WebhookLogStatusProcessing WebhookLogStatus = "PROCESSING"
	WebhookLogStatusSuccess    WebhookLogStatus = "SUCCESS"
	WebhookLogStatusFailed     WebhookLogStatus = "FAILED"
	WebhookLogStatusIgnored    WebhookLogStatus = "IGNORED"
)

// FailureKind classifies why a webhook did not change the ledger.
type FailureKind string

const (
	FailureNone                FailureKind = ""
	FailureNotFound            FailureKind = "not_found"
	FailureUnsupportedPlatform FailureKind = "unsupported_platform"
	FailureAuthentication      FailureKind = "authentication"
	FailureExtraction          FailureKind = "extraction"
	FailureUnclassified        FailureKind = "unclassified"
	FailureInternal            FailureKind = "internal"
)

// WebhookLogRawEventTypeMaxLen is the width of the raw_event_type column.
const WebhookLogRawEventTypeMaxLen = 100

// WebhookLog is the append-only audit row written for every inbound webhook call.
type WebhookLog struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	IntegrationID uint             `json:"integration_id" gorm:"index:idx_webhook_logs_integration_created,priority:1"`
	Platform      Platform         `json:"platform" gorm:"type:varchar(20);not null"`
	EventType     EventType        `json:"event_type" gorm:"type:varchar(30);not null"`
	RawEventType  string           `json:"raw_event_type,omitempty" gorm:"type:varchar(100)"`
	Payload       datatypes.JSON   `json:"payload" gorm:"type:jsonb"`
	Status        WebhookLogStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	FailureKind   FailureKind      `json:"failure_kind,omitempty" gorm:"type:varchar(32)"`
	ErrorMessage  string           `json:"error_message,omitempty" gorm:"type:text"`
	ProcessedAt   *time.Time       `json:"processed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at" gorm:"index:idx_webhook_logs_integration_created,priority:2"`
}

// TableName returns the table name for WebhookLog.
func (WebhookLog) TableName() string {
	return "webhook_logs"
}

// Replayable reports whether the stored payload may be dispatched again.
func (l *WebhookLog) Replayable() bool {
	return l.FailureKind != FailureAuthentication && l.IntegrationID != 0
}

// WebhookLogFilter represents webhook log query filters.
type WebhookLogFilter struct {
	IntegrationID uint
	Status        *WebhookLogStatus
	Limit         int
}
