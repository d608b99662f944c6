package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/outbound"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	defaultLogListLimit = 50
	maxLogListLimit     = 100
)

// AuditLog durably records every inbound webhook attempt.
type AuditLog interface {
	// Record appends one audit row. Failures are logged and returned but must
	// not change the response sent to the platform.
	Record(ctx context.Context, entry *model.WebhookLog) error

	// Get returns an audit row by ID.
	Get(ctx context.Context, id uint) (*model.WebhookLog, error)

	// List returns audit rows matching the filter, newest first.
	List(ctx context.Context, filter model.WebhookLogFilter) ([]*model.WebhookLog, error)

	// Purge deletes audit rows created before the given time.
	Purge(ctx context.Context, before time.Time) (int64, error)
}

type auditLog struct {
	db     outbound.WebhookLogDatabasePort
	logger *zap.Logger
}

// NewAuditLog creates an audit log backed by the webhook log store.
func NewAuditLog(db outbound.WebhookLogDatabasePort, logger *zap.Logger) AuditLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &auditLog{db: db, logger: logger.Named("webhook_audit")}
}

func (a *auditLog) Record(ctx context.Context, entry *model.WebhookLog) error {
	if entry.ProcessedAt == nil {
		now := time.Now()
		entry.ProcessedAt = &now
	}
	if entry.Payload == nil {
		entry.Payload = datatypes.JSON("null")
	}
	entry.RawEventType = columnText(entry.RawEventType, model.WebhookLogRawEventTypeMaxLen)
	entry.ErrorMessage = columnText(entry.ErrorMessage, 0)

	// The row must land even if the caller hung up.
	if err := a.db.Create(context.WithoutCancel(ctx), entry); err != nil {
		a.logger.Error("failed to record webhook log",
			zap.Uint("integration_id", entry.IntegrationID),
			zap.String("platform", string(entry.Platform)),
			zap.String("status", string(entry.Status)),
			zap.Error(err),
		)
		return fmt.Errorf("record webhook log: %w", err)
	}
	return nil
}

func (a *auditLog) Get(ctx context.Context, id uint) (*model.WebhookLog, error) {
	entry, err := a.db.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get webhook log: %w", err)
	}
	if entry == nil {
		return nil, ErrWebhookLogNotFound
	}
	return entry, nil
}

func (a *auditLog) List(ctx context.Context, filter model.WebhookLogFilter) ([]*model.WebhookLog, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultLogListLimit
	case filter.Limit > maxLogListLimit:
		filter.Limit = maxLogListLimit
	}
	logs, err := a.db.FindByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list webhook logs: %w", err)
	}
	return logs, nil
}

func (a *auditLog) Purge(ctx context.Context, before time.Time) (int64, error) {
	n, err := a.db.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("purge webhook logs: %w", err)
	}
	if n > 0 {
		a.logger.Info("purged webhook logs", zap.Int64("deleted", n), zap.Time("before", before))
	}
	return n, nil
}

// payloadJSON keeps the body verbatim when jsonb can hold it as is, otherwise
// stores it as a JSON string. Invalid UTF-8 and NUL are not representable in
// jsonb and are replaced.
func payloadJSON(body []byte) datatypes.JSON {
	if len(body) == 0 {
		return datatypes.JSON("null")
	}
	if utf8.Valid(body) && json.Valid(body) && !bytes.Contains(body, []byte(`\u0000`)) {
		return datatypes.JSON(append([]byte(nil), body...))
	}
	text := strings.ReplaceAll(strings.ToValidUTF8(string(body), "\uFFFD"), "\x00", "\uFFFD")
	quoted, err := json.Marshal(text)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(quoted)
}

// columnText makes s storable in a text column: valid UTF-8, no NUL, and at
// most limit characters when limit > 0.
func columnText(s string, limit int) string {
	s = strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// payloadBody reverses payloadJSON for replay.
func payloadBody(payload datatypes.JSON) []byte {
	if len(payload) > 0 && payload[0] == '"' {
		var s string
		if err := json.Unmarshal(payload, &s); err == nil {
			return []byte(s)
		}
	}
	return []byte(payload)
}
