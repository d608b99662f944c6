package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/outbound"
	"gorm.io/gorm"
)

// webhookLogAdapter implements outbound.WebhookLogDatabasePort.
type webhookLogAdapter struct {
	db *gorm.DB
}

// NewWebhookLogAdapter creates a new webhook log database adapter.
func NewWebhookLogAdapter(db *gorm.DB) outbound.WebhookLogDatabasePort {
	return &webhookLogAdapter{db: db}
}

func (a *webhookLogAdapter) Create(ctx context.Context, log *model.WebhookLog) error {
	if err := a.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("create webhook log: %w", err)
	}
	return nil
}

func (a *webhookLogAdapter) FindByID(ctx context.Context, id uint) (*model.WebhookLog, error) {
	var log model.WebhookLog
	err := a.db.WithContext(ctx).First(&log, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find webhook log by id: %w", err)
	}
	return &log, nil
}

func (a *webhookLogAdapter) FindByFilter(ctx context.Context, filter model.WebhookLogFilter) ([]*model.WebhookLog, error) {
	query := a.db.WithContext(ctx).Model(&model.WebhookLog{})
	if filter.IntegrationID != 0 {
		query = query.Where("integration_id = ?", filter.IntegrationID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var logs []*model.WebhookLog
	if err := query.Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("find webhook logs: %w", err)
	}
	return logs, nil
}

func (a *webhookLogAdapter) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := a.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&model.WebhookLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete webhook logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Compile-time check
var _ outbound.WebhookLogDatabasePort = (*webhookLogAdapter)(nil)
