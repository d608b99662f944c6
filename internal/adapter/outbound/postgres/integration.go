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

// integrationAdapter implements outbound.IntegrationDatabasePort.
type integrationAdapter struct {
	db *gorm.DB
}

// NewIntegrationAdapter creates a new integration database adapter.
func NewIntegrationAdapter(db *gorm.DB) outbound.IntegrationDatabasePort {
	return &integrationAdapter{db: db}
}

func (a *integrationAdapter) Create(ctx context.Context, integration *model.Integration) error {
	if err := a.db.WithContext(ctx).Create(integration).Error; err != nil {
		return fmt.Errorf("create integration: %w", err)
	}
	return nil
}

func (a *integrationAdapter) FindByID(ctx context.Context, id uint) (*model.Integration, error) {
	var integration model.Integration
	err := a.db.WithContext(ctx).First(&integration, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find integration by id: %w", err)
	}
	return &integration, nil
}

func (a *integrationAdapter) FindByUser(ctx context.Context, userID uint) ([]*model.Integration, error) {
	var integrations []*model.Integration
	err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&integrations).Error
	if err != nil {
		return nil, fmt.Errorf("find integrations by user: %w", err)
	}
	return integrations, nil
}

func (a *integrationAdapter) UpdateStatus(ctx context.Context, id uint, status model.IntegrationStatus) error {
	err := a.db.WithContext(ctx).
		Model(&model.Integration{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("update integration status: %w", err)
	}
	return nil
}

func (a *integrationAdapter) TouchLastSync(ctx context.Context, id uint, at time.Time) error {
	err := a.db.WithContext(ctx).
		Model(&model.Integration{}).
		Where("id = ?", id).
		Update("last_sync_at", at).Error
	if err != nil {
		return fmt.Errorf("touch integration last sync: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.IntegrationDatabasePort = (*integrationAdapter)(nil)
