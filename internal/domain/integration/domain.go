package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/inbound"
	"github.com/synapse/server/internal/port/outbound"
	"go.uber.org/zap"
)

var (
	// ErrIntegrationNotFound indicates the integration does not exist.
	ErrIntegrationNotFound = errors.New("integration not found")

	// ErrInvalidPlatform indicates an unsupported platform name.
	ErrInvalidPlatform = errors.New("invalid platform")

	// ErrInvalidStatus indicates an unknown integration status.
	ErrInvalidStatus = errors.New("invalid integration status")

	// ErrIntegrationExists indicates the user already has an integration for the platform.
	ErrIntegrationExists = errors.New("integration already exists")
)

// integrationDomain implements inbound.IntegrationDomain.
type integrationDomain struct {
	db     outbound.IntegrationDatabasePort
	logger *zap.Logger

	// createMu serializes the existence check with the insert.
	createMu sync.Mutex
}

// NewIntegrationDomain creates a new integration domain service.
func NewIntegrationDomain(db outbound.IntegrationDatabasePort, logger *zap.Logger) inbound.IntegrationDomain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &integrationDomain{db: db, logger: logger.Named("integration")}
}

func (d *integrationDomain) Create(ctx context.Context, req *model.CreateIntegrationRequest) (*model.Integration, error) {
	platform, ok := model.ParsePlatform(req.Platform)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPlatform, req.Platform)
	}

	d.createMu.Lock()
	defer d.createMu.Unlock()

	existing, err := d.db.FindByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("list user integrations: %w", err)
	}
	for _, other := range existing {
		if other.Platform == platform {
			return nil, fmt.Errorf("%w: user %d on %s (id %d)", ErrIntegrationExists, req.UserID, platform, other.ID)
		}
	}

	integration := &model.Integration{
		UserID:   req.UserID,
		Platform: platform,
		Secret:   strings.TrimSpace(req.Secret),
		Status:   model.IntegrationStatusActive,
	}
	if err := d.db.Create(ctx, integration); err != nil {
		return nil, fmt.Errorf("create integration: %w", err)
	}

	d.logger.Info("integration created",
		zap.Uint("integration_id", integration.ID),
		zap.Uint("user_id", integration.UserID),
		zap.String("platform", string(platform)),
		zap.Bool("has_secret", integration.HasSecret()),
	)
	return integration, nil
}

func (d *integrationDomain) Get(ctx context.Context, id uint) (*model.Integration, error) {
	integration, err := d.db.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get integration: %w", err)
	}
	if integration == nil {
		return nil, ErrIntegrationNotFound
	}
	return integration, nil
}

func (d *integrationDomain) ListByUser(ctx context.Context, userID uint) ([]*model.Integration, error) {
	integrations, err := d.db.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}
	return integrations, nil
}

func (d *integrationDomain) UpdateStatus(ctx context.Context, id uint, status model.IntegrationStatus) (*model.Integration, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	integration, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if integration.Status == status {
		return integration, nil
	}
	if err := d.db.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update integration status: %w", err)
	}

	d.logger.Info("integration status changed",
		zap.Uint("integration_id", id),
		zap.String("from", string(integration.Status)),
		zap.String("to", string(status)),
	)
	integration.Status = status
	return integration, nil
}
