package outbound

import (
	"context"
	"time"

	"github.com/synapse/server/internal/model"
)

// IntegrationDatabasePort defines integration persistence operations.
type IntegrationDatabasePort interface {
	// Create creates a new integration.
	Create(ctx context.Context, integration *model.Integration) error

	// FindByID finds an integration by ID. Returns nil when absent.
	FindByID(ctx context.Context, id uint) (*model.Integration, error)

	// FindByUser lists the integrations owned by a user.
	FindByUser(ctx context.Context, userID uint) ([]*model.Integration, error)

	// UpdateStatus sets the integration status.
	UpdateStatus(ctx context.Context, id uint, status model.IntegrationStatus) error

	// TouchLastSync records the time of the last applied webhook.
	TouchLastSync(ctx context.Context, id uint, at time.Time) error
}

// ProductDatabasePort defines product persistence operations.
type ProductDatabasePort interface {
	// FindByName finds a live product by exact name within a user's scope. Returns nil when absent.
	FindByName(ctx context.Context, userID uint, name string) (*model.Product, error)

	// CreateIfAbsent inserts the product unless a live product with the same
	// (user, name) already exists. Reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, product *model.Product) (bool, error)
}

// SaleDatabasePort defines sale persistence operations.
type SaleDatabasePort interface {
	// FindByPlatformSaleID finds a sale by its idempotency key. Returns nil when absent.
	FindByPlatformSaleID(ctx context.Context, integrationID uint, platformSaleID string) (*model.Sale, error)

	// CreateIfAbsent inserts the sale unless one already exists for
	// (integration, platform sale id). Reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, sale *model.Sale) (bool, error)

	// UpdateStatus moves a sale from one status to another.
	// Reports false when the sale was no longer in the expected status.
	UpdateStatus(ctx context.Context, id uint, from, to model.SaleStatus) (bool, error)

	// ListByIntegration lists the most recent sales of an integration.
	ListByIntegration(ctx context.Context, integrationID uint, limit int) ([]*model.Sale, error)

	// RevenueByIntegration sums confirmed sale amounts per currency.
	RevenueByIntegration(ctx context.Context, integrationID uint) ([]*model.RevenueSummary, error)
}

// WebhookLogDatabasePort defines webhook audit log persistence operations.
type WebhookLogDatabasePort interface {
	// Create appends an audit row.
	Create(ctx context.Context, log *model.WebhookLog) error

	// FindByID finds an audit row by ID. Returns nil when absent.
	FindByID(ctx context.Context, id uint) (*model.WebhookLog, error)

	// FindByFilter lists audit rows newest first.
	FindByFilter(ctx context.Context, filter model.WebhookLogFilter) ([]*model.WebhookLog, error)

	// DeleteOlderThan removes audit rows created before the given time.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
