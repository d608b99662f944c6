package inbound

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/synapse/server/internal/model"
)

// IntegrationDomain defines the integration administration service interface.
type IntegrationDomain interface {
	Create(ctx context.Context, req *model.CreateIntegrationRequest) (*model.Integration, error)
	Get(ctx context.Context, id uint) (*model.Integration, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Integration, error)
	UpdateStatus(ctx context.Context, id uint, status model.IntegrationStatus) (*model.Integration, error)
}

// SalesQueryDomain defines read-side sales queries.
type SalesQueryDomain interface {
	Revenue(ctx context.Context, integrationID uint) ([]*model.RevenueSummary, error)
	ListSales(ctx context.Context, integrationID uint, limit int) ([]*model.Sale, error)
}

// IntegrationHttpPort defines integration admin HTTP handler interface.
type IntegrationHttpPort interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	ListByUser(c *gin.Context)
	UpdateStatus(c *gin.Context)
	Revenue(c *gin.Context)
	ListSales(c *gin.Context)
}
