package sales

import (
	"context"
	"fmt"

	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/inbound"
	"github.com/synapse/server/internal/port/outbound"
)

const (
	defaultSalesLimit = 50
	maxSalesLimit     = 200
)

type salesQuery struct {
	sales outbound.SaleDatabasePort
}

// NewSalesQuery creates the read-side sales service.
func NewSalesQuery(sales outbound.SaleDatabasePort) inbound.SalesQueryDomain {
	return &salesQuery{sales: sales}
}

func (q *salesQuery) Revenue(ctx context.Context, integrationID uint) ([]*model.RevenueSummary, error) {
	summaries, err := q.sales.RevenueByIntegration(ctx, integrationID)
	if err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}
	return summaries, nil
}

func (q *salesQuery) ListSales(ctx context.Context, integrationID uint, limit int) ([]*model.Sale, error) {
	switch {
	case limit <= 0:
		limit = defaultSalesLimit
	case limit > maxSalesLimit:
		limit = maxSalesLimit
	}
	sales, err := q.sales.ListByIntegration(ctx, integrationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}
