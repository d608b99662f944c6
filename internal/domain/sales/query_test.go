package sales

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synapse/server/internal/model"
)

func TestSalesQuery_ListSalesClampsLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 50},
		{-1, 50},
		{10, 10},
		{200, 200},
		{1000, 200},
	}

	for _, tt := range tests {
		db := new(MockSaleDB)
		ctx := context.Background()
		db.On("ListByIntegration", ctx, uint(1), tt.want).Return([]*model.Sale{}, nil)

		_, err := NewSalesQuery(db).ListSales(ctx, 1, tt.in)
		require.NoError(t, err)
		db.AssertExpectations(t)
	}
}

func TestSalesQuery_Revenue(t *testing.T) {
	db := new(MockSaleDB)
	ctx := context.Background()
	want := []*model.RevenueSummary{{Currency: "BRL", Total: decimal.RequireFromString("150.00"), Count: 2}}
	db.On("RevenueByIntegration", ctx, uint(3)).Return(want, nil)

	got, err := NewSalesQuery(db).Revenue(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
