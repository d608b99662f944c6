package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// saleAdapter implements outbound.SaleDatabasePort.
type saleAdapter struct {
	db *gorm.DB
}

// NewSaleAdapter creates a new sale database adapter.
func NewSaleAdapter(db *gorm.DB) outbound.SaleDatabasePort {
	return &saleAdapter{db: db}
}

func (a *saleAdapter) FindByPlatformSaleID(ctx context.Context, integrationID uint, platformSaleID string) (*model.Sale, error) {
	var sale model.Sale
	err := a.db.WithContext(ctx).
		Where("integration_id = ? AND platform_sale_id = ?", integrationID, platformSaleID).
		First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sale by platform sale id: %w", err)
	}
	return &sale, nil
}

func (a *saleAdapter) CreateIfAbsent(ctx context.Context, sale *model.Sale) (bool, error) {
	result := a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "integration_id"}, {Name: "platform_sale_id"}},
			DoNothing: true,
		}).
		Create(sale)
	if result.Error != nil {
		return false, fmt.Errorf("create sale: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (a *saleAdapter) UpdateStatus(ctx context.Context, id uint, from, to model.SaleStatus) (bool, error) {
	result := a.db.WithContext(ctx).
		Model(&model.Sale{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, fmt.Errorf("update sale status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (a *saleAdapter) ListByIntegration(ctx context.Context, integrationID uint, limit int) ([]*model.Sale, error) {
	var sales []*model.Sale
	err := a.db.WithContext(ctx).
		Preload("Product").
		Where("integration_id = ?", integrationID).
		Order("sale_date DESC, id DESC").
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("list sales by integration: %w", err)
	}
	return sales, nil
}

type revenueRow struct {
	Currency string
	Total    decimal.Decimal
	Count    int64
}

func (a *saleAdapter) RevenueByIntegration(ctx context.Context, integrationID uint) ([]*model.RevenueSummary, error) {
	var rows []revenueRow
	err := a.db.WithContext(ctx).
		Model(&model.Sale{}).
		Select("currency, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("integration_id = ? AND status = ?", integrationID, model.SaleStatusConfirmed).
		Group("currency").
		Order("currency").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum revenue by integration: %w", err)
	}

	summaries := make([]*model.RevenueSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, &model.RevenueSummary{
			Currency: r.Currency,
			Total:    r.Total,
			Count:    r.Count,
		})
	}
	return summaries, nil
}

// Compile-time check
var _ outbound.SaleDatabasePort = (*saleAdapter)(nil)
