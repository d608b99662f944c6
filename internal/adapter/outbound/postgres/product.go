package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productAdapter implements outbound.ProductDatabasePort.
type productAdapter struct {
	db *gorm.DB
}

// NewProductAdapter creates a new product database adapter.
func NewProductAdapter(db *gorm.DB) outbound.ProductDatabasePort {
	return &productAdapter{db: db}
}

func (a *productAdapter) FindByName(ctx context.Context, userID uint, name string) (*model.Product, error) {
	var product model.Product
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by name: %w", err)
	}
	return &product, nil
}

func (a *productAdapter) CreateIfAbsent(ctx context.Context, product *model.Product) (bool, error) {
	result := a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "name"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "deleted_at IS NULL"},
			}},
			DoNothing: true,
		}).
		Create(product)
	if result.Error != nil {
		return false, fmt.Errorf("create product: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Compile-time check
var _ outbound.ProductDatabasePort = (*productAdapter)(nil)
