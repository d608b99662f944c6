package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/outbound"
	"go.uber.org/zap"
)

// ProductResolver finds or creates the product a sale refers to.
type ProductResolver interface {
	// Resolve returns the user's product with the given (trimmed) name, creating it if absent.
	Resolve(ctx context.Context, name string, userID uint) (*model.Product, error)
}

type productResolver struct {
	products outbound.ProductDatabasePort
	locker   outbound.KeyLockerPort
	logger   *zap.Logger
}

// NewProductResolver creates a product resolver.
// Concurrent resolutions of one (user, name) are serialized through locker and
// the store's unique (user_id, name) index backs it up.
func NewProductResolver(products outbound.ProductDatabasePort, locker outbound.KeyLockerPort, logger *zap.Logger) ProductResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &productResolver{
		products: products,
		locker:   locker,
		logger:   logger.Named("product_resolver"),
	}
}

func (r *productResolver) Resolve(ctx context.Context, name string, userID uint) (*model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyProductName
	}
	if userID == 0 {
		return nil, ErrInvalidUser
	}

	product, err := r.products.FindByName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product != nil {
		return product, nil
	}

	unlock, err := r.locker.Lock(ctx, productLockKey(userID, name))
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}
	defer unlock()

	// Re-check under the lock: another request may have created it meanwhile.
	product, err = r.products.FindByName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product != nil {
		return product, nil
	}

	product = model.NewWebhookProduct(userID, name)
	created, err := r.products.CreateIfAbsent(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if created {
		r.logger.Info("product created from sale",
			zap.Uint("product_id", product.ID),
			zap.Uint("user_id", userID),
			zap.String("name", name),
		)
		return product, nil
	}

	product, err = r.products.FindByName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, ErrProductVanished
	}
	return product, nil
}

func productLockKey(userID uint, name string) string {
	return fmt.Sprintf("product:%d:%s", userID, strings.ToLower(name))
}
