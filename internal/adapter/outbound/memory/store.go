package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/outbound"
)

// Store is an in-process implementation of the integration, product, sale and
// webhook log ports. It enforces the same uniqueness rules as the SQL schema.
type Store struct {
	mu sync.RWMutex

	nextID       uint
	integrations map[uint]*model.Integration
	products     map[uint]*model.Product
	sales        map[uint]*model.Sale
	logs         map[uint]*model.WebhookLog
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		integrations: make(map[uint]*model.Integration),
		products:     make(map[uint]*model.Product),
		sales:        make(map[uint]*model.Sale),
		logs:         make(map[uint]*model.WebhookLog),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// Integrations returns the integration port.
func (s *Store) Integrations() outbound.IntegrationDatabasePort { return (*integrationStore)(s) }

// Products returns the product port.
func (s *Store) Products() outbound.ProductDatabasePort { return (*productStore)(s) }

// Sales returns the sale port.
func (s *Store) Sales() outbound.SaleDatabasePort { return (*saleStore)(s) }

// WebhookLogs returns the webhook log port.
func (s *Store) WebhookLogs() outbound.WebhookLogDatabasePort { return (*webhookLogStore)(s) }

// SaleCount returns the number of stored sales.
func (s *Store) SaleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sales)
}

// ProductCount returns the number of live products.
func (s *Store) ProductCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.products {
		if !p.DeletedAt.Valid {
			n++
		}
	}
	return n
}

// WebhookLogCount returns the number of stored audit rows.
func (s *Store) WebhookLogCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}

// --- integrations ---

type integrationStore Store

func (s *integrationStore) Create(_ context.Context, integration *model.Integration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	integration.ID = (*Store)(s).id()
	integration.CreatedAt, integration.UpdatedAt = now, now
	cp := *integration
	s.integrations[cp.ID] = &cp
	return nil
}

func (s *integrationStore) FindByID(_ context.Context, id uint) (*model.Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.integrations[id]
	if !ok {
		return nil, nil
	}
	cp := *i
	return &cp, nil
}

func (s *integrationStore) FindByUser(_ context.Context, userID uint) ([]*model.Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Integration
	for _, i := range s.integrations {
		if i.UserID == userID {
			cp := *i
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (s *integrationStore) UpdateStatus(_ context.Context, id uint, status model.IntegrationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.integrations[id]; ok {
		i.Status = status
		i.UpdatedAt = time.Now()
	}
	return nil
}

func (s *integrationStore) TouchLastSync(_ context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.integrations[id]; ok {
		t := at
		i.LastSyncAt = &t
	}
	return nil
}

// --- products ---

type productStore Store

func (s *productStore) findLocked(userID uint, name string) *model.Product {
	for _, p := range s.products {
		if p.UserID == userID && p.Name == name && !p.DeletedAt.Valid {
			return p
		}
	}
	return nil
}

func (s *productStore) FindByName(_ context.Context, userID uint, name string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.findLocked(userID, name)
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *productStore) CreateIfAbsent(_ context.Context, product *model.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(product.UserID, product.Name) != nil {
		return false, nil
	}
	now := time.Now()
	product.ID = (*Store)(s).id()
	product.CreatedAt, product.UpdatedAt = now, now
	cp := *product
	s.products[cp.ID] = &cp
	return true, nil
}

// --- sales ---

type saleStore Store

func (s *saleStore) findLocked(integrationID uint, platformSaleID string) *model.Sale {
	for _, sale := range s.sales {
		if sale.IntegrationID == integrationID && sale.PlatformSaleID == platformSaleID {
			return sale
		}
	}
	return nil
}

func (s *saleStore) FindByPlatformSaleID(_ context.Context, integrationID uint, platformSaleID string) (*model.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale := s.findLocked(integrationID, platformSaleID)
	if sale == nil {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (s *saleStore) CreateIfAbsent(_ context.Context, sale *model.Sale) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(sale.IntegrationID, sale.PlatformSaleID) != nil {
		return false, nil
	}
	now := time.Now()
	sale.ID = (*Store)(s).id()
	sale.CreatedAt, sale.UpdatedAt = now, now
	cp := *sale
	cp.Product = nil
	s.sales[cp.ID] = &cp
	return true, nil
}

func (s *saleStore) UpdateStatus(_ context.Context, id uint, from, to model.SaleStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok || sale.Status != from {
		return false, nil
	}
	sale.Status = to
	sale.UpdatedAt = time.Now()
	return true, nil
}

func (s *saleStore) ListByIntegration(_ context.Context, integrationID uint, limit int) ([]*model.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Sale
	for _, sale := range s.sales {
		if sale.IntegrationID != integrationID {
			continue
		}
		cp := *sale
		if p, ok := s.products[cp.ProductID]; ok {
			pc := *p
			cp.Product = &pc
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].SaleDate.Equal(out[b].SaleDate) {
			return out[a].SaleDate.After(out[b].SaleDate)
		}
		return out[a].ID > out[b].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *saleStore) RevenueByIntegration(_ context.Context, integrationID uint) ([]*model.RevenueSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byCurrency := make(map[string]*model.RevenueSummary)
	for _, sale := range s.sales {
		if sale.IntegrationID != integrationID || sale.Status != model.SaleStatusConfirmed {
			continue
		}
		sum, ok := byCurrency[sale.Currency]
		if !ok {
			sum = &model.RevenueSummary{Currency: sale.Currency, Total: decimal.Zero}
			byCurrency[sale.Currency] = sum
		}
		sum.Total = sum.Total.Add(sale.Amount)
		sum.Count++
	}
	out := make([]*model.RevenueSummary, 0, len(byCurrency))
	for _, sum := range byCurrency {
		out = append(out, sum)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Currency < out[b].Currency })
	return out, nil
}

// --- webhook logs ---

type webhookLogStore Store

func (s *webhookLogStore) Create(_ context.Context, log *model.WebhookLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.ID = (*Store)(s).id()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	cp := *log
	s.logs[cp.ID] = &cp
	return nil
}

func (s *webhookLogStore) FindByID(_ context.Context, id uint) (*model.WebhookLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (s *webhookLogStore) FindByFilter(_ context.Context, filter model.WebhookLogFilter) ([]*model.WebhookLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.WebhookLog
	for _, l := range s.logs {
		if filter.IntegrationID != 0 && l.IntegrationID != filter.IntegrationID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].ID > out[b].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *webhookLogStore) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, l := range s.logs {
		if l.CreatedAt.Before(before) {
			delete(s.logs, id)
			n++
		}
	}
	return n, nil
}

// Compile-time checks
var (
	_ outbound.IntegrationDatabasePort = (*integrationStore)(nil)
	_ outbound.ProductDatabasePort     = (*productStore)(nil)
	_ outbound.SaleDatabasePort        = (*saleStore)(nil)
	_ outbound.WebhookLogDatabasePort  = (*webhookLogStore)(nil)
)
