package sales

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/outbound"
)

// --- Mock implementations ---

type MockSaleDB struct {
	mock.Mock
}

func (m *MockSaleDB) FindByPlatformSaleID(ctx context.Context, integrationID uint, platformSaleID string) (*model.Sale, error) {
	args := m.Called(ctx, integrationID, platformSaleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleDB) CreateIfAbsent(ctx context.Context, sale *model.Sale) (bool, error) {
	args := m.Called(ctx, sale)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleDB) UpdateStatus(ctx context.Context, id uint, from, to model.SaleStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleDB) ListByIntegration(ctx context.Context, integrationID uint, limit int) ([]*model.Sale, error) {
	args := m.Called(ctx, integrationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Sale), args.Error(1)
}

func (m *MockSaleDB) RevenueByIntegration(ctx context.Context, integrationID uint) ([]*model.RevenueSummary, error) {
	args := m.Called(ctx, integrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RevenueSummary), args.Error(1)
}

type MockProductDB struct {
	mock.Mock
}

func (m *MockProductDB) FindByName(ctx context.Context, userID uint, name string) (*model.Product, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductDB) CreateIfAbsent(ctx context.Context, product *model.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordWebhook(platform, eventType, status string, d time.Duration) {
	m.Called(platform, eventType, status, d)
}

func (m *MockMetrics) RecordSaleTransition(from, to string) {
	m.Called(from, to)
}

func (m *MockMetrics) RecordLockFallback(reason string) {
	m.Called(reason)
}

// fakeLocker records the keys it was asked to lock.
type fakeLocker struct {
	mu       sync.Mutex
	keys     []string
	unlocked int
	err      error
}

func (l *fakeLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func() {
		l.mu.Lock()
		l.unlocked++
		l.mu.Unlock()
	}, nil
}

var (
	_ outbound.SaleDatabasePort    = (*MockSaleDB)(nil)
	_ outbound.ProductDatabasePort = (*MockProductDB)(nil)
	_ outbound.WebhookMetricsPort  = (*MockMetrics)(nil)
	_ outbound.KeyLockerPort       = (*fakeLocker)(nil)
)
