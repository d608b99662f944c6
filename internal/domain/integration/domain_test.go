package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/synapse/server/internal/model"
)

// --- Mock implementations ---

type MockIntegrationDB struct {
	mock.Mock
}

func (m *MockIntegrationDB) Create(ctx context.Context, integration *model.Integration) error {
	args := m.Called(ctx, integration)
	return args.Error(0)
}

func (m *MockIntegrationDB) FindByID(ctx context.Context, id uint) (*model.Integration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Integration), args.Error(1)
}

func (m *MockIntegrationDB) FindByUser(ctx context.Context, userID uint) ([]*model.Integration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Integration), args.Error(1)
}

func (m *MockIntegrationDB) UpdateStatus(ctx context.Context, id uint, status model.IntegrationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockIntegrationDB) TouchLastSync(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// --- Tests ---

func TestCreate(t *testing.T) {
	db := new(MockIntegrationDB)
	domain := NewIntegrationDomain(db, nil)
	ctx := context.Background()

	db.On("FindByUser", ctx, uint(7)).Return([]*model.Integration{{ID: 4, UserID: 7, Platform: model.PlatformKiwify}}, nil)
	db.On("Create", ctx, mock.MatchedBy(func(i *model.Integration) bool {
		return i.UserID == 7 && i.Platform == model.PlatformHotmart && i.Secret == "hot-123" &&
			i.Status == model.IntegrationStatusActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Integration).ID = 1
	}).Return(nil)

	integration, err := domain.Create(ctx, &model.CreateIntegrationRequest{UserID: 7, Platform: "hotmart", Secret: " hot-123 "})
	require.NoError(t, err)
	assert.Equal(t, uint(1), integration.ID)
	assert.True(t, integration.HasSecret())
	db.AssertExpectations(t)
}

func TestCreate_DuplicatePlatform(t *testing.T) {
	db := new(MockIntegrationDB)
	domain := NewIntegrationDomain(db, nil)
	ctx := context.Background()

	db.On("FindByUser", ctx, uint(7)).Return([]*model.Integration{{ID: 4, UserID: 7, Platform: model.PlatformHotmart}}, nil)

	_, err := domain.Create(ctx, &model.CreateIntegrationRequest{UserID: 7, Platform: "HOTMART"})
	assert.ErrorIs(t, err, ErrIntegrationExists)
	db.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_LookupError(t *testing.T) {
	db := new(MockIntegrationDB)
	domain := NewIntegrationDomain(db, nil)
	ctx := context.Background()

	db.On("FindByUser", ctx, uint(7)).Return(nil, errors.New("db down"))

	_, err := domain.Create(ctx, &model.CreateIntegrationRequest{UserID: 7, Platform: "KIWIFY"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIntegrationExists)
	db.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_InvalidPlatform(t *testing.T) {
	db := new(MockIntegrationDB)
	domain := NewIntegrationDomain(db, nil)

	_, err := domain.Create(context.Background(), &model.CreateIntegrationRequest{UserID: 7, Platform: "gumroad"})
	assert.ErrorIs(t, err, ErrInvalidPlatform)
	db.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGet(t *testing.T) {
	db := new(MockIntegrationDB)
	domain := NewIntegrationDomain(db, nil)
	ctx := context.Background()

	db.On("FindByID", ctx, uint(1)).Return(&model.Integration{ID: 1, Platform: model.PlatformKiwify}, nil)
	db.On("FindByID", ctx, uint(2)).Return(nil, nil)
	db.On("FindByID", ctx, uint(3)).Return(nil, errors.New("db down"))

	integration, err := domain.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.PlatformKiwify, integration.Platform)

	_, err = domain.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrIntegrationNotFound)

	_, err = domain.Get(ctx, 3)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIntegrationNotFound)
}

func TestListByUser(t *testing.T) {
	db := new(MockIntegrationDB)
	domain := NewIntegrationDomain(db, nil)
	ctx := context.Background()

	db.On("FindByUser", ctx, uint(7)).Return([]*model.Integration{{ID: 1}, {ID: 2}}, nil)

	list, err := domain.ListByUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("changes status", func(t *testing.T) {
		db := new(MockIntegrationDB)
		db.On("FindByID", ctx, uint(1)).Return(&model.Integration{ID: 1, Status: model.IntegrationStatusActive}, nil)
		db.On("UpdateStatus", ctx, uint(1), model.IntegrationStatusInactive).Return(nil)

		integration, err := NewIntegrationDomain(db, nil).UpdateStatus(ctx, 1, model.IntegrationStatusInactive)
		require.NoError(t, err)
		assert.Equal(t, model.IntegrationStatusInactive, integration.Status)
		db.AssertExpectations(t)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		db := new(MockIntegrationDB)
		db.On("FindByID", ctx, uint(1)).Return(&model.Integration{ID: 1, Status: model.IntegrationStatusActive}, nil)

		_, err := NewIntegrationDomain(db, nil).UpdateStatus(ctx, 1, model.IntegrationStatusActive)
		require.NoError(t, err)
		db.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := NewIntegrationDomain(new(MockIntegrationDB), nil).UpdateStatus(ctx, 1, "paused")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("not found", func(t *testing.T) {
		db := new(MockIntegrationDB)
		db.On("FindByID", ctx, uint(9)).Return(nil, nil)

		_, err := NewIntegrationDomain(db, nil).UpdateStatus(ctx, 9, model.IntegrationStatusError)
		assert.ErrorIs(t, err, ErrIntegrationNotFound)
	})
}
