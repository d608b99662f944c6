package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/synapse/server/internal/model"
)

func TestProductResolver_ReusesExisting(t *testing.T) {
	db := new(MockProductDB)
	locker := &fakeLocker{}
	resolver := NewProductResolver(db, locker, nil)
	ctx := context.Background()

	existing := &model.Product{ID: 4, UserID: 7, Name: "Curso X"}
	db.On("FindByName", ctx, uint(7), "Curso X").Return(existing, nil)

	product, err := resolver.Resolve(ctx, "  Curso X ", 7)
	require.NoError(t, err)
	assert.Equal(t, uint(4), product.ID)
	assert.Empty(t, locker.keys)
	db.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestProductResolver_CreatesDraft(t *testing.T) {
	db := new(MockProductDB)
	locker := &fakeLocker{}
	resolver := NewProductResolver(db, locker, nil)
	ctx := context.Background()

	db.On("FindByName", ctx, uint(7), "Curso X").Return(nil, nil)
	db.On("CreateIfAbsent", ctx, mock.MatchedBy(func(p *model.Product) bool {
		return p.UserID == 7 && p.Name == "Curso X" && p.Status == model.ProductStatusDraft && p.Currency == "BRL"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Product).ID = 11
	}).Return(true, nil)

	product, err := resolver.Resolve(ctx, "Curso X", 7)
	require.NoError(t, err)
	assert.Equal(t, uint(11), product.ID)
	assert.Equal(t, []string{"product:7:curso x"}, locker.keys)
	assert.Equal(t, 1, locker.unlocked)
	db.AssertNumberOfCalls(t, "FindByName", 2)
}

func TestProductResolver_CreatedByConcurrentWriter(t *testing.T) {
	db := new(MockProductDB)
	resolver := NewProductResolver(db, &fakeLocker{}, nil)
	ctx := context.Background()

	winner := &model.Product{ID: 12, UserID: 7, Name: "Curso X"}
	db.On("FindByName", ctx, uint(7), "Curso X").Return(nil, nil).Twice()
	db.On("CreateIfAbsent", ctx, mock.Anything).Return(false, nil)
	db.On("FindByName", ctx, uint(7), "Curso X").Return(winner, nil).Once()

	product, err := resolver.Resolve(ctx, "Curso X", 7)
	require.NoError(t, err)
	assert.Equal(t, uint(12), product.ID)
}

func TestProductResolver_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("blank name", func(t *testing.T) {
		_, err := NewProductResolver(new(MockProductDB), &fakeLocker{}, nil).Resolve(ctx, "   ", 7)
		assert.ErrorIs(t, err, ErrEmptyProductName)
	})

	t.Run("no user", func(t *testing.T) {
		_, err := NewProductResolver(new(MockProductDB), &fakeLocker{}, nil).Resolve(ctx, "X", 0)
		assert.ErrorIs(t, err, ErrInvalidUser)
	})

	t.Run("vanished winner", func(t *testing.T) {
		db := new(MockProductDB)
		db.On("FindByName", ctx, uint(7), "X").Return(nil, nil)
		db.On("CreateIfAbsent", ctx, mock.Anything).Return(false, nil)

		_, err := NewProductResolver(db, &fakeLocker{}, nil).Resolve(ctx, "X", 7)
		assert.ErrorIs(t, err, ErrProductVanished)
	})

	t.Run("store failure", func(t *testing.T) {
		db := new(MockProductDB)
		dbErr := errors.New("db down")
		db.On("FindByName", ctx, uint(7), "X").Return(nil, dbErr)

		_, err := NewProductResolver(db, &fakeLocker{}, nil).Resolve(ctx, "X", 7)
		assert.ErrorIs(t, err, dbErr)
	})
}
