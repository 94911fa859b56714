package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartItem(userID, productID uuid.UUID, qty int) *domain.CartItem {
	now := time.Now()
	return &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCartRepository_UpsertSumsQuantity(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(testDB)
	user := createTestUser(t, ctx)
	product := createTestProduct(t, ctx, "50000", 10)

	first := newCartItem(user.ID, product.ID, 2)
	require.NoError(t, repo.Upsert(ctx, first))

	second := newCartItem(user.ID, product.ID, 3)
	require.NoError(t, repo.Upsert(ctx, second))

	assert.Equal(t, first.ID, second.ID, "same product must reuse the existing line")
	assert.Equal(t, 5, second.Quantity)

	items, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, product.Name, items[0].Product.Name)
	assert.True(t, items[0].LineSubtotal().Equal(decimal.NewFromInt(250000)))
}

func TestCartRepository_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(testDB)
	owner := createTestUser(t, ctx)
	other := createTestUser(t, ctx)
	product := createTestProduct(t, ctx, "1000", 10)

	item := newCartItem(owner.ID, product.ID, 1)
	require.NoError(t, repo.Upsert(ctx, item))

	assert.ErrorIs(t, repo.SetQuantity(ctx, other.ID, item.ID, 4, time.Now()), ErrCartItemNotFound)
	assert.ErrorIs(t, repo.Remove(ctx, other.ID, item.ID), ErrCartItemNotFound)
	_, err := repo.FindItem(ctx, other.ID, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	require.NoError(t, repo.SetQuantity(ctx, owner.ID, item.ID, 4, time.Now()))
	got, err := repo.FindByProduct(ctx, owner.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
}

func TestCartRepository_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(testDB)
	user := createTestUser(t, ctx)
	a := createTestProduct(t, ctx, "50000", 10)
	b := createTestProduct(t, ctx, "30000", 10)

	itemA := newCartItem(user.ID, a.ID, 2)
	require.NoError(t, repo.Upsert(ctx, itemA))
	require.NoError(t, repo.Upsert(ctx, newCartItem(user.ID, b.ID, 1)))

	require.NoError(t, repo.Remove(ctx, user.ID, itemA.ID))
	items, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ProductID)

	require.NoError(t, repo.Clear(ctx, user.ID))
	require.NoError(t, repo.Clear(ctx, user.ID))
	items, err = repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartRepository_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t, ctx)

	err := NewCartRepository(testDB).Upsert(ctx, newCartItem(user.ID, uuid.New(), 1))
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartRepository_UpsertRespectsStock(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(testDB)
	user := createTestUser(t, ctx)
	product := createTestProduct(t, ctx, "1000", 5)

	assert.ErrorIs(t, repo.Upsert(ctx, newCartItem(user.ID, product.ID, 6)), ErrInsufficientStock)

	require.NoError(t, repo.Upsert(ctx, newCartItem(user.ID, product.ID, 3)))
	assert.ErrorIs(t, repo.Upsert(ctx, newCartItem(user.ID, product.ID, 3)), ErrInsufficientStock)

	got, err := repo.FindByProduct(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
}

func TestCartRepository_ConcurrentUpsertsNeverExceedStock(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(testDB)
	user := createTestUser(t, ctx)
	product := createTestProduct(t, ctx, "1000", 5)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Upsert(ctx, newCartItem(user.ID, product.ID, 2))
		}()
	}
	wg.Wait()
	close(errs)

	accepted := 0
	for err := range errs {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, ErrInsufficientStock)
	}
	assert.Equal(t, 2, accepted)

	got, err := repo.FindByProduct(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
}
