package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

func TestProductListStore_SaveAndLoad(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProductListStore(pool)
	ctx := context.Background()

	products := []domain.Product{
		{
			ProductID:     "P1",
			ProductName:   "Tumbler",
			PricingPrice:  ptr(10000.0),
			DiscountPrice: ptr(9000.0),
			DiscountUnit:  domain.DiscountUnitPercent,
			DeliveryType:  domain.DeliveryFree,
		},
		{ProductID: "D1", IsDivider: true},
	}

	require.NoError(t, store.Save(ctx, "user1", products))

	got, err := store.Load(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, products, got)

	n, err := store.ItemCount(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestProductListStore_SaveOverwrites(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProductListStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user1", []domain.Product{{ProductID: "P1"}, {ProductID: "P2"}}))
	require.NoError(t, store.Save(ctx, "user1", []domain.Product{{ProductID: "P3", Memo: "only"}}))

	got, err := store.Load(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "only", got[0].Memo)
}

func TestProductListStore_EmptyList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProductListStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user1", nil))

	got, err := store.Load(ctx, "user1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProductListStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProductListStore(pool)
	ctx := context.Background()

	_, err := store.Load(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.ItemCount(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, store.Save(ctx, "", nil), storage.ErrInvalidInput)
}
