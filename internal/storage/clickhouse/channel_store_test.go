package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

func TestChannelStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChannelStore(conn)
	ctx := context.Background()

	ch := &domain.ChannelInfo{
		ChannelName:      "qoo10_jp",
		Type:             domain.ChannelJapan,
		ExchangeRate:     9.5,
		MarkupRatio:      1.2,
		RoundingRule:     domain.RoundCeil,
		RoundingDigits:   -1,
		DigitAdjustment:  -2,
		AverageFeeRate:   "12%",
		UseFeeAdjustment: true,
		FreeShippingFee:  800,
	}
	require.NoError(t, store.Insert(ctx, ch))

	got, err := store.GetByName(ctx, "qoo10_jp")
	require.NoError(t, err)
	assert.Equal(t, *ch, *got)

	err = store.Insert(ctx, ch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestChannelStore_GetNotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChannelStore(conn)

	_, err := store.GetByName(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChannelStore_ListOrdered(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChannelStore(conn)
	ctx := context.Background()

	for _, name := range []string{"smartstore", "coupang", "shopee_sg"} {
		require.NoError(t, store.Insert(ctx, &domain.ChannelInfo{
			ChannelName: name,
			Type:        domain.ChannelDomestic,
		}))
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "coupang", list[0].ChannelName)
	assert.Equal(t, "shopee_sg", list[1].ChannelName)
	assert.Equal(t, "smartstore", list[2].ChannelName)
}

func TestChannelStore_InsertInvalid(t *testing.T) {
	store := NewChannelStore(nil)

	err := store.Insert(context.Background(), &domain.ChannelInfo{ChannelName: "x", Type: "pos"})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
