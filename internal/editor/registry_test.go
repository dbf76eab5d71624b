package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/storage/memory"
)

func TestRegistry_LazySessions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProductListStore()
	require.NoError(t, store.Save(ctx, "user1", sampleProducts()))

	channels := memory.NewChannelStore()
	require.NoError(t, channels.Insert(ctx, &domain.ChannelInfo{
		ChannelName: "smartstore",
		Type:        domain.ChannelDomestic,
		MarkupRatio: 500,
	}))

	r := NewRegistry(RegistryConfig{Store: store, Channels: channels, DefaultChannel: "smartstore"})
	defer r.Close()

	s1, err := r.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, s1.View().Products, 2)
	require.NotNil(t, s1.View().Channel)
	assert.Equal(t, "smartstore", s1.View().Channel.ChannelName)

	again, err := r.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Same(t, s1, again)

	fresh, err := r.Get(ctx, "user2")
	require.NoError(t, err)
	assert.Empty(t, fresh.View().Products)
	assert.Equal(t, 2, r.Len())

	_, err = r.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRegistry_MissingDefaultChannel(t *testing.T) {
	r := NewRegistry(RegistryConfig{
		Store:          memory.NewProductListStore(),
		Channels:       memory.NewChannelStore(),
		DefaultChannel: "unknown",
	})
	defer r.Close()

	s, err := r.Get(context.Background(), "user1")
	require.NoError(t, err)
	assert.Nil(t, s.View().Channel)
}

func TestRegistry_CloseFlushesAndRejects(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProductListStore()
	r := NewRegistry(RegistryConfig{Store: store})

	s, err := r.Get(ctx, "user1")
	require.NoError(t, err)
	_, err = s.AddProducts([]domain.Product{{ProductID: "P9", PricingPrice: domain.Amount(5000)}})
	require.NoError(t, err)

	r.Close()

	saved, err := store.Load(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "P9", saved[0].ProductID)

	_, err = r.Get(ctx, "user1")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Zero(t, r.Len())
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry(RegistryConfig{})
	defer r.Close()

	s, err := r.Get(context.Background(), "user1")
	require.NoError(t, err)

	r.Remove("user1")
	assert.Zero(t, r.Len())

	_, err = s.SetColor(nil, "red")
	assert.ErrorIs(t, err, ErrSessionClosed)
}
