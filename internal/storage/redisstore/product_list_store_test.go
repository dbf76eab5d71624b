package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

func newTestStore(t *testing.T, opts ...Option) (*ProductListStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store, err := NewProductListStore(rdb, opts...)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store, mr
}

func TestProductListStore_SaveLoad(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	price := 12000.0
	in := []domain.Product{
		{ProductID: "P1", ProductName: "Tumbler", PricingPrice: &price},
		{ProductID: "D1", IsDivider: true},
	}
	if err := store.Save(ctx, "user1", in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !mr.Exists(KeyPrefix + "user1") {
		t.Fatalf("expected key %s", KeyPrefix+"user1")
	}

	out, err := store.Load(ctx, "user1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(out) != 2 || out[0].ProductID != "P1" || !out[1].IsDivider {
		t.Errorf("unexpected list: %+v", out)
	}
	if out[0].PricingPrice == nil || *out[0].PricingPrice != 12000 {
		t.Errorf("pricing price not preserved: %v", out[0].PricingPrice)
	}
}

func TestProductListStore_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "nobody")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProductListStore_EmptyAndInvalid(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "user1", nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	out, err := store.Load(ctx, "user1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", out)
	}

	if err := store.Save(ctx, "", nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProductListStore_TTL(t *testing.T) {
	store, mr := newTestStore(t, WithTTL(time.Hour))
	ctx := context.Background()

	if err := store.Save(ctx, "user1", []domain.Product{{ProductID: "P1"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ttl := mr.TTL(KeyPrefix + "user1"); ttl != time.Hour {
		t.Errorf("expected ttl 1h, got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := store.Load(ctx, "user1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected expired list, got %v", err)
	}
}

func TestProductListStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "user1", []domain.Product{{ProductID: "P1"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "user1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "user1"); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "user1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNewProductListStore_NilClient(t *testing.T) {
	if _, err := NewProductListStore(nil); err == nil {
		t.Error("expected error for nil client")
	}
}
