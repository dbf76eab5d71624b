package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

func TestProductListStore_SaveAndLoad(t *testing.T) {
	store := NewProductListStore()
	ctx := context.Background()

	products := []domain.Product{
		{ProductID: "P1", PricingPrice: domain.Amount(10000)},
		{ProductID: "P2", Memo: "restock"},
	}

	if err := store.Save(ctx, "user1", products); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "user1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(got))
	}

	if *got[0].PricingPrice != 10000 {
		t.Errorf("PricingPrice mismatch: got %f, want 10000", *got[0].PricingPrice)
	}

	if store.SaveCount() != 1 {
		t.Errorf("Expected 1 save, got %d", store.SaveCount())
	}
}

func TestProductListStore_CopyOnWrite(t *testing.T) {
	store := NewProductListStore()
	ctx := context.Background()

	products := []domain.Product{{ProductID: "P1", PricingPrice: domain.Amount(10000)}}
	if err := store.Save(ctx, "user1", products); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Modify caller's list after save
	*products[0].PricingPrice = 1

	got, _ := store.Load(ctx, "user1")
	if *got[0].PricingPrice != 10000 {
		t.Errorf("Stored list changed through caller's pointer: got %f", *got[0].PricingPrice)
	}

	// Modify a loaded list
	got[0].ProductID = "tampered"
	again, _ := store.Load(ctx, "user1")
	if again[0].ProductID != "P1" {
		t.Errorf("Stored list changed through loaded copy: got %s", again[0].ProductID)
	}
}

func TestProductListStore_NotFound(t *testing.T) {
	store := NewProductListStore()

	_, err := store.Load(context.Background(), "nobody")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProductListStore_InvalidUser(t *testing.T) {
	store := NewProductListStore()

	err := store.Save(context.Background(), "", nil)
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
