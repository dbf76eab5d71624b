package memory

import (
	"context"
	"sync"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// ProductListStore is an in-memory implementation of storage.ProductListStore.
type ProductListStore struct {
	mu    sync.RWMutex
	lists map[string][]domain.Product // keyed by user_id
	saves int
}

// NewProductListStore creates a new in-memory product list store.
func NewProductListStore() *ProductListStore {
	return &ProductListStore{
		lists: make(map[string][]domain.Product),
	}
}

// Load returns a copy of the user's list. Returns ErrNotFound if nothing was saved.
func (s *ProductListStore) Load(_ context.Context, userID string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, exists := s.lists[userID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return domain.CloneProducts(products), nil
}

// Save replaces the user's list with a copy of products.
func (s *ProductListStore) Save(_ context.Context, userID string, products []domain.Product) error {
	if userID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[userID] = domain.CloneProducts(products)
	s.saves++
	return nil
}

// SaveCount returns the number of successful saves.
func (s *ProductListStore) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

var _ storage.ProductListStore = (*ProductListStore)(nil)
