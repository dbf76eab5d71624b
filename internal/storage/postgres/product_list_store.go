package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/observability"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// ProductListStore implements storage.ProductListStore using PostgreSQL.
// Each user's list is one JSONB document in product_lists.
type ProductListStore struct {
	pool *Pool
}

// NewProductListStore creates a new ProductListStore.
func NewProductListStore(pool *Pool) *ProductListStore {
	return &ProductListStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProductListStore = (*ProductListStore)(nil)

// Load returns the user's saved list. Returns ErrNotFound if none was saved.
func (s *ProductListStore) Load(ctx context.Context, userID string) (products []domain.Product, err error) {
	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "load_product_list", time.Since(start).Seconds(), ignoreNotFound(err))
	}()

	query := `
		SELECT products
		FROM product_lists
		WHERE user_id = $1
	`

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load product list: %w", err)
	}

	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// Save replaces the user's list, creating the row on first save.
func (s *ProductListStore) Save(ctx context.Context, userID string, products []domain.Product) (err error) {
	if userID == "" {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "save_product_list", time.Since(start).Seconds(), err)
	}()

	if products == nil {
		products = []domain.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode product list: %w", err)
	}

	query := `
		INSERT INTO product_lists (user_id, products, item_count, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			products = EXCLUDED.products,
			item_count = EXCLUDED.item_count,
			updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, userID, data, len(products)); err != nil {
		return fmt.Errorf("save product list: %w", err)
	}
	return nil
}

// ItemCount returns the number of products in the user's saved list.
// Returns ErrNotFound if none was saved.
func (s *ProductListStore) ItemCount(ctx context.Context, userID string) (int, error) {
	query := `SELECT item_count FROM product_lists WHERE user_id = $1`

	var n int
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		if isNotFoundError(err) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("count product list: %w", err)
	}
	return n, nil
}

func ignoreNotFound(err error) error {
	if err == storage.ErrNotFound {
		return nil
	}
	return err
}
