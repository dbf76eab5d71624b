// Package redisstore keeps product lists as JSON documents in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/observability"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// KeyPrefix namespaces product list keys.
const KeyPrefix = "fnsretail:products:"

// ProductListStore implements storage.ProductListStore on Redis strings.
type ProductListStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// Option configures a ProductListStore.
type Option func(*ProductListStore)

// WithTTL expires lists that are not saved again within ttl.
// Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *ProductListStore) { s.ttl = ttl }
}

// NewProductListStore creates a store over an existing client.
func NewProductListStore(rdb *redis.Client, opts ...Option) (*ProductListStore, error) {
	if rdb == nil {
		return nil, errors.New("redis client is nil")
	}
	s := &ProductListStore{rdb: rdb}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewClient creates a redis client for addr and verifies it with PING.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Compile-time interface check.
var _ storage.ProductListStore = (*ProductListStore)(nil)

func key(userID string) string {
	return KeyPrefix + userID
}

// Load returns the user's list. Returns ErrNotFound if nothing is stored.
func (s *ProductListStore) Load(ctx context.Context, userID string) ([]domain.Product, error) {
	start := time.Now()

	data, err := s.rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.RecordDBQuery("redis", "load_products", time.Since(start).Seconds(), nil)
		return nil, storage.ErrNotFound
	}
	observability.RecordDBQuery("redis", "load_products", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("get product list: %w", err)
	}

	products := make([]domain.Product, 0)
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	return products, nil
}

// Save replaces the user's list and refreshes its TTL.
func (s *ProductListStore) Save(ctx context.Context, userID string, products []domain.Product) error {
	if userID == "" {
		return storage.ErrInvalidInput
	}
	if products == nil {
		products = []domain.Product{}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode product list: %w", err)
	}

	start := time.Now()
	err = s.rdb.Set(ctx, key(userID), data, s.ttl).Err()
	observability.RecordDBQuery("redis", "save_products", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("set product list: %w", err)
	}
	return nil
}

// Delete removes the user's list. Missing lists are not an error.
func (s *ProductListStore) Delete(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("delete product list: %w", err)
	}
	return nil
}
