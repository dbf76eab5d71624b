package main

import (
	"context"
	"fmt"

	"github.com/hublishing/fnsretail-sub001/internal/config"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
	chstore "github.com/hublishing/fnsretail-sub001/internal/storage/clickhouse"
	"github.com/hublishing/fnsretail-sub001/internal/storage/memory"
	pgstore "github.com/hublishing/fnsretail-sub001/internal/storage/postgres"
	"github.com/hublishing/fnsretail-sub001/internal/storage/redisstore"
)

// allStores holds all storage implementations.
type allStores struct {
	products storage.ProductListStore
	channels storage.ChannelStore
	sales    storage.SalesSummaryStore // nil without ClickHouse
}

// createStores opens the configured product list store and, when a
// ClickHouse DSN is set, the warehouse stores.
func createStores(ctx context.Context, cfg *config.Config) (*allStores, func(), error) {
	stores := &allStores{}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Store {
	case config.StorePostgres:
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		stores.products = pgstore.NewProductListStore(pool)

	case config.StoreRedis:
		rdb, err := redisstore.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		store, err := redisstore.NewProductListStore(rdb, redisstore.WithTTL(cfg.RedisTTL))
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		stores.products = store

	default:
		stores.products = memory.NewProductListStore()
	}

	if cfg.ClickhouseDSN == "" {
		stores.channels = memory.NewChannelStore()
		return stores, cleanup, nil
	}

	conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	closers = append(closers, func() { _ = conn.Close() })
	stores.channels = chstore.NewChannelStore(conn)
	stores.sales = chstore.NewSalesSummaryStore(conn)

	return stores, cleanup, nil
}
