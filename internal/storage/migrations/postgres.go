package migrations

import (
	"context"

	"go.uber.org/zap"

	"github.com/hublishing/fnsretail-sub001/internal/storage/postgres"
)

// RunPostgresMigrations applies the product list schema and returns the
// applied file names. Each file runs as one Exec and must be idempotent.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool, log *zap.Logger) ([]string, error) {
	r := Runner{Database: "postgres", Source: PostgresSource(), Logger: log}
	return r.Apply(ctx, func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	})
}
