package migrations

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	chstore "github.com/hublishing/fnsretail-sub001/internal/storage/clickhouse"
)

// RunClickhouseMigrations creates the DSN's database when missing, applies
// the warehouse tables and returns an open connection to that database
// together with the applied file names.
func RunClickhouseMigrations(ctx context.Context, dsn string, log *zap.Logger) (*chstore.Conn, []string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dbName, err := databaseFromDSN(dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := ensureDatabase(ctx, dsn, dbName); err != nil {
		return nil, nil, err
	}
	log.Info("clickhouse database ready", zap.String("name", dbName))

	conn, err := chstore.NewConnWithDatabase(ctx, dsn, dbName)
	if err != nil {
		return nil, nil, fmt.Errorf("connect clickhouse db: %w", err)
	}

	r := Runner{Database: "clickhouse", Source: ClickhouseSource(), Split: true, Logger: log}
	applied, err := r.Apply(ctx, func(ctx context.Context, stmt string) error {
		return conn.Exec(ctx, stmt)
	})
	if err != nil {
		conn.Close()
		return nil, applied, err
	}
	return conn, applied, nil
}

func ensureDatabase(ctx context.Context, dsn, dbName string) error {
	admin, err := chstore.NewConnWithDatabase(ctx, dsn, "")
	if err != nil {
		return fmt.Errorf("connect clickhouse admin: %w", err)
	}
	defer admin.Close()

	if err := admin.Exec(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", dbName)); err != nil {
		return fmt.Errorf("create database %s: %w", dbName, err)
	}
	return nil
}

func databaseFromDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	db := strings.TrimPrefix(u.Path, "/")
	if db == "" {
		return "", fmt.Errorf("clickhouse dsn missing database")
	}
	return db, nil
}
