// Package main applies the embedded PostgreSQL and ClickHouse migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hublishing/fnsretail-sub001/internal/logger"
	"github.com/hublishing/fnsretail-sub001/internal/storage/migrations"
	pgstore "github.com/hublishing/fnsretail-sub001/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall migration timeout")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: "info", ServiceName: "fnsretail-migrate"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *postgresDSN == "" && *clickhouseDSN == "" {
		log.Fatal("nothing to migrate: set --postgres-dsn and/or --clickhouse-dsn")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		applied, err := migrations.RunPostgresMigrations(ctx, pool, log)
		pool.Close()
		printApplied("postgres", applied)
		if err != nil {
			log.Fatal("postgres migrations failed", zap.Error(err))
		}
	}

	if *clickhouseDSN != "" {
		conn, applied, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN, log)
		printApplied("clickhouse", applied)
		if err != nil {
			log.Fatal("clickhouse migrations failed", zap.Error(err))
		}
		conn.Close()
	}
}

func printApplied(database string, files []string) {
	fmt.Printf("%s: %d migration(s) applied\n", database, len(files))
	for _, f := range files {
		fmt.Printf("  %s\n", f)
	}
}
