// Package main renders the pricing report of a stored product list.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/hublishing/fnsretail-sub001/internal/reporting"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
	chstore "github.com/hublishing/fnsretail-sub001/internal/storage/clickhouse"
	pgstore "github.com/hublishing/fnsretail-sub001/internal/storage/postgres"
	"github.com/hublishing/fnsretail-sub001/internal/storage/redisstore"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "User whose list is reported (required)")
	channel := flag.String("channel", "", "Channel name to evaluate the list under")
	outputDir := flag.String("output-dir", "reports", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	redisAddr := flag.String("redis-addr", os.Getenv("REDIS_ADDR"), "Redis address (used when no postgres DSN is set)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (required with --channel)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "Error: --user is required")
		os.Exit(1)
	}
	if *postgresDSN == "" && *redisAddr == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn or --redis-addr is required")
		os.Exit(1)
	}
	if *channel != "" && *clickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --clickhouse-dsn is required with --channel")
		os.Exit(1)
	}

	ctx := context.Background()

	lists, closeLists, err := openListStore(ctx, *postgresDSN, *redisAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to list store: %v\n", err)
		os.Exit(1)
	}
	defer closeLists()

	var channels storage.ChannelStore
	if *clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		channels = chstore.NewChannelStore(conn)
	}

	report, err := reporting.NewGenerator(lists, channels).Generate(ctx, *userID, *channel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*outputDir, fmt.Sprintf("PRICING_%s.md", *userID))
	csvPath := filepath.Join(*outputDir, fmt.Sprintf("PRICING_%s.csv", *userID))
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing markdown: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Rows)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing csv: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Pricing report generated successfully:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
}

// openListStore prefers postgres, the primary store, over redis.
func openListStore(ctx context.Context, postgresDSN, redisAddr string) (storage.ProductListStore, func(), error) {
	if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewProductListStore(pool), pool.Close, nil
	}

	rdb, err := redisstore.NewClient(ctx, redisAddr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		return nil, nil, err
	}
	store, err := redisstore.NewProductListStore(rdb)
	if err != nil {
		rdb.Close()
		return nil, nil, err
	}
	return store, func() { _ = rdb.Close() }, nil
}
