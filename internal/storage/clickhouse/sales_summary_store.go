package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/observability"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// SalesSummaryStore implements storage.SalesSummaryStore over sales_daily.
type SalesSummaryStore struct {
	conn *Conn
}

// NewSalesSummaryStore creates a new SalesSummaryStore.
func NewSalesSummaryStore(conn *Conn) *SalesSummaryStore {
	return &SalesSummaryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SalesSummaryStore = (*SalesSummaryStore)(nil)

// InsertBulk writes daily rows in one batch. Rows for an existing
// (channel, day) are summed by the table engine.
func (s *SalesSummaryStore) InsertBulk(ctx context.Context, rows []domain.DailySales) error {
	if len(rows) == 0 {
		return nil
	}
	for _, r := range rows {
		if r.ChannelName == "" || r.Day.IsZero() {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO sales_daily (
			day, channel_name, orders, quantity, revenue, settlement, net_profit
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(
			r.Day.UTC(), r.ChannelName, r.Orders, r.Quantity,
			r.Revenue, r.Settlement, r.NetProfit,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// DailyByChannel retrieves rows for a channel within [start, end]
// (inclusive, day precision), ordered by day ASC.
func (s *SalesSummaryStore) DailyByChannel(ctx context.Context, channel string, start, end time.Time) ([]domain.DailySales, error) {
	began := time.Now()

	query := `
		SELECT
			day, channel_name,
			sum(orders), sum(quantity), sum(revenue), sum(settlement), sum(net_profit)
		FROM sales_daily
		WHERE channel_name = ? AND day >= toDate(?) AND day <= toDate(?)
		GROUP BY day, channel_name
		ORDER BY day ASC
	`

	rows, err := s.conn.Query(ctx, query, channel, start.UTC(), end.UTC())
	if err != nil {
		observability.RecordDBQuery("clickhouse", "sales_daily", time.Since(began).Seconds(), err)
		return nil, fmt.Errorf("query sales daily: %w", err)
	}
	defer rows.Close()

	result := make([]domain.DailySales, 0)
	for rows.Next() {
		var r domain.DailySales
		if err := rows.Scan(
			&r.Day, &r.ChannelName,
			&r.Orders, &r.Quantity, &r.Revenue, &r.Settlement, &r.NetProfit,
		); err != nil {
			return nil, fmt.Errorf("scan sales daily: %w", err)
		}
		result = append(result, r)
	}
	err = rows.Err()
	observability.RecordDBQuery("clickhouse", "sales_daily", time.Since(began).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("iterate sales daily: %w", err)
	}

	return result, nil
}
