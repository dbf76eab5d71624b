package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/observability"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// ChannelStore implements storage.ChannelStore over the warehouse
// channel_configs table.
type ChannelStore struct {
	conn *Conn
}

// NewChannelStore creates a new ChannelStore.
func NewChannelStore(conn *Conn) *ChannelStore {
	return &ChannelStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ChannelStore = (*ChannelStore)(nil)

const channelColumns = `
	channel_name, channel_type, exchange_rate, markup_ratio,
	rounding_rule, rounding_digits, digit_adjustment,
	average_fee_rate, use_fee_adjustment, free_shipping_fee, conditional_shipping_fee
`

// Insert writes a channel row. Returns ErrDuplicateKey if channel_name exists.
func (s *ChannelStore) Insert(ctx context.Context, ch *domain.ChannelInfo) error {
	if ch == nil || ch.ChannelName == "" || !ch.Type.IsValid() {
		return storage.ErrInvalidInput
	}

	// ReplacingMergeTree would replace the row; keep insert-only semantics.
	if _, err := s.GetByName(ctx, ch.ChannelName); err == nil {
		return storage.ErrDuplicateKey
	} else if err != storage.ErrNotFound {
		return fmt.Errorf("check exists: %w", err)
	}

	query := `INSERT INTO channel_configs (` + channelColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var useAdjust uint8
	if ch.UseFeeAdjustment {
		useAdjust = 1
	}

	err := s.conn.Exec(ctx, query,
		ch.ChannelName, string(ch.Type), ch.ExchangeRate, ch.MarkupRatio,
		string(ch.RoundingRule), ch.RoundingDigits, ch.DigitAdjustment,
		ch.AverageFeeRate, useAdjust, ch.FreeShippingFee, ch.ConditionalShippingFee,
	)
	if err != nil {
		return fmt.Errorf("insert channel config: %w", err)
	}
	return nil
}

// GetByName retrieves a channel by name. Returns ErrNotFound if not exists.
func (s *ChannelStore) GetByName(ctx context.Context, name string) (*domain.ChannelInfo, error) {
	start := time.Now()

	query := `
		SELECT ` + channelColumns + `
		FROM channel_configs FINAL
		WHERE channel_name = ?
		LIMIT 1
	`

	row := s.conn.QueryRow(ctx, query, name)
	ch, err := scanChannel(row)
	if err != nil {
		if isNotFoundError(err) {
			observability.RecordDBQuery("clickhouse", "get_channel", time.Since(start).Seconds(), nil)
			return nil, storage.ErrNotFound
		}
		observability.RecordDBQuery("clickhouse", "get_channel", time.Since(start).Seconds(), err)
		return nil, fmt.Errorf("get channel by name: %w", err)
	}

	observability.RecordDBQuery("clickhouse", "get_channel", time.Since(start).Seconds(), nil)
	return ch, nil
}

// List retrieves all channels ordered by name.
func (s *ChannelStore) List(ctx context.Context) ([]domain.ChannelInfo, error) {
	start := time.Now()

	query := `
		SELECT ` + channelColumns + `
		FROM channel_configs FINAL
		ORDER BY channel_name ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		observability.RecordDBQuery("clickhouse", "list_channels", time.Since(start).Seconds(), err)
		return nil, fmt.Errorf("query channel configs: %w", err)
	}
	defer rows.Close()

	result := make([]domain.ChannelInfo, 0)
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel config: %w", err)
		}
		result = append(result, *ch)
	}
	err = rows.Err()
	observability.RecordDBQuery("clickhouse", "list_channels", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("iterate channel configs: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChannel(row scanner) (*domain.ChannelInfo, error) {
	var (
		ch           domain.ChannelInfo
		channelType  string
		roundingRule string
		useAdjust    uint8
	)
	err := row.Scan(
		&ch.ChannelName, &channelType, &ch.ExchangeRate, &ch.MarkupRatio,
		&roundingRule, &ch.RoundingDigits, &ch.DigitAdjustment,
		&ch.AverageFeeRate, &useAdjust, &ch.FreeShippingFee, &ch.ConditionalShippingFee,
	)
	if err != nil {
		return nil, err
	}
	ch.Type = domain.ChannelType(channelType)
	ch.RoundingRule = domain.RoundingRule(roundingRule)
	ch.UseFeeAdjustment = useAdjust == 1
	return &ch, nil
}
