package storage

import (
	"context"
	"time"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
)

// ProductListStore keeps the editor's product list, one document per user.
type ProductListStore interface {
	// Load returns the saved list. Returns ErrNotFound if the user never saved one.
	Load(ctx context.Context, userID string) ([]domain.Product, error)

	// Save replaces the user's list. Returns ErrInvalidInput for an empty user id.
	Save(ctx context.Context, userID string, products []domain.Product) error
}

// ChannelStore provides read access to sales channel configuration.
type ChannelStore interface {
	// GetByName retrieves a channel by name. Returns ErrNotFound if not exists.
	GetByName(ctx context.Context, name string) (*domain.ChannelInfo, error)

	// List retrieves all channels ordered by name.
	List(ctx context.Context) ([]domain.ChannelInfo, error)
}

// SalesSummaryStore provides dashboard reads over settled sales.
type SalesSummaryStore interface {
	// DailyByChannel retrieves daily rows for a channel within [start, end]
	// (inclusive, day precision), ordered by day ASC.
	DailyByChannel(ctx context.Context, channel string, start, end time.Time) ([]domain.DailySales, error)
}
