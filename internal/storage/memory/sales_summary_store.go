package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// SalesSummaryStore is an in-memory implementation of storage.SalesSummaryStore.
type SalesSummaryStore struct {
	mu   sync.RWMutex
	rows []domain.DailySales
}

// NewSalesSummaryStore creates a new in-memory sales summary store.
func NewSalesSummaryStore() *SalesSummaryStore {
	return &SalesSummaryStore{}
}

// InsertBulk appends rows.
func (s *SalesSummaryStore) InsertBulk(_ context.Context, rows []domain.DailySales) error {
	for _, r := range rows {
		if r.ChannelName == "" || r.Day.IsZero() {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append(s.rows, rows...)
	return nil
}

// DailyByChannel retrieves rows for a channel within [start, end] (inclusive, day precision).
func (s *SalesSummaryStore) DailyByChannel(_ context.Context, channel string, start, end time.Time) ([]domain.DailySales, error) {
	from := truncateDay(start)
	to := truncateDay(end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.DailySales, 0)
	for _, r := range s.rows {
		day := truncateDay(r.Day)
		if r.ChannelName == channel && !day.Before(from) && !day.After(to) {
			result = append(result, r)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Day.Before(result[j].Day)
	})

	return result, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ storage.SalesSummaryStore = (*SalesSummaryStore)(nil)
