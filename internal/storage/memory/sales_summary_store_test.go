package memory

import (
	"context"
	"testing"
	"time"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
)

func TestSalesSummaryStore_DailyByChannel(t *testing.T) {
	store := NewSalesSummaryStore()
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	rows := []domain.DailySales{
		{Day: day(3), ChannelName: "smartstore", Orders: 3, Revenue: 30000},
		{Day: day(1), ChannelName: "smartstore", Orders: 1, Revenue: 10000},
		{Day: day(2), ChannelName: "coupang", Orders: 5, Revenue: 50000},
		{Day: day(5), ChannelName: "smartstore", Orders: 9, Revenue: 90000},
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	// End bound is a time within day 3, still inclusive of that day.
	result, err := store.DailyByChannel(ctx, "smartstore", day(1), day(3).Add(15*time.Hour))
	if err != nil {
		t.Fatalf("DailyByChannel failed: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(result))
	}

	if !result[0].Day.Equal(day(1)) || !result[1].Day.Equal(day(3)) {
		t.Errorf("Expected rows ordered by day, got %v, %v", result[0].Day, result[1].Day)
	}
}
