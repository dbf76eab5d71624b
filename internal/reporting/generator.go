package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/pricing"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// Generator produces reports from stored product lists.
type Generator struct {
	lists    storage.ProductListStore
	channels storage.ChannelStore
	now      func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. channels may be nil.
func NewGenerator(lists storage.ProductListStore, channels storage.ChannelStore) *Generator {
	return &Generator{
		lists:    lists,
		channels: channels,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads the user's list and summarizes it under channelName.
// An empty channelName uses a zero channel.
func (g *Generator) Generate(ctx context.Context, userID, channelName string) (*Report, error) {
	products, err := g.lists.Load(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load product list: %w", err)
	}

	var ch *domain.ChannelInfo
	if channelName != "" {
		if g.channels == nil {
			return nil, errors.New("channel store not configured")
		}
		ch, err = g.channels.GetByName(ctx, channelName)
		if err != nil {
			return nil, fmt.Errorf("load channel %q: %w", channelName, err)
		}
	}

	return Build(userID, products, ch, g.now()), nil
}

// Build summarizes products. Stored derived fields are reported as-is;
// settlement and net profit are recomputed when missing.
func Build(userID string, products []domain.Product, ch *domain.ChannelInfo, at time.Time) *Report {
	var info domain.ChannelInfo
	if ch != nil {
		info = *ch
	}

	r := &Report{
		GeneratedAt: at,
		UserID:      userID,
		ChannelName: info.ChannelName,
		Rows:        make([]ProductRow, 0, len(products)),
	}

	section := ""
	for _, p := range products {
		if p.IsDivider {
			r.Summary.Dividers++
			section = p.ProductName
			continue
		}
		r.Summary.TotalProducts++

		final := pricing.FinalDiscountedPrice(p)
		row := ProductRow{
			Section:       section,
			ProductID:     p.ProductID,
			ProductName:   p.ProductName,
			PricingPrice:  value(p.PricingPrice),
			FinalPrice:    final,
			DiscountRate:  pricing.DiscountRateOf(p),
			CommissionFee: value(p.ExpectedCommissionFee),
			Settlement:    value(p.ExpectedSettlementAmount),
			NetProfit:     value(p.ExpectedNetProfit),
			CostRatio:     value(p.CostRatio),
		}
		if p.ExpectedSettlementAmount == nil {
			row.Settlement = pricing.CalculateSettlementAmount(p)
		}
		if p.ExpectedNetProfit == nil {
			row.NetProfit = pricing.CalculateNetProfit(p, info)
		}
		if final > 0 {
			r.Summary.PricedProducts++
		}
		r.Summary.TotalSettlement += row.Settlement
		r.Summary.TotalNetProfit += row.NetProfit
		r.Rows = append(r.Rows, row)
	}

	r.Summary.AverageDiscountRate = pricing.CalculateAverageDiscountRate(products)
	r.Summary.AverageCostRatio = pricing.CalculateAverageCostRatio(products, info)
	r.Summary.AverageProfitMargin = pricing.CalculateAverageProfitMargin(products, info)

	return r
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
