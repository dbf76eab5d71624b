package pricing

import "github.com/hublishing/fnsretail-sub001/internal/domain"

// CalculateAverageDiscountRate returns the mean discount rate over products
// that carry a positive derivable discount. Divider rows are skipped.
func CalculateAverageDiscountRate(products []domain.Product) float64 {
	var rates []float64
	for _, p := range products {
		if p.IsDivider {
			continue
		}
		if rate := DiscountRateOf(p); rate > 0 {
			rates = append(rates, rate)
		}
	}
	return roundTo(mean(rates), 2)
}

// CalculateAverageCostRatio returns the mean cost-basis ratio over priced products.
func CalculateAverageCostRatio(products []domain.Product, ch domain.ChannelInfo) float64 {
	var ratios []float64
	for _, p := range products {
		if p.IsDivider {
			continue
		}
		final := FinalDiscountedPrice(p)
		if final <= 0 {
			continue
		}
		ratios = append(ratios, CalculateCostRatio(CalculateBaseCost(p, ch), final))
	}
	return roundTo(mean(ratios), 2)
}

// CalculateAverageProfitMargin returns the mean of net profit over final
// price (percent) across priced products.
func CalculateAverageProfitMargin(products []domain.Product, ch domain.ChannelInfo) float64 {
	var margins []float64
	for _, p := range products {
		if p.IsDivider {
			continue
		}
		final := FinalDiscountedPrice(p)
		if final <= 0 {
			continue
		}
		margins = append(margins, CalculateCostRatio(CalculateNetProfit(p, ch), final))
	}
	return roundTo(mean(margins), 2)
}

// mean calculates the arithmetic mean, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return finite(sum / float64(len(values)))
}
