package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
)

// feeRateStepPercent is the discount width that lowers the fee rate by one point.
const feeRateStepPercent = 10

// CalculateFeeRate returns the channel fee rate in percent. When adjust is
// set and discountRatio is in (0, 1], the rate drops one point for every
// full 10% of discount, never below 0.
func CalculateFeeRate(ch domain.ChannelInfo, discountRatio float64, adjust bool) float64 {
	rate := ParseNumber(ch.AverageFeeRate)
	if rate <= 0 {
		return 0
	}
	if !adjust || !allFinite(discountRatio) || discountRatio <= 0 || discountRatio > 1 {
		return rate
	}

	// Round away float noise (0.19999999999999996) before flooring.
	steps := decimal.NewFromFloat(discountRatio).
		Mul(hundred).
		Round(6).
		Div(decimal.NewFromInt(feeRateStepPercent)).
		Floor().
		InexactFloat64()

	rate -= steps
	if rate < 0 {
		return 0
	}
	return rate
}

// CalculateCommissionFee returns the channel commission for p, computed on
// the discount price when set and the pricing price otherwise.
func CalculateCommissionFee(p domain.Product, ch domain.ChannelInfo, adjust bool) float64 {
	final := sellingPrice(p)
	if final <= 0 {
		return 0
	}

	rate := CalculateFeeRate(ch, DiscountRatio(p), adjust)
	fee := decimal.NewFromFloat(final).
		Mul(decimal.NewFromFloat(rate)).
		Div(hundred).
		Round(0)
	return finite(fee.InexactFloat64())
}

// CalculateSettlementAmount returns what the channel pays out for p:
// selling price minus commission minus the seller's discount burden.
func CalculateSettlementAmount(p domain.Product) float64 {
	price := sellingPrice(p)
	commission := domain.Value(p.ExpectedCommissionFee)
	burden := domain.Value(p.DiscountBurdenAmount)
	if !allFinite(price, commission, burden) {
		return 0
	}
	return finite(price - commission - burden)
}

// CalculateNetProfit returns settlement minus cost basis minus logistics.
func CalculateNetProfit(p domain.Product, ch domain.ChannelInfo) float64 {
	settlement := CalculateSettlementAmount(p)
	cost := CalculateBaseCost(p, ch)
	logistics := domain.Value(p.LogisticsCost)
	if !allFinite(settlement, cost, logistics) {
		return 0
	}
	return finite(settlement - cost - logistics)
}

// CalculateCostRatio returns cost as a percentage of finalPrice with two
// decimals, or 0 when finalPrice is 0.
func CalculateCostRatio(cost, finalPrice float64) float64 {
	if !allFinite(cost, finalPrice) || finalPrice == 0 {
		return 0
	}
	return finite(roundTo(cost/finalPrice*10000, 0) / 100)
}

// CalculateDetailedCostRatio returns the full cost load of p (cost basis,
// logistics and commission) as a percentage of its final discounted price.
func CalculateDetailedCostRatio(p domain.Product, ch domain.ChannelInfo) float64 {
	cost := CalculateBaseCost(p, ch) + num(p.LogisticsCost) + num(p.ExpectedCommissionFee)
	return CalculateCostRatio(cost, FinalDiscountedPrice(p))
}
