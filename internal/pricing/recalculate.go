package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
)

// Options controls the recalculation pipeline.
type Options struct {
	// FeeAdjustment lowers the fee rate with the discount ratio.
	FeeAdjustment bool
}

// OptionsFor returns the recalculation options configured on a channel.
func OptionsFor(ch domain.ChannelInfo) Options {
	return Options{FeeAdjustment: ch.UseFeeAdjustment}
}

// Recalculate returns a copy of p with every derived field recomputed:
// discount burden, total price, commission, settlement, net profit and
// cost ratio. The input is never modified.
func Recalculate(p domain.Product, ch domain.ChannelInfo, opts Options) domain.Product {
	out := p.Clone()
	if out.IsDivider {
		return out
	}

	out.DiscountBurdenAmount = domain.Amount(CalculateDiscountBurden(out))
	out.TotalPrice = domain.Amount(FinalDiscountedPrice(out))
	out.ExpectedCommissionFee = domain.Amount(CalculateCommissionFee(out, ch, opts.FeeAdjustment))
	out.ExpectedSettlementAmount = domain.Amount(CalculateSettlementAmount(out))
	out.ExpectedNetProfit = domain.Amount(CalculateNetProfit(out, ch))
	out.CostRatio = domain.Amount(CalculateDetailedCostRatio(out, ch))
	return out
}

// RecalculateAll recalculates every product of a list into a new list.
func RecalculateAll(products []domain.Product, ch domain.ChannelInfo, opts Options) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = Recalculate(p, ch, opts)
	}
	return out
}

// Reprice sets the pricing price of p from the channel formula and the
// logistics cost from the channel shipping table, then recalculates.
// A channel that yields no price leaves the existing pricing price.
func Reprice(p domain.Product, ch domain.ChannelInfo, opts Options) domain.Product {
	out := p.Clone()
	if price := CalculateChannelPrice(out, ch); price > 0 {
		out.PricingPrice = domain.Amount(price)
	}
	if out.DeliveryType != "" {
		out.LogisticsCost = domain.Amount(CalculateLogisticsCost(ch, out.DeliveryType, nil))
	}
	return Recalculate(out, ch, opts)
}

// DiscountRequest describes an immediate discount. Rate is a percentage
// when Unit is DiscountUnitPercent and a won amount otherwise.
type DiscountRequest struct {
	Rate        float64
	Unit        string
	RoundMode   domain.RoundingRule
	Granularity Granularity
}

// ApplyDiscount returns p with the immediate discount applied and derived
// fields recomputed. A zero rate clears the discount.
func ApplyDiscount(p domain.Product, ch domain.ChannelInfo, req DiscountRequest, opts Options) domain.Product {
	out := p.Clone()
	pricing := num(out.PricingPrice)
	rate := finite(req.Rate)

	if rate <= 0 || pricing <= 0 {
		out.DiscountPrice = nil
		out.Discount = nil
		out.DiscountRate = nil
		out.DiscountUnit = ""
		return Recalculate(out, ch, opts)
	}

	var discounted float64
	if req.Unit == domain.DiscountUnitAmount {
		discounted = pricing - rate
		if discounted < 0 {
			discounted = 0
		}
	} else {
		discounted = CalculateDiscount(pricing, rate, req.RoundMode, req.Granularity)
	}

	amount := pricing - discounted
	percent := decimal.NewFromFloat(amount).Div(decimal.NewFromFloat(pricing)).Mul(hundred).Round(2)

	unit := req.Unit
	if unit == "" {
		unit = domain.DiscountUnitPercent
	}

	out.DiscountPrice = domain.Amount(discounted)
	out.Discount = domain.Amount(amount)
	out.DiscountRate = domain.Amount(finite(percent.InexactFloat64()))
	out.DiscountUnit = unit
	return Recalculate(out, ch, opts)
}

// CouponRequest describes a coupon on one cascade level (1..3).
type CouponRequest struct {
	Level       int
	Rate        float64
	Unit        string
	SelfBurden  float64 // seller share in percent
	RoundMode   domain.RoundingRule
	Granularity Granularity
}

// couponBase returns the price a coupon of the given level applies to:
// the nearest lower coupon level that is set, else the selling price.
func couponBase(p domain.Product, level int) float64 {
	if level >= 3 {
		if c2 := num(p.CouponPrice2); c2 > 0 {
			return c2
		}
	}
	if level >= 2 {
		if c1 := num(p.CouponPrice1); c1 > 0 {
			return c1
		}
	}
	return sellingPrice(p)
}

// ApplyCoupon returns p with a coupon applied on req.Level and derived
// fields recomputed. A zero rate clears that level. Levels outside 1..3
// return an unchanged recalculated copy.
func ApplyCoupon(p domain.Product, ch domain.ChannelInfo, req CouponRequest, opts Options) domain.Product {
	out := p.Clone()

	var price, burden **float64
	switch req.Level {
	case 1:
		price, burden = &out.CouponPrice1, &out.SelfBurden1
	case 2:
		price, burden = &out.CouponPrice2, &out.SelfBurden2
	case 3:
		price, burden = &out.CouponPrice3, &out.SelfBurden3
	default:
		return Recalculate(out, ch, opts)
	}

	rate := finite(req.Rate)
	if rate <= 0 {
		*price = nil
		*burden = nil
		return Recalculate(out, ch, opts)
	}

	base := couponBase(out, req.Level)
	var couponPrice float64
	if req.Unit == domain.DiscountUnitAmount {
		couponPrice = base - rate
		if couponPrice < 0 {
			couponPrice = 0
		}
	} else {
		couponPrice = CalculateDiscount(base, rate, req.RoundMode, req.Granularity)
	}

	*price = domain.Amount(couponPrice)
	*burden = domain.Amount(finite(req.SelfBurden))
	return Recalculate(out, ch, opts)
}
