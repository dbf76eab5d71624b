package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// CalculateDiscount returns price reduced by ratePercent. With a granularity
// other than GranularityNone the result is rounded by mode to that unit
// (1 won, 10 won, 100 won); GranularityNone keeps the fractional result.
func CalculateDiscount(price, ratePercent float64, mode domain.RoundingRule, granularity Granularity) float64 {
	if !allFinite(price, ratePercent) {
		return 0
	}

	discounted := decimal.NewFromFloat(price).
		Mul(hundred.Sub(decimal.NewFromFloat(ratePercent))).
		Div(hundred)

	if granularity == GranularityNone || !granularity.IsValid() {
		return finite(discounted.InexactFloat64())
	}

	unit := decimal.NewFromInt(int64(granularity))
	rounded := roundDecimal(discounted.Div(unit), mode, 0).Mul(unit)
	return finite(rounded.InexactFloat64())
}

// FinalDiscountedPrice returns the effective price after the cascade:
// coupon 3, then coupon 2, then coupon 1, then the immediate discount,
// falling back to the pricing price.
func FinalDiscountedPrice(p domain.Product) float64 {
	for _, v := range []*float64{p.CouponPrice3, p.CouponPrice2, p.CouponPrice1, p.DiscountPrice} {
		if price := num(v); price > 0 {
			return price
		}
	}
	return num(p.PricingPrice)
}

// sellingPrice is the price commission and settlement are computed on:
// the immediate discount price when set, otherwise the pricing price.
func sellingPrice(p domain.Product) float64 {
	if d := num(p.DiscountPrice); d > 0 {
		return d
	}
	return num(p.PricingPrice)
}

// DiscountRateOf returns the total discount of p off its pricing price in
// percent (two decimals), or 0 when no discount is derivable.
func DiscountRateOf(p domain.Product) float64 {
	pricing := num(p.PricingPrice)
	final := FinalDiscountedPrice(p)
	if pricing <= 0 || final <= 0 || final >= pricing {
		return 0
	}
	rate := decimal.NewFromFloat(pricing - final).
		Div(decimal.NewFromFloat(pricing)).
		Mul(hundred).
		Round(2)
	return finite(rate.InexactFloat64())
}

// DiscountRatio returns the immediate discount as a fraction (0..1) of the
// pricing price, used to adjust fee rates.
func DiscountRatio(p domain.Product) float64 {
	pricing := num(p.PricingPrice)
	discounted := num(p.DiscountPrice)
	if pricing <= 0 || discounted <= 0 || discounted >= pricing {
		return 0
	}
	return finite((pricing - discounted) / pricing)
}

// CalculateDiscountBurden returns the seller-funded part of the coupon
// cascade: for each coupon level, the step below the previous price times
// that level's self-burden percentage, rounded to whole won.
func CalculateDiscountBurden(p domain.Product) float64 {
	prev := sellingPrice(p)
	coupons := []*float64{p.CouponPrice1, p.CouponPrice2, p.CouponPrice3}
	burdens := []*float64{p.SelfBurden1, p.SelfBurden2, p.SelfBurden3}

	total := decimal.Zero
	for i, c := range coupons {
		price := num(c)
		if price <= 0 {
			continue
		}
		if step := prev - price; step > 0 {
			share := decimal.NewFromFloat(step).Mul(decimal.NewFromFloat(num(burdens[i]))).Div(hundred)
			total = total.Add(share)
		}
		prev = price
	}
	return finite(total.Round(0).InexactFloat64())
}
