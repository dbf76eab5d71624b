package undo

import "github.com/hublishing/fnsretail-sub001/internal/domain"

// pricingFieldsEqual compares two lists of equal length position by
// position over the fields that make up a product's price.
func pricingFieldsEqual(a, b []domain.Product) bool {
	for i := range a {
		if !samePricing(a[i], b[i]) {
			return false
		}
	}
	return true
}

func samePricing(a, b domain.Product) bool {
	return a.ProductID == b.ProductID &&
		a.DiscountUnit == b.DiscountUnit &&
		sameAmount(a.DiscountPrice, b.DiscountPrice) &&
		sameAmount(a.Discount, b.Discount) &&
		sameAmount(a.DiscountRate, b.DiscountRate) &&
		sameAmount(a.CouponPrice1, b.CouponPrice1) &&
		sameAmount(a.CouponPrice2, b.CouponPrice2) &&
		sameAmount(a.CouponPrice3, b.CouponPrice3) &&
		sameAmount(a.SelfBurden1, b.SelfBurden1) &&
		sameAmount(a.SelfBurden2, b.SelfBurden2) &&
		sameAmount(a.SelfBurden3, b.SelfBurden3) &&
		sameAmount(a.DiscountBurdenAmount, b.DiscountBurdenAmount) &&
		sameAmount(a.PricingPrice, b.PricingPrice) &&
		sameAmount(a.ShopPrice, b.ShopPrice) &&
		sameAmount(a.TotalPrice, b.TotalPrice)
}

// sameAmount treats two absent values as equal and absent as different
// from any present value, zero included.
func sameAmount(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
