// Package domain holds the product, channel and effect types shared by the
// pricing editor packages.
package domain

import "reflect"

// Product is one sellable line in a pricing editor session.
// Numeric fields are optional; calculators treat a nil field as 0.
// Products are copy-on-write: edits build a new slice via CloneProducts
// and never write through a value that a history snapshot may hold.
type Product struct {
	ProductID   string `json:"product_id"` // unique within one list only
	ProductName string `json:"product_name,omitempty"`

	// Source prices
	OrgPrice    *float64 `json:"org_price,omitempty"`    // supplier price (KRW)
	ShopPrice   *float64 `json:"shop_price,omitempty"`   // own-mall list price
	GlobalPrice *float64 `json:"global_price,omitempty"` // global list price (KRW)

	// Channel pricing and the discount / coupon cascade
	PricingPrice         *float64 `json:"pricing_price,omitempty"`
	DiscountPrice        *float64 `json:"discount_price,omitempty"`
	Discount             *float64 `json:"discount,omitempty"`      // absolute discount amount
	DiscountRate         *float64 `json:"discount_rate,omitempty"` // percent
	DiscountUnit         string   `json:"discount_unit,omitempty"` // DiscountUnitPercent | DiscountUnitAmount
	CouponPrice1         *float64 `json:"coupon_price_1,omitempty"`
	CouponPrice2         *float64 `json:"coupon_price_2,omitempty"`
	CouponPrice3         *float64 `json:"coupon_price_3,omitempty"`
	SelfBurden1          *float64 `json:"self_burden_1,omitempty"` // seller share of coupon 1 (%)
	SelfBurden2          *float64 `json:"self_burden_2,omitempty"`
	SelfBurden3          *float64 `json:"self_burden_3,omitempty"`
	DiscountBurdenAmount *float64 `json:"discount_burden_amount,omitempty"`
	TotalPrice           *float64 `json:"total_price,omitempty"`

	// Derived settlement fields
	AdjustedCost             *float64 `json:"adjusted_cost,omitempty"`
	ExpectedCommissionFee    *float64 `json:"expected_commission_fee,omitempty"`
	ExpectedSettlementAmount *float64 `json:"expected_settlement_amount,omitempty"`
	ExpectedNetProfit        *float64 `json:"expected_net_profit,omitempty"`
	CostRatio                *float64 `json:"cost_ratio,omitempty"`
	LogisticsCost            *float64 `json:"logistics_cost,omitempty"`

	// Editor-only attributes
	Stock        *float64 `json:"stock,omitempty"`
	DeliveryType string   `json:"delivery_type,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Memo         string   `json:"memo,omitempty"`
	Color        string   `json:"color,omitempty"`
	IsDivider    bool     `json:"is_divider,omitempty"`
}

// Discount units.
const (
	DiscountUnitPercent = "%"
	DiscountUnitAmount  = "원"
)

// Delivery types.
const (
	DeliveryFree        = "free"
	DeliveryConditional = "conditional"
)

// Amount returns a pointer to v, for populating optional numeric fields.
func Amount(v float64) *float64 {
	return &v
}

// Value dereferences an optional numeric field; nil reads as 0.
func Value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func cloneAmount(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Clone returns a copy of p that shares no pointers with it.
func (p Product) Clone() Product {
	c := p

	c.OrgPrice = cloneAmount(p.OrgPrice)
	c.ShopPrice = cloneAmount(p.ShopPrice)
	c.GlobalPrice = cloneAmount(p.GlobalPrice)

	c.PricingPrice = cloneAmount(p.PricingPrice)
	c.DiscountPrice = cloneAmount(p.DiscountPrice)
	c.Discount = cloneAmount(p.Discount)
	c.DiscountRate = cloneAmount(p.DiscountRate)
	c.CouponPrice1 = cloneAmount(p.CouponPrice1)
	c.CouponPrice2 = cloneAmount(p.CouponPrice2)
	c.CouponPrice3 = cloneAmount(p.CouponPrice3)
	c.SelfBurden1 = cloneAmount(p.SelfBurden1)
	c.SelfBurden2 = cloneAmount(p.SelfBurden2)
	c.SelfBurden3 = cloneAmount(p.SelfBurden3)
	c.DiscountBurdenAmount = cloneAmount(p.DiscountBurdenAmount)
	c.TotalPrice = cloneAmount(p.TotalPrice)

	c.AdjustedCost = cloneAmount(p.AdjustedCost)
	c.ExpectedCommissionFee = cloneAmount(p.ExpectedCommissionFee)
	c.ExpectedSettlementAmount = cloneAmount(p.ExpectedSettlementAmount)
	c.ExpectedNetProfit = cloneAmount(p.ExpectedNetProfit)
	c.CostRatio = cloneAmount(p.CostRatio)
	c.LogisticsCost = cloneAmount(p.LogisticsCost)

	c.Stock = cloneAmount(p.Stock)
	return c
}

// CloneProducts deep-copies a product list. A nil list clones to an empty one.
func CloneProducts(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

// ProductsEqual reports whether two lists are structurally equal.
// Nil and empty lists compare equal.
func ProductsEqual(a, b []Product) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ProductIDs returns the ids of products in list order.
func ProductIDs(products []Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ProductID)
	}
	return ids
}

// IndexByID returns the position of the product with the given id, or -1.
func IndexByID(products []Product, productID string) int {
	for i := range products {
		if products[i].ProductID == productID {
			return i
		}
	}
	return -1
}
