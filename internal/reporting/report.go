package reporting

import "time"

// Report is the pricing summary of one user's product list.
type Report struct {
	GeneratedAt time.Time
	UserID      string
	ChannelName string // empty when no channel is selected

	Summary Summary

	// Rows in list order, dividers excluded.
	Rows []ProductRow
}

// Summary holds list-level figures.
type Summary struct {
	TotalProducts  int
	PricedProducts int // non-divider rows with a positive final price
	Dividers       int

	AverageDiscountRate float64 // percent
	AverageCostRatio    float64 // percent
	AverageProfitMargin float64 // percent

	TotalSettlement float64
	TotalNetProfit  float64
}

// ProductRow is one product line of the report.
type ProductRow struct {
	Section       string // name of the nearest divider above, if any
	ProductID     string
	ProductName   string
	PricingPrice  float64
	FinalPrice    float64 // after discount and coupons
	DiscountRate  float64
	CommissionFee float64
	Settlement    float64
	NetProfit     float64
	CostRatio     float64
}
