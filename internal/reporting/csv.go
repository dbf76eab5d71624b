package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"section", "product_id", "product_name", "pricing_price", "final_price",
	"discount_rate", "commission_fee", "settlement", "net_profit", "cost_ratio",
}

// RenderCSV renders product rows as CSV string.
func RenderCSV(rows []ProductRow) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	// strings.Builder never fails a write.
	_ = w.Write(csvHeader)
	for _, r := range rows {
		_ = w.Write([]string{
			r.Section,
			r.ProductID,
			r.ProductName,
			formatAmount(r.PricingPrice),
			formatAmount(r.FinalPrice),
			formatRate(r.DiscountRate),
			formatAmount(r.CommissionFee),
			formatAmount(r.Settlement),
			formatAmount(r.NetProfit),
			formatRate(r.CostRatio),
		})
	}
	w.Flush()

	return sb.String()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
