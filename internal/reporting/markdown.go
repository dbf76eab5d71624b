package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Pricing Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	channel := r.ChannelName
	if channel == "" {
		channel = "(none)"
	}
	sb.WriteString(fmt.Sprintf("User: %s | Channel: %s\n\n", r.UserID, channel))

	// Summary
	s := r.Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Products | %d |\n", s.TotalProducts))
	sb.WriteString(fmt.Sprintf("| Priced Products | %d |\n", s.PricedProducts))
	sb.WriteString(fmt.Sprintf("| Sections | %d |\n", s.Dividers))
	sb.WriteString(fmt.Sprintf("| Average Discount Rate | %.2f%% |\n", s.AverageDiscountRate))
	sb.WriteString(fmt.Sprintf("| Average Cost Ratio | %.2f%% |\n", s.AverageCostRatio))
	sb.WriteString(fmt.Sprintf("| Average Profit Margin | %.2f%% |\n", s.AverageProfitMargin))
	sb.WriteString(fmt.Sprintf("| Total Settlement | %s |\n", formatAmount(s.TotalSettlement)))
	sb.WriteString(fmt.Sprintf("| Total Net Profit | %s |\n", formatAmount(s.TotalNetProfit)))
	sb.WriteString("\n")

	// Products
	sb.WriteString("## Products\n\n")
	if len(r.Rows) == 0 {
		sb.WriteString("No products in the list.\n")
		return sb.String()
	}

	section := ""
	for i, row := range r.Rows {
		if i == 0 || row.Section != section {
			section = row.Section
			if section != "" {
				sb.WriteString(fmt.Sprintf("### %s\n\n", escapeCell(section)))
			}
			sb.WriteString("| ID | Name | Pricing | Final | Discount | Commission | Settlement | Net Profit | Cost Ratio |\n")
			sb.WriteString("|----|------|---------|-------|----------|------------|------------|------------|------------|\n")
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.2f%% | %s | %s | %s | %.2f%% |\n",
			escapeCell(row.ProductID), escapeCell(row.ProductName),
			formatAmount(row.PricingPrice), formatAmount(row.FinalPrice), row.DiscountRate,
			formatAmount(row.CommissionFee), formatAmount(row.Settlement), formatAmount(row.NetProfit),
			row.CostRatio))
		if i+1 < len(r.Rows) && r.Rows[i+1].Section != section {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
