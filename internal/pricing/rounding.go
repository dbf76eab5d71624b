package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
)

// Granularity is the unit a discounted price is rounded to.
type Granularity int

const (
	GranularityNone    Granularity = 0 // keep the fractional result
	GranularityOne     Granularity = 1
	GranularityTen     Granularity = 10
	GranularityHundred Granularity = 100
)

// IsValid checks if the granularity is a supported value.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityNone, GranularityOne, GranularityTen, GranularityHundred:
		return true
	}
	return false
}

// roundDecimal rounds d to places using rule. Negative places round to
// tens, hundreds and so on. An empty rule rounds halves up, toward
// positive infinity, so -2.5 becomes -2.
func roundDecimal(d decimal.Decimal, rule domain.RoundingRule, places int32) decimal.Decimal {
	switch rule {
	case domain.RoundFloor:
		return d.RoundFloor(places)
	case domain.RoundCeil:
		return d.RoundCeil(places)
	default:
		return d.Add(decimal.New(5, -(places + 1))).RoundFloor(places)
	}
}

// roundBy rounds a float the way a channel's rounding rule asks.
func roundBy(f float64, rule domain.RoundingRule, places int32) float64 {
	if !allFinite(f) {
		return 0
	}
	return roundDecimal(decimal.NewFromFloat(f), rule, places).InexactFloat64()
}

// roundTo rounds half up to places decimals.
func roundTo(f float64, places int32) float64 {
	return roundBy(f, domain.RoundHalfUp, places)
}

// num reads an optional field as a finite number.
func num(v *float64) float64 {
	return finite(domain.Value(v))
}
