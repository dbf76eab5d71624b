// Package pricing computes channel prices and settlement figures for products.
//
// Every exported function returns a finite number. Missing, malformed or
// non-finite input reads as 0, so a partial product record still produces a
// snapshot the editor can render and undo.
package pricing

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber converts v to a float64. It accepts Go numeric kinds,
// json.Number, decimal.Decimal, *float64 and strings such as "12,345",
// " 3.5 " or "10%". Anything else, including NaN and ±Inf, is 0.
func ParseNumber(v any) float64 {
	var f float64

	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case *float64:
		if x == nil {
			return 0
		}
		f = *x
	case decimal.Decimal:
		f = x.InexactFloat64()
	case json.Number:
		f = parseNumericString(x.String())
	case string:
		f = parseNumericString(x)
	default:
		return 0
	}

	return finite(f)
}

// parseNumericString strips thousands separators, whitespace and a trailing
// percent sign before parsing.
func parseNumericString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// finite maps NaN and ±Inf to 0.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
