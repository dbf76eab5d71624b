package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
)

// Channel-specific constants.
const (
	// domesticCostSurcharge is applied to supplier cost on domestic channels (VAT).
	domesticCostSurcharge = 1.1

	// amazonChannel has its own logistics rule.
	amazonChannel = "amazon"
)

// shippingSurcharges are fixed amounts added to converted Japan/own-store prices.
var shippingSurcharges = map[string]float64{
	"qoo10_jp": 300,
}

// overseasMarkups multiply the converted overseas price for specific channels.
var overseasMarkups = map[string]float64{
	"shopee": 1.1,
	"lazada": 1.05,
}

func channelKey(ch domain.ChannelInfo) string {
	return strings.ToLower(strings.TrimSpace(ch.ChannelName))
}

// CalculateChannelPrice returns the listing price of p on ch.
//
//	domestic:          shop_price + markup
//	japan / own_store: round(global_price / rate) + digit adjustment (+ shipping surcharge)
//	overseas:          round(shop_price * markup / rate) + digit adjustment (× channel markup)
//
// Returns 0 when the channel is missing its type, markup or exchange rate.
func CalculateChannelPrice(p domain.Product, ch domain.ChannelInfo) float64 {
	if !ch.Type.IsValid() || !allFinite(ch.ExchangeRate, ch.MarkupRatio, ch.DigitAdjustment) {
		return 0
	}

	switch ch.Type {
	case domain.ChannelDomestic:
		if ch.MarkupRatio == 0 {
			return 0
		}
		return finite(num(p.ShopPrice) + ch.MarkupRatio)

	case domain.ChannelJapan, domain.ChannelOwnStore:
		if ch.ExchangeRate <= 0 {
			return 0
		}
		converted := decimal.NewFromFloat(num(p.GlobalPrice)).Div(decimal.NewFromFloat(ch.ExchangeRate))
		price := roundDecimal(converted, ch.RoundingRule, ch.RoundingDigits).InexactFloat64() + ch.DigitAdjustment
		if surcharge, ok := shippingSurcharges[channelKey(ch)]; ok {
			price += surcharge
		}
		return finite(price)

	case domain.ChannelOverseas:
		if ch.ExchangeRate <= 0 || ch.MarkupRatio == 0 {
			return 0
		}
		converted := decimal.NewFromFloat(num(p.ShopPrice)).
			Mul(decimal.NewFromFloat(ch.MarkupRatio)).
			Div(decimal.NewFromFloat(ch.ExchangeRate))
		price := roundDecimal(converted, ch.RoundingRule, ch.RoundingDigits).InexactFloat64() + ch.DigitAdjustment
		if markup, ok := overseasMarkups[channelKey(ch)]; ok {
			price *= markup
		}
		return finite(price)
	}

	return 0
}

// CalculateBaseCost returns the cost basis of p on ch: the adjusted cost when
// set, otherwise the supplier price converted by the exchange rate. Domestic
// channels add the VAT surcharge to the converted supplier price.
func CalculateBaseCost(p domain.Product, ch domain.ChannelInfo) float64 {
	if adjusted := num(p.AdjustedCost); adjusted != 0 {
		return adjusted
	}

	cost := num(p.OrgPrice)
	if rate := finite(ch.ExchangeRate); rate > 0 {
		cost /= rate
	}
	if ch.Type == domain.ChannelDomestic {
		cost *= domesticCostSurcharge
	}
	return finite(cost)
}

// CalculateLogisticsCost returns the per-item logistics cost for a delivery type.
// Amazon uses a per-item cost (override when given) doubled for free delivery;
// other channels convert the configured shipping fee by the exchange rate.
func CalculateLogisticsCost(ch domain.ChannelInfo, deliveryType string, amazonOverride *float64) float64 {
	rate := finite(ch.ExchangeRate)

	convert := func(fee float64) float64 {
		fee = finite(fee)
		if rate > 0 {
			return finite(fee / rate)
		}
		return fee
	}

	if channelKey(ch) == amazonChannel {
		perItem := convert(ch.ConditionalShippingFee)
		if amazonOverride != nil {
			perItem = finite(*amazonOverride)
		}
		switch deliveryType {
		case domain.DeliveryFree:
			return perItem * 2
		case domain.DeliveryConditional:
			return perItem
		}
		return 0
	}

	switch deliveryType {
	case domain.DeliveryFree:
		return convert(ch.FreeShippingFee)
	case domain.DeliveryConditional:
		return convert(ch.ConditionalShippingFee)
	}
	return 0
}
