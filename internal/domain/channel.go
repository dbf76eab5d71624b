package domain

// ChannelType selects the channel price formula.
type ChannelType string

const (
	ChannelDomestic ChannelType = "domestic"
	ChannelOverseas ChannelType = "overseas"
	ChannelJapan    ChannelType = "japan"
	ChannelOwnStore ChannelType = "own_store"
)

// String returns the string representation of ChannelType.
func (t ChannelType) String() string {
	return string(t)
}

// IsValid checks if the channel type is a valid value.
func (t ChannelType) IsValid() bool {
	switch t {
	case ChannelDomestic, ChannelOverseas, ChannelJapan, ChannelOwnStore:
		return true
	}
	return false
}

// RoundingRule is the rounding direction applied to converted prices.
type RoundingRule string

const (
	RoundHalfUp RoundingRule = "round"
	RoundFloor  RoundingRule = "floor"
	RoundCeil   RoundingRule = "ceil"
)

// ChannelInfo describes how a sales channel prices products.
// Loaded from the warehouse channel_configs table; read-only during a computation.
type ChannelInfo struct {
	ChannelName     string       `json:"channel_name"`
	Type            ChannelType  `json:"type"`
	ExchangeRate    float64      `json:"exchange_rate"`   // KRW per unit of channel currency
	MarkupRatio     float64      `json:"markup_ratio"`    // additive for domestic, multiplicative otherwise
	RoundingRule    RoundingRule `json:"rounding_rule"`   // empty reads as RoundHalfUp
	RoundingDigits  int32        `json:"rounding_digits"` // decimal places; negative rounds to tens, hundreds...
	DigitAdjustment float64      `json:"digit_adjustment"`

	AverageFeeRate         string  `json:"average_fee_rate"` // e.g. "10%" or "10.5"
	UseFeeAdjustment       bool    `json:"use_fee_adjustment"`
	FreeShippingFee        float64 `json:"free_shipping_fee"`
	ConditionalShippingFee float64 `json:"conditional_shipping_fee"`
}
