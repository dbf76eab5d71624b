package domain

import (
	"encoding/json"
	"fmt"
)

// EffectType tags why a snapshot changed. The set is closed: UI filters
// enumerate AllEffectTypes, so adding a tag means updating every filter.
type EffectType string

const (
	EffectPriceChange        EffectType = "PRICE_CHANGE"
	EffectDiscountChange     EffectType = "DISCOUNT_CHANGE"
	EffectCouponChange       EffectType = "COUPON_CHANGE"
	EffectLogisticsChange    EffectType = "LOGISTICS_CHANGE"
	EffectCostChange         EffectType = "COST_CHANGE"
	EffectCommissionChange   EffectType = "COMMISSION_CHANGE"
	EffectStockChange        EffectType = "STOCK_CHANGE"
	EffectProductAdd         EffectType = "PRODUCT_ADD"
	EffectProductRemove      EffectType = "PRODUCT_REMOVE"
	EffectProductReorder     EffectType = "PRODUCT_REORDER"
	EffectChannelChange      EffectType = "CHANNEL_CHANGE"
	EffectDeliveryTypeChange EffectType = "DELIVERY_TYPE_CHANGE"
	EffectDateChange         EffectType = "DATE_CHANGE"
	EffectMemoChange         EffectType = "MEMO_CHANGE"
	EffectColorChange        EffectType = "COLOR_CHANGE"
	EffectDividerChange      EffectType = "DIVIDER_CHANGE"
)

// AllEffectTypes lists every effect tag in display order.
var AllEffectTypes = []EffectType{
	EffectPriceChange,
	EffectDiscountChange,
	EffectCouponChange,
	EffectLogisticsChange,
	EffectCostChange,
	EffectCommissionChange,
	EffectStockChange,
	EffectProductAdd,
	EffectProductRemove,
	EffectProductReorder,
	EffectChannelChange,
	EffectDeliveryTypeChange,
	EffectDateChange,
	EffectMemoChange,
	EffectColorChange,
	EffectDividerChange,
}

// String returns the string representation of EffectType.
func (t EffectType) String() string {
	return string(t)
}

// IsValid checks if the effect type is one of the known tags.
func (t EffectType) IsValid() bool {
	_, ok := payloadDecoders[t]
	return ok
}

// AlwaysRecords reports whether a change of this type is committed even
// when the resulting snapshot compares equal to the current one.
// Reapplying a discount refreshes downstream fields and must stay undoable.
func (t EffectType) AlwaysRecords() bool {
	return t == EffectDiscountChange
}

// EffectPayload is the typed data attached to an effect. Each effect type
// has exactly one payload struct.
type EffectPayload interface {
	EffectType() EffectType
}

// PriceChangePayload records new pricing prices keyed by product id.
type PriceChangePayload struct {
	Values map[string]float64 `json:"values"`
}

// DiscountChangePayload records an immediate discount application.
type DiscountChangePayload struct {
	Rate        float64 `json:"rate"`
	Unit        string  `json:"unit"`
	RoundMode   string  `json:"round_mode,omitempty"`
	Granularity int     `json:"granularity,omitempty"`
}

// CouponChangePayload records a coupon application on one cascade level.
type CouponChangePayload struct {
	Level      int     `json:"level"` // 1..3
	Rate       float64 `json:"rate"`
	Unit       string  `json:"unit"`
	SelfBurden float64 `json:"self_burden"`
}

// LogisticsChangePayload records a logistics cost change.
type LogisticsChangePayload struct {
	DeliveryType string  `json:"delivery_type,omitempty"`
	Cost         float64 `json:"cost"`
}

// CostChangePayload records new adjusted costs keyed by product id.
type CostChangePayload struct {
	Values map[string]float64 `json:"values"`
}

// CommissionChangePayload records a commission recomputation.
type CommissionChangePayload struct {
	FeeAdjustment bool `json:"fee_adjustment"`
}

// StockChangePayload records new stock levels keyed by product id.
type StockChangePayload struct {
	Values map[string]float64 `json:"values"`
}

// ProductAddPayload records products appended to the list.
type ProductAddPayload struct {
	Count int `json:"count"`
}

// ProductRemovePayload records products removed from the list.
type ProductRemovePayload struct {
	Removed []string `json:"removed"`
}

// ProductReorderPayload records the list order after a reorder.
type ProductReorderPayload struct {
	Order []string `json:"order"`
}

// ChannelChangePayload records a switch of the pricing channel.
type ChannelChangePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DeliveryTypeChangePayload records a delivery type change.
type DeliveryTypeChangePayload struct {
	DeliveryType string `json:"delivery_type"`
}

// DateChangePayload records a sale period change.
type DateChangePayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// MemoChangePayload records a memo edit.
type MemoChangePayload struct {
	Memo string `json:"memo"`
}

// ColorChangePayload records a row highlight color change.
type ColorChangePayload struct {
	Color string `json:"color"`
}

// DividerChangePayload records a divider row toggle.
type DividerChangePayload struct {
	IsDivider bool `json:"is_divider"`
}

func (PriceChangePayload) EffectType() EffectType        { return EffectPriceChange }
func (DiscountChangePayload) EffectType() EffectType     { return EffectDiscountChange }
func (CouponChangePayload) EffectType() EffectType       { return EffectCouponChange }
func (LogisticsChangePayload) EffectType() EffectType    { return EffectLogisticsChange }
func (CostChangePayload) EffectType() EffectType         { return EffectCostChange }
func (CommissionChangePayload) EffectType() EffectType   { return EffectCommissionChange }
func (StockChangePayload) EffectType() EffectType        { return EffectStockChange }
func (ProductAddPayload) EffectType() EffectType         { return EffectProductAdd }
func (ProductRemovePayload) EffectType() EffectType      { return EffectProductRemove }
func (ProductReorderPayload) EffectType() EffectType     { return EffectProductReorder }
func (ChannelChangePayload) EffectType() EffectType      { return EffectChannelChange }
func (DeliveryTypeChangePayload) EffectType() EffectType { return EffectDeliveryTypeChange }
func (DateChangePayload) EffectType() EffectType         { return EffectDateChange }
func (MemoChangePayload) EffectType() EffectType         { return EffectMemoChange }
func (ColorChangePayload) EffectType() EffectType        { return EffectColorChange }
func (DividerChangePayload) EffectType() EffectType      { return EffectDividerChange }

// payloadDecoders decode the payload of each effect type into the value
// struct the editor stores, so decoded items compare and type-assert like
// freshly built ones.
var payloadDecoders = map[EffectType]func(json.RawMessage) (EffectPayload, error){
	EffectPriceChange:        decodePayload[PriceChangePayload],
	EffectDiscountChange:     decodePayload[DiscountChangePayload],
	EffectCouponChange:       decodePayload[CouponChangePayload],
	EffectLogisticsChange:    decodePayload[LogisticsChangePayload],
	EffectCostChange:         decodePayload[CostChangePayload],
	EffectCommissionChange:   decodePayload[CommissionChangePayload],
	EffectStockChange:        decodePayload[StockChangePayload],
	EffectProductAdd:         decodePayload[ProductAddPayload],
	EffectProductRemove:      decodePayload[ProductRemovePayload],
	EffectProductReorder:     decodePayload[ProductReorderPayload],
	EffectChannelChange:      decodePayload[ChannelChangePayload],
	EffectDeliveryTypeChange: decodePayload[DeliveryTypeChangePayload],
	EffectDateChange:         decodePayload[DateChangePayload],
	EffectMemoChange:         decodePayload[MemoChangePayload],
	EffectColorChange:        decodePayload[ColorChangePayload],
	EffectDividerChange:      decodePayload[DividerChangePayload],
}

func decodePayload[P EffectPayload](raw json.RawMessage) (EffectPayload, error) {
	var p P
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// EffectItem is one immutable entry of the effect log.
type EffectItem struct {
	ID          string        `json:"id"`
	Type        EffectType    `json:"type"`
	ProductIDs  []string      `json:"product_ids"`
	Timestamp   int64         `json:"timestamp"` // Unix ms
	Description string        `json:"description"`
	Payload     EffectPayload `json:"payload,omitempty"`
}

// References reports whether the effect lists productID among its products.
func (e EffectItem) References(productID string) bool {
	for _, id := range e.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// UnmarshalJSON decodes the payload into the struct registered for Type.
func (e *EffectItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string          `json:"id"`
		Type        EffectType      `json:"type"`
		ProductIDs  []string        `json:"product_ids"`
		Timestamp   int64           `json:"timestamp"`
		Description string          `json:"description"`
		Payload     json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decode, ok := payloadDecoders[raw.Type]
	if !ok {
		return fmt.Errorf("unknown effect type %q", raw.Type)
	}

	e.ID = raw.ID
	e.Type = raw.Type
	e.ProductIDs = raw.ProductIDs
	e.Timestamp = raw.Timestamp
	e.Description = raw.Description
	e.Payload = nil

	if len(raw.Payload) > 0 && string(raw.Payload) != "null" {
		payload, err := decode(raw.Payload)
		if err != nil {
			return fmt.Errorf("decode %s payload: %w", raw.Type, err)
		}
		e.Payload = payload
	}
	return nil
}

// ParseEffectType validates s as an effect tag.
func ParseEffectType(s string) (EffectType, error) {
	t := EffectType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown effect type %q", s)
	}
	return t, nil
}
