package editor

import (
	"fmt"
	"time"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/observability"
	"github.com/hublishing/fnsretail-sub001/internal/pricing"
	"github.com/hublishing/fnsretail-sub001/internal/undo"
)

const dateLayout = "2006-01-02"

// mutation builds the next product list from a private copy of the
// committed one. It runs with s.mu held.
type mutation func(products []domain.Product) ([]domain.Product, undo.Change, error)

// edit applies m and commits its result. It reports whether a history
// entry was created; validation failures leave the session untouched.
func (s *Session) edit(action string, m mutation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSessionClosed
	}

	s.onRecorded = nil
	next, change, err := m(domain.CloneProducts(s.products))
	after := s.onRecorded
	s.onRecorded = nil
	observability.RecordAction(action, err)
	if err != nil {
		return false, err
	}

	recorded := s.undo.Commit(next, change)
	if recorded && after != nil {
		after()
	}
	s.publishLocked(false)
	return recorded, nil
}

func (s *Session) channelInfo() domain.ChannelInfo {
	if s.channel == nil {
		return domain.ChannelInfo{}
	}
	return *s.channel
}

func (s *Session) options() pricing.Options {
	return pricing.OptionsFor(s.channelInfo())
}

// resolve maps ids to list positions. No ids selects every non-divider row.
func resolve(products []domain.Product, ids []string) ([]int, error) {
	if len(ids) == 0 {
		idx := make([]int, 0, len(products))
		for i, p := range products {
			if !p.IsDivider {
				idx = append(idx, i)
			}
		}
		return idx, nil
	}

	idx := make([]int, 0, len(ids))
	for _, id := range ids {
		i := domain.IndexByID(products, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
		}
		idx = append(idx, i)
	}
	return idx, nil
}

func idsAt(products []domain.Product, idx []int) []string {
	ids := make([]string, len(idx))
	for n, i := range idx {
		ids[n] = products[i].ProductID
	}
	return ids
}

// resolveValues maps per-product values to positions in list order.
func resolveValues(products []domain.Product, values map[string]float64) ([]int, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values", ErrInvalidArgument)
	}
	for id, v := range values {
		if domain.IndexByID(products, id) < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: negative value for %s", ErrInvalidArgument, id)
		}
	}

	idx := make([]int, 0, len(values))
	for i, p := range products {
		if _, ok := values[p.ProductID]; ok {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

func copyValues(values map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

func validUnit(unit string) bool {
	return unit == "" || unit == domain.DiscountUnitPercent || unit == domain.DiscountUnitAmount
}

func unitLabel(unit string) string {
	if unit == "" {
		return domain.DiscountUnitPercent
	}
	return unit
}

// ApplyDiscount applies an immediate discount to ids, or to every row when
// ids is empty. A zero rate clears the discount. Always recorded.
func (s *Session) ApplyDiscount(ids []string, req pricing.DiscountRequest) (bool, error) {
	return s.edit("apply_discount", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		if req.Rate < 0 || !req.Granularity.IsValid() || !validUnit(req.Unit) {
			return nil, undo.Change{}, fmt.Errorf("%w: discount %v", ErrInvalidArgument, req)
		}
		if req.Unit == domain.DiscountUnitPercent && req.Rate > 100 {
			return nil, undo.Change{}, fmt.Errorf("%w: discount rate above 100%%", ErrInvalidArgument)
		}
		idx, err := resolve(products, ids)
		if err != nil {
			return nil, undo.Change{}, err
		}

		ch, opts := s.channelInfo(), s.options()
		for _, i := range idx {
			products[i] = pricing.ApplyDiscount(products[i], ch, req, opts)
		}

		change := undo.NewChange(domain.EffectDiscountChange, idsAt(products, idx),
			fmt.Sprintf("discount %g%s on %d products", req.Rate, unitLabel(req.Unit), len(idx)),
			domain.DiscountChangePayload{
				Rate:        req.Rate,
				Unit:        unitLabel(req.Unit),
				RoundMode:   string(req.RoundMode),
				Granularity: int(req.Granularity),
			})
		return products, change, nil
	})
}

// ApplyCoupon applies a coupon on one cascade level to ids, or to every
// row when ids is empty. A zero rate clears that level.
func (s *Session) ApplyCoupon(ids []string, req pricing.CouponRequest) (bool, error) {
	return s.edit("apply_coupon", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		if req.Level < 1 || req.Level > 3 {
			return nil, undo.Change{}, fmt.Errorf("%w: coupon level %d", ErrInvalidArgument, req.Level)
		}
		if req.Rate < 0 || req.SelfBurden < 0 || req.SelfBurden > 100 || !req.Granularity.IsValid() || !validUnit(req.Unit) {
			return nil, undo.Change{}, fmt.Errorf("%w: coupon %v", ErrInvalidArgument, req)
		}
		idx, err := resolve(products, ids)
		if err != nil {
			return nil, undo.Change{}, err
		}

		ch, opts := s.channelInfo(), s.options()
		for _, i := range idx {
			products[i] = pricing.ApplyCoupon(products[i], ch, req, opts)
		}

		change := undo.NewChange(domain.EffectCouponChange, idsAt(products, idx),
			fmt.Sprintf("coupon %d: %g%s on %d products", req.Level, req.Rate, unitLabel(req.Unit), len(idx)),
			domain.CouponChangePayload{
				Level:      req.Level,
				Rate:       req.Rate,
				Unit:       unitLabel(req.Unit),
				SelfBurden: req.SelfBurden,
			})
		return products, change, nil
	})
}

// SetPricingPrice overrides the pricing price of each listed product.
func (s *Session) SetPricingPrice(prices map[string]float64) (bool, error) {
	return s.edit("set_pricing_price", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		idx, err := resolveValues(products, prices)
		if err != nil {
			return nil, undo.Change{}, err
		}

		ch, opts := s.channelInfo(), s.options()
		for _, i := range idx {
			p := products[i]
			p.PricingPrice = domain.Amount(prices[p.ProductID])
			products[i] = pricing.Recalculate(p, ch, opts)
		}

		change := undo.NewChange(domain.EffectPriceChange, idsAt(products, idx),
			fmt.Sprintf("pricing price on %d products", len(idx)),
			domain.PriceChangePayload{Values: copyValues(prices)})
		return products, change, nil
	})
}

// SetLogistics sets a fixed logistics cost on ids, or on every row when
// ids is empty.
func (s *Session) SetLogistics(ids []string, cost float64) (bool, error) {
	return s.edit("set_logistics", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		if cost < 0 {
			return nil, undo.Change{}, fmt.Errorf("%w: negative logistics cost", ErrInvalidArgument)
		}
		idx, err := resolve(products, ids)
		if err != nil {
			return nil, undo.Change{}, err
		}

		ch, opts := s.channelInfo(), s.options()
		for _, i := range idx {
			p := products[i]
			p.LogisticsCost = domain.Amount(cost)
			products[i] = pricing.Recalculate(p, ch, opts)
		}

		change := undo.NewChange(domain.EffectLogisticsChange, idsAt(products, idx),
			fmt.Sprintf("logistics cost %g on %d products", cost, len(idx)),
			domain.LogisticsChangePayload{Cost: cost})
		return products, change, nil
	})
}

// SetCost overrides the adjusted cost of each listed product.
func (s *Session) SetCost(costs map[string]float64) (bool, error) {
	return s.edit("set_cost", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		idx, err := resolveValues(products, costs)
		if err != nil {
			return nil, undo.Change{}, err
		}

		ch, opts := s.channelInfo(), s.options()
		for _, i := range idx {
			p := products[i]
			p.AdjustedCost = domain.Amount(costs[p.ProductID])
			products[i] = pricing.Recalculate(p, ch, opts)
		}

		change := undo.NewChange(domain.EffectCostChange, idsAt(products, idx),
			fmt.Sprintf("cost on %d products", len(idx)),
			domain.CostChangePayload{Values: copyValues(costs)})
		return products, change, nil
	})
}

// RecalculateCommission switches fee adjustment for the session channel
// and recomputes commission and settlement for every row.
func (s *Session) RecalculateCommission(feeAdjustment bool) (bool, error) {
	return s.edit("recalculate_commission", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		ch := s.channelInfo()
		opts := pricing.Options{FeeAdjustment: feeAdjustment}
		products = pricing.RecalculateAll(products, ch, opts)

		idx, _ := resolve(products, nil)
		change := undo.NewChange(domain.EffectCommissionChange, idsAt(products, idx),
			fmt.Sprintf("commission recalculated, fee adjustment %t", feeAdjustment),
			domain.CommissionChangePayload{FeeAdjustment: feeAdjustment})

		// Toggling the flag is a step of its own even when no row moves.
		if s.channel != nil && s.channel.UseFeeAdjustment != feeAdjustment {
			change.Force = true
			s.onRecorded = func() { s.channel.UseFeeAdjustment = feeAdjustment }
		}
		return products, change, nil
	})
}

// SetStock sets stock levels for each listed product.
func (s *Session) SetStock(stock map[string]float64) (bool, error) {
	return s.edit("set_stock", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		idx, err := resolveValues(products, stock)
		if err != nil {
			return nil, undo.Change{}, err
		}

		for _, i := range idx {
			products[i].Stock = domain.Amount(stock[products[i].ProductID])
		}

		change := undo.NewChange(domain.EffectStockChange, idsAt(products, idx),
			fmt.Sprintf("stock on %d products", len(idx)),
			domain.StockChangePayload{Values: copyValues(stock)})
		return products, change, nil
	})
}

// AddProducts appends products. Ids must be new and unique. Products
// without a pricing price are priced from the session channel.
func (s *Session) AddProducts(added []domain.Product) (bool, error) {
	return s.edit("add_products", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		if len(added) == 0 {
			return nil, undo.Change{}, fmt.Errorf("%w: no products", ErrInvalidArgument)
		}

		seen := make(map[string]struct{}, len(products)+len(added))
		for _, p := range products {
			seen[p.ProductID] = struct{}{}
		}

		ch, opts := s.channelInfo(), s.options()
		ids := make([]string, 0, len(added))
		for _, p := range added {
			if p.ProductID == "" {
				return nil, undo.Change{}, fmt.Errorf("%w: empty product id", ErrInvalidArgument)
			}
			if _, dup := seen[p.ProductID]; dup {
				return nil, undo.Change{}, fmt.Errorf("%w: duplicate product id %s", ErrInvalidArgument, p.ProductID)
			}
			seen[p.ProductID] = struct{}{}

			if p.PricingPrice == nil && s.channel != nil {
				products = append(products, pricing.Reprice(p, ch, opts))
			} else {
				products = append(products, pricing.Recalculate(p, ch, opts))
			}
			ids = append(ids, p.ProductID)
		}

		change := undo.NewChange(domain.EffectProductAdd, ids,
			fmt.Sprintf("added %d products", len(ids)),
			domain.ProductAddPayload{Count: len(ids)})
		return products, change, nil
	})
}

// RemoveProducts drops the listed products.
func (s *Session) RemoveProducts(ids []string) (bool, error) {
	return s.edit("remove_products", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		if len(ids) == 0 {
			return nil, undo.Change{}, fmt.Errorf("%w: no products", ErrInvalidArgument)
		}
		drop := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if domain.IndexByID(products, id) < 0 {
				return nil, undo.Change{}, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
			}
			drop[id] = struct{}{}
		}

		kept := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if _, ok := drop[p.ProductID]; !ok {
				kept = append(kept, p)
			}
		}

		removed := append([]string(nil), ids...)
		change := undo.NewChange(domain.EffectProductRemove, removed,
			fmt.Sprintf("removed %d products", len(removed)),
			domain.ProductRemovePayload{Removed: removed})
		return kept, change, nil
	})
}

// Reorder arranges the list in the given id order, which must name every
// product exactly once.
func (s *Session) Reorder(order []string) (bool, error) {
	return s.edit("reorder", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		if len(order) != len(products) {
			return nil, undo.Change{}, fmt.Errorf("%w: order names %d of %d products", ErrInvalidArgument, len(order), len(products))
		}

		byID := make(map[string]domain.Product, len(products))
		for _, p := range products {
			byID[p.ProductID] = p
		}

		next := make([]domain.Product, 0, len(order))
		for _, id := range order {
			p, ok := byID[id]
			if !ok {
				return nil, undo.Change{}, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
			}
			delete(byID, id)
			next = append(next, p)
		}

		ids := append([]string(nil), order...)
		change := undo.NewChange(domain.EffectProductReorder, ids, "reordered products",
			domain.ProductReorderPayload{Order: ids})
		return next, change, nil
	})
}

// ChangeChannel switches the session channel and reprices every row.
func (s *Session) ChangeChannel(ch domain.ChannelInfo) (bool, error) {
	return s.edit("change_channel", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		if ch.ChannelName == "" || !ch.Type.IsValid() {
			return nil, undo.Change{}, fmt.Errorf("%w: channel %q", ErrInvalidArgument, ch.ChannelName)
		}

		from := s.channelInfo().ChannelName
		opts := pricing.OptionsFor(ch)
		for i, p := range products {
			if !p.IsDivider {
				products[i] = pricing.Reprice(p, ch, opts)
			}
		}

		idx, _ := resolve(products, nil)
		change := undo.NewChange(domain.EffectChannelChange, idsAt(products, idx),
			fmt.Sprintf("channel %s -> %s", from, ch.ChannelName),
			domain.ChannelChangePayload{From: from, To: ch.ChannelName})
		if from != ch.ChannelName {
			change.Force = true
		}

		next := ch
		s.onRecorded = func() { s.channel = &next }
		return products, change, nil
	})
}

// SetDeliveryType sets the delivery type on ids, or on every row when ids
// is empty, and derives logistics cost from the session channel.
func (s *Session) SetDeliveryType(ids []string, deliveryType string) (bool, error) {
	return s.edit("set_delivery_type", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		if deliveryType != domain.DeliveryFree && deliveryType != domain.DeliveryConditional {
			return nil, undo.Change{}, fmt.Errorf("%w: delivery type %q", ErrInvalidArgument, deliveryType)
		}
		idx, err := resolve(products, ids)
		if err != nil {
			return nil, undo.Change{}, err
		}

		ch, opts := s.channelInfo(), s.options()
		for _, i := range idx {
			p := products[i]
			p.DeliveryType = deliveryType
			if s.channel != nil {
				p.LogisticsCost = domain.Amount(pricing.CalculateLogisticsCost(ch, deliveryType, nil))
			}
			products[i] = pricing.Recalculate(p, ch, opts)
		}

		change := undo.NewChange(domain.EffectDeliveryTypeChange, idsAt(products, idx),
			fmt.Sprintf("delivery %s on %d products", deliveryType, len(idx)),
			domain.DeliveryTypeChangePayload{DeliveryType: deliveryType})
		return products, change, nil
	})
}

// SetDates sets the sale period (YYYY-MM-DD, empty clears) on ids, or on
// every row when ids is empty.
func (s *Session) SetDates(ids []string, startDate, endDate string) (bool, error) {
	return s.edit("set_dates", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		start, err := parseDate(startDate)
		if err != nil {
			return nil, undo.Change{}, err
		}
		end, err := parseDate(endDate)
		if err != nil {
			return nil, undo.Change{}, err
		}
		if !start.IsZero() && !end.IsZero() && end.Before(start) {
			return nil, undo.Change{}, fmt.Errorf("%w: end date before start date", ErrInvalidArgument)
		}
		idx, err := resolve(products, ids)
		if err != nil {
			return nil, undo.Change{}, err
		}

		for _, i := range idx {
			products[i].StartDate = startDate
			products[i].EndDate = endDate
		}

		change := undo.NewChange(domain.EffectDateChange, idsAt(products, idx),
			fmt.Sprintf("sale period %s ~ %s", startDate, endDate),
			domain.DateChangePayload{StartDate: startDate, EndDate: endDate})
		return products, change, nil
	})
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidArgument, s)
	}
	return t, nil
}

// SetMemo replaces the memo of one product.
func (s *Session) SetMemo(id, memo string) (bool, error) {
	return s.edit("set_memo", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		i := domain.IndexByID(products, id)
		if i < 0 {
			return nil, undo.Change{}, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
		}
		products[i].Memo = memo

		change := undo.NewChange(domain.EffectMemoChange, []string{id}, "memo on "+id,
			domain.MemoChangePayload{Memo: memo})
		return products, change, nil
	})
}

// SetColor sets the row highlight color on ids, or on every row when ids
// is empty. An empty color clears it.
func (s *Session) SetColor(ids []string, color string) (bool, error) {
	return s.edit("set_color", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		idx, err := resolve(products, ids)
		if err != nil {
			return nil, undo.Change{}, err
		}
		for _, i := range idx {
			products[i].Color = color
		}

		change := undo.NewChange(domain.EffectColorChange, idsAt(products, idx),
			fmt.Sprintf("color %q on %d products", color, len(idx)),
			domain.ColorChangePayload{Color: color})
		return products, change, nil
	})
}

// ToggleDivider flips one row between product and section divider.
func (s *Session) ToggleDivider(id string) (bool, error) {
	return s.edit("toggle_divider", func(products []domain.Product) ([]domain.Product, undo.Change, error) {
		i := domain.IndexByID(products, id)
		if i < 0 {
			return nil, undo.Change{}, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
		}
		products[i].IsDivider = !products[i].IsDivider
		if !products[i].IsDivider {
			products[i] = pricing.Recalculate(products[i], s.channelInfo(), s.options())
		}

		change := undo.NewChange(domain.EffectDividerChange, []string{id}, "divider on "+id,
			domain.DividerChangePayload{IsDivider: products[i].IsDivider})
		return products, change, nil
	})
}
