package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/editor"
	"github.com/hublishing/fnsretail-sub001/internal/pricing"
)

// ActionResponse is returned by every edit and navigation.
type ActionResponse struct {
	Recorded bool        `json:"recorded"`
	View     editor.View `json:"view"`
}

func (s *Server) session(c echo.Context) (*editor.Session, error) {
	sess, err := s.registry.Get(c.Request().Context(), userID(c))
	if err != nil {
		return nil, toHTTPError(err)
	}
	return sess, nil
}

func (s *Server) handleView(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.View())
}

func (s *Server) handleUndo(c echo.Context) error {
	return s.navigate(c, "nothing to undo", (*editor.Session).Undo)
}

func (s *Server) handleRedo(c echo.Context) error {
	return s.navigate(c, "nothing to redo", (*editor.Session).Redo)
}

func (s *Server) navigate(c echo.Context, unavailable string, move func(*editor.Session) (bool, error)) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	ok, err := move(sess)
	if err != nil {
		return toHTTPError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusConflict, unavailable)
	}
	return c.JSON(http.StatusOK, ActionResponse{Recorded: true, View: sess.View()})
}

type jumpRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleJump(c echo.Context) error {
	var req jumpRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	ok, err := sess.JumpTo(req.ID)
	if err != nil {
		return toHTTPError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("history item %q not found", req.ID))
	}
	return c.JSON(http.StatusOK, ActionResponse{Recorded: true, View: sess.View()})
}

func (s *Server) handleFilter(c echo.Context) error {
	var f editor.Filter
	if err := c.Bind(&f); err != nil {
		return err
	}
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	if err := sess.SetFilter(f); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, sess.View())
}

// handleEffectTypes lists the tags the filter accepts, in display order.
func (s *Server) handleEffectTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.AllEffectTypes)
}

// actionRequest is the union of all action bodies; each action reads the
// fields it needs.
type actionRequest struct {
	IDs       []string `json:"ids"`
	ProductID string   `json:"product_id"`

	Rate        float64             `json:"rate"`
	Unit        string              `json:"unit"`
	Level       int                 `json:"level"`
	SelfBurden  float64             `json:"self_burden"`
	RoundMode   domain.RoundingRule `json:"round_mode"`
	Granularity pricing.Granularity `json:"granularity"`

	Values        map[string]float64 `json:"values"`
	Cost          float64            `json:"cost"`
	FeeAdjustment bool               `json:"fee_adjustment"`
	Products      []domain.Product   `json:"products"`
	Order         []string           `json:"order"`
	ChannelName   string             `json:"channel_name"`
	DeliveryType  string             `json:"delivery_type"`
	StartDate     string             `json:"start_date"`
	EndDate       string             `json:"end_date"`
	Memo          string             `json:"memo"`
	Color         string             `json:"color"`
}

type actionFunc func(s *Server, c echo.Context, sess *editor.Session, req actionRequest) (bool, error)

var actions = map[string]actionFunc{
	"discount": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.ApplyDiscount(r.IDs, pricing.DiscountRequest{
			Rate: r.Rate, Unit: r.Unit, RoundMode: r.RoundMode, Granularity: r.Granularity,
		})
	},
	"coupon": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.ApplyCoupon(r.IDs, pricing.CouponRequest{
			Level: r.Level, Rate: r.Rate, Unit: r.Unit, SelfBurden: r.SelfBurden,
			RoundMode: r.RoundMode, Granularity: r.Granularity,
		})
	},
	"pricing-price": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.SetPricingPrice(r.Values)
	},
	"logistics": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.SetLogistics(r.IDs, r.Cost)
	},
	"cost": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.SetCost(r.Values)
	},
	"commission": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.RecalculateCommission(r.FeeAdjustment)
	},
	"stock": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.SetStock(r.Values)
	},
	"add-products": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.AddProducts(r.Products)
	},
	"remove-products": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.RemoveProducts(r.IDs)
	},
	"reorder": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.Reorder(r.Order)
	},
	"channel": (*Server).changeChannel,
	"delivery-type": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.SetDeliveryType(r.IDs, r.DeliveryType)
	},
	"dates": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.SetDates(r.IDs, r.StartDate, r.EndDate)
	},
	"memo": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.SetMemo(r.ProductID, r.Memo)
	},
	"color": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.SetColor(r.IDs, r.Color)
	},
	"divider": func(_ *Server, _ echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
		return sess.ToggleDivider(r.ProductID)
	},
}

func (s *Server) changeChannel(c echo.Context, sess *editor.Session, r actionRequest) (bool, error) {
	if s.channels == nil {
		return false, echo.NewHTTPError(http.StatusServiceUnavailable, "channel store not configured")
	}
	if r.ChannelName == "" {
		return false, fmt.Errorf("%w: channel_name is required", editor.ErrInvalidArgument)
	}
	ch, err := s.channels.GetByName(c.Request().Context(), r.ChannelName)
	if err != nil {
		return false, fmt.Errorf("channel %q: %w", r.ChannelName, err)
	}
	return sess.ChangeChannel(*ch)
}

func (s *Server) handleAction(c echo.Context) error {
	name := c.Param("action")
	action, ok := actions[name]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown action %q", name))
	}

	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	sess, err := s.session(c)
	if err != nil {
		return err
	}

	recorded, err := action(s, c, sess, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ActionResponse{Recorded: recorded, View: sess.View()})
}
