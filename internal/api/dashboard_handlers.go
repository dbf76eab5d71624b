package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/editor"
)

const dateLayout = "2006-01-02"

func (s *Server) handleChannels(c echo.Context) error {
	if s.channels == nil {
		return c.JSON(http.StatusOK, []domain.ChannelInfo{})
	}
	list, err := s.channels.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// SalesTotals sums a sales range.
type SalesTotals struct {
	Orders     uint64  `json:"orders"`
	Quantity   uint64  `json:"quantity"`
	Revenue    float64 `json:"revenue"`
	Settlement float64 `json:"settlement"`
	NetProfit  float64 `json:"net_profit"`
}

// SalesResponse is the dashboard sales payload.
type SalesResponse struct {
	Channel string              `json:"channel"`
	Start   string              `json:"start"`
	End     string              `json:"end"`
	Days    []domain.DailySales `json:"days"`
	Totals  SalesTotals         `json:"totals"`
}

// handleSales serves ?channel=&start=&end= (dates YYYY-MM-DD, inclusive).
// The range defaults to the last 30 days.
func (s *Server) handleSales(c echo.Context) error {
	if s.sales == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "sales store not configured")
	}

	channel := c.QueryParam("channel")
	if channel == "" {
		return toHTTPError(fmt.Errorf("%w: channel is required", editor.ErrInvalidArgument))
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -29)
	var err error
	if v := c.QueryParam("start"); v != "" {
		if start, err = time.Parse(dateLayout, v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start must be YYYY-MM-DD")
		}
	}
	if v := c.QueryParam("end"); v != "" {
		if end, err = time.Parse(dateLayout, v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end must be YYYY-MM-DD")
		}
	}
	if end.Before(start) {
		return echo.NewHTTPError(http.StatusBadRequest, "end is before start")
	}

	days, err := s.sales.DailyByChannel(c.Request().Context(), channel, start, end)
	if err != nil {
		return toHTTPError(err)
	}

	resp := SalesResponse{
		Channel: channel,
		Start:   start.Format(dateLayout),
		End:     end.Format(dateLayout),
		Days:    days,
	}
	for _, d := range days {
		resp.Totals.Orders += d.Orders
		resp.Totals.Quantity += d.Quantity
		resp.Totals.Revenue += d.Revenue
		resp.Totals.Settlement += d.Settlement
		resp.Totals.NetProfit += d.NetProfit
	}
	return c.JSON(http.StatusOK, resp)
}
