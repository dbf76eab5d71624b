package domain

import "time"

// DailySales is one day of settled sales for a channel, read from the
// analytics warehouse for the dashboard.
type DailySales struct {
	Day         time.Time `json:"day"`
	ChannelName string    `json:"channel_name"`
	Orders      uint64    `json:"orders"`
	Quantity    uint64    `json:"quantity"`
	Revenue     float64   `json:"revenue"`
	Settlement  float64   `json:"settlement"`
	NetProfit   float64   `json:"net_profit"`
}
