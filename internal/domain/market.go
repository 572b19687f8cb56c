package domain

import "time"

// MarketPulse is the BTC/ETH snapshot the deck is generated against.
// BTCPrice == 0 is the sentinel for "no real data", callers fall back to a
// synthetic pulse.
type MarketPulse struct {
	BTCPrice     float64   `json:"btc_price"`
	BTCChange24h float64   `json:"btc_change_24h"`
	ETHPrice     float64   `json:"eth_price,omitempty"`
	ETHChange24h float64   `json:"eth_change_24h,omitempty"`
	Sparkline    []float64 `json:"sparkline,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func (p MarketPulse) HasData() bool {
	return p.BTCPrice > 0
}
