package models

import "time"

// WatchlistItem is one saved symbol
type WatchlistItem struct {
	Symbol  string    `json:"symbol"`
	Name    string    `json:"name,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// Watchlist is the user's ordered symbol list
type Watchlist struct {
	Items     []WatchlistItem `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Symbols returns the symbols in list order
func (w *Watchlist) Symbols() []string {
	out := make([]string, len(w.Items))
	for i, item := range w.Items {
		out[i] = item.Symbol
	}
	return out
}

// IndexOf returns the position of symbol or -1
func (w *Watchlist) IndexOf(symbol string) int {
	for i, item := range w.Items {
		if item.Symbol == symbol {
			return i
		}
	}
	return -1
}

// WatchlistQuote is the display snapshot for a watchlist row
type WatchlistQuote struct {
	Symbol     string    `json:"symbol"`
	Price      float64   `json:"price"`
	Change     float64   `json:"change"`      // percent vs previous close
	WeekChange *float64  `json:"week_change"` // percent vs five bars back
	Currency   string    `json:"currency,omitempty"`
	Exchange   string    `json:"exchange,omitempty"`
	MarketCap  *float64  `json:"market_cap,omitempty"`
	PERatio    *float64  `json:"pe_ratio,omitempty"`
	Week52High *float64  `json:"week52_high,omitempty"`
	Week52Low  *float64  `json:"week52_low,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
