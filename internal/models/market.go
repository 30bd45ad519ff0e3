package models

import "time"

// Quote is a point-in-time price for one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Currency      string    `json:"currency,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Financials is fundamental data for one symbol as returned by the upstream
// provider. Numeric fields may arrive as strings and are parsed leniently.
type Financials struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Exchange      string  `json:"exchange,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	MarketCap     float64 `json:"market_cap"`
	PE            float64 `json:"pe"`
	EPS           float64 `json:"eps"`
	DividendYield float64 `json:"dividend_yield"`
	Revenue       float64 `json:"revenue"`
	ProfitMargin  float64 `json:"profit_margin"`
	Week52High    float64 `json:"week_52_high"`
	Week52Low     float64 `json:"week_52_low"`
	Sector        string  `json:"sector,omitempty"`
	Industry      string  `json:"industry,omitempty"`
}
