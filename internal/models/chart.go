package models

import "time"

// ChartPoint is one OHLCV observation. Sequences are chronological.
// Upstream data is assumed to satisfy low <= open,close <= high; it is not
// re-validated here.
type ChartPoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Period is a UI chart-range selector.
type Period string

const (
	Period1D Period = "1D"
	Period1W Period = "1W"
	Period1M Period = "1M"
	Period3M Period = "3M"
	Period1Y Period = "1Y"
)

// ZoomState is a view window over a ChartPoint sequence. Ephemeral; reset on
// period change. Invariant: 0 <= StartIndex <= EndIndex < len(series).
type ZoomState struct {
	IsZoomed   bool `json:"is_zoomed"`
	StartIndex int  `json:"start_index"`
	EndIndex   int  `json:"end_index"`
}

// LinePoint is one renderable point of a line series on the logical canvas.
type LinePoint struct {
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Candle is the renderable geometry for one OHLCV point.
type Candle struct {
	Index      int     `json:"index"`
	X          float64 `json:"x"` // center x
	BodyY      float64 `json:"body_y"`
	BodyHeight float64 `json:"body_height"`
	BodyWidth  float64 `json:"body_width"`
	WickTop    float64 `json:"wick_top"`
	WickBottom float64 `json:"wick_bottom"`
	WickWidth  float64 `json:"wick_width"`
	Up         bool    `json:"up"` // close >= open

	Point ChartPoint `json:"point"`
}

// VolumeBar is the renderable geometry for one volume observation.
type VolumeBar struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AxisTick is one labelled axis position.
type AxisTick struct {
	Position float64 `json:"position"`
	Label    string  `json:"label"`
}

// CandlestickChart is the full renderable form of a visible OHLCV slice on
// the fixed logical canvas.
type CandlestickChart struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	MinPrice   float64     `json:"min_price"`
	MaxPrice   float64     `json:"max_price"`
	Candles    []Candle    `json:"candles"`
	VolumeBars []VolumeBar `json:"volume_bars"`
	PriceTicks []AxisTick  `json:"price_ticks"`
	TimeTicks  []AxisTick  `json:"time_ticks"`
	Zoom       ZoomState   `json:"zoom"`
}

// LineChart is the renderable form of a visible close-price slice.
type LineChart struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	MinPrice   float64     `json:"min_price"`
	MaxPrice   float64     `json:"max_price"`
	Points     []LinePoint `json:"points"`
	PriceTicks []AxisTick  `json:"price_ticks"`
	TimeTicks  []AxisTick  `json:"time_ticks"`
	Zoom       ZoomState   `json:"zoom"`
}
