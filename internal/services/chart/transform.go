// Package chart maps OHLCV series into renderable geometry and PNG images.
package chart

import (
	"fmt"
	"math"

	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// Logical canvas. All geometry is expressed in these units; clients scale to
// their viewport.
const (
	CanvasWidth  = 1400.0
	CanvasHeight = 700.0

	priceAreaHeight  = 560.0
	volumeAreaHeight = 140.0

	minBodyWidth = 2.0
	maxBodyWidth = 40.0
	minWickWidth = 1.0
	maxWickWidth = 4.0

	priceTickCount = 6
	timeTickCount  = 6
)

// periodPoints maps a UI period selector to the trailing point count.
var periodPoints = map[models.Period]int{
	models.Period1D: 1,
	models.Period1W: 7,
	models.Period1M: 30,
	models.Period3M: 90,
	models.Period1Y: 365,
}

// PeriodPoints returns the trailing point count for period, defaulting to 1M.
func PeriodPoints(period models.Period) int {
	if n, ok := periodPoints[period]; ok {
		return n
	}
	return periodPoints[models.Period1M]
}

// VisibleSlice resolves the window of series shown for a period and zoom
// state: the zoom's index range when zoomed, otherwise the trailing
// period-count points.
func VisibleSlice(series []models.ChartPoint, period models.Period, zoom models.ZoomState) []models.ChartPoint {
	if len(series) == 0 {
		return nil
	}

	if zoom.IsZoomed {
		start, end := zoom.StartIndex, zoom.EndIndex
		if start < 0 {
			start = 0
		}
		if end >= len(series) {
			end = len(series) - 1
		}
		if start > end {
			return nil
		}
		return series[start : end+1]
	}

	n := PeriodPoints(period)
	if n > len(series) {
		n = len(series)
	}
	return series[len(series)-n:]
}

// ZoomAt computes the zoom window for a click at x over visibleLen points.
// The window spans max(5, 20% of visibleLen) points centered on the clicked
// index, clamped to [0, visibleLen). Returns the unzoomed state when the
// window would cover the whole visible range.
func ZoomAt(clickX float64, visibleLen int) models.ZoomState {
	if visibleLen <= 0 {
		return models.ZoomState{}
	}

	xStep := CanvasWidth / float64(visibleLen)
	center := int(math.Round(clickX / xStep))
	if center < 0 {
		center = 0
	}
	if center >= visibleLen {
		center = visibleLen - 1
	}

	window := int(math.Ceil(float64(visibleLen) * 0.2))
	if window < 5 {
		window = 5
	}
	if window >= visibleLen {
		return models.ZoomState{}
	}

	start := center - window/2
	end := start + window - 1
	if start < 0 {
		start = 0
		end = window - 1
	}
	if end >= visibleLen {
		end = visibleLen - 1
		start = end - window + 1
	}

	return models.ZoomState{IsZoomed: true, StartIndex: start, EndIndex: end}
}

// ResetZoom returns the unzoomed state. Called on double-click and on period
// change.
func ResetZoom() models.ZoomState {
	return models.ZoomState{}
}

// priceBounds returns [min(low), max(high)] over the slice, padded when flat
// so the y-mapping never divides by zero.
func priceBounds(points []models.ChartPoint) (float64, float64) {
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if p.Low < minPrice {
			minPrice = p.Low
		}
		if p.High > maxPrice {
			maxPrice = p.High
		}
	}
	if minPrice == maxPrice {
		pad := math.Abs(minPrice) * 0.05
		if pad == 0 {
			pad = 1
		}
		minPrice -= pad
		maxPrice += pad
	}
	return minPrice, maxPrice
}

// priceToY linearly maps price into the price area. Higher prices sit higher
// on the canvas (smaller y).
func priceToY(price, minPrice, maxPrice float64) float64 {
	return priceAreaHeight * (1 - (price-minPrice)/(maxPrice-minPrice))
}

func clampWidth(w, minW, maxW float64) float64 {
	if w < minW {
		return minW
	}
	if w > maxW {
		return maxW
	}
	return w
}

// Candlesticks builds candlestick geometry for the visible slice of series.
func Candlesticks(series []models.ChartPoint, period models.Period, zoom models.ZoomState) (*models.CandlestickChart, error) {
	visible := VisibleSlice(series, period, zoom)
	if len(visible) == 0 {
		return nil, fmt.Errorf("no data points to chart")
	}

	minPrice, maxPrice := priceBounds(visible)
	xStep := CanvasWidth / float64(len(visible))
	bodyWidth := clampWidth(xStep*0.7, minBodyWidth, maxBodyWidth)
	wickWidth := clampWidth(xStep*0.1, minWickWidth, maxWickWidth)

	var maxVolume int64
	for _, p := range visible {
		if p.Volume > maxVolume {
			maxVolume = p.Volume
		}
	}

	chart := &models.CandlestickChart{
		Width:    CanvasWidth,
		Height:   CanvasHeight,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Candles:  make([]models.Candle, len(visible)),
		Zoom:     zoom,
	}

	for i, p := range visible {
		x := float64(i)*xStep + xStep/2

		openY := priceToY(p.Open, minPrice, maxPrice)
		closeY := priceToY(p.Close, minPrice, maxPrice)
		bodyY := math.Min(openY, closeY)
		bodyHeight := math.Abs(openY - closeY)
		if bodyHeight < 1 {
			bodyHeight = 1
		}

		chart.Candles[i] = models.Candle{
			Index:      i,
			X:          x,
			BodyY:      bodyY,
			BodyHeight: bodyHeight,
			BodyWidth:  bodyWidth,
			WickTop:    priceToY(p.High, minPrice, maxPrice),
			WickBottom: priceToY(p.Low, minPrice, maxPrice),
			WickWidth:  wickWidth,
			Up:         p.Close >= p.Open,
			Point:      p,
		}

		if maxVolume > 0 {
			barHeight := volumeAreaHeight * float64(p.Volume) / float64(maxVolume)
			chart.VolumeBars = append(chart.VolumeBars, models.VolumeBar{
				X:      x - bodyWidth/2,
				Y:      CanvasHeight - barHeight,
				Width:  bodyWidth,
				Height: barHeight,
			})
		}
	}

	chart.PriceTicks = priceTicks(minPrice, maxPrice)
	chart.TimeTicks = timeTicks(visible, xStep)
	return chart, nil
}

// Line builds close-price line geometry for the visible slice of series.
func Line(series []models.ChartPoint, period models.Period, zoom models.ZoomState) (*models.LineChart, error) {
	visible := VisibleSlice(series, period, zoom)
	if len(visible) == 0 {
		return nil, fmt.Errorf("no data points to chart")
	}

	minPrice, maxPrice := priceBounds(visible)
	xStep := CanvasWidth / float64(len(visible))

	chart := &models.LineChart{
		Width:    CanvasWidth,
		Height:   CanvasHeight,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Points:   make([]models.LinePoint, len(visible)),
		Zoom:     zoom,
	}

	for i, p := range visible {
		chart.Points[i] = models.LinePoint{
			X:     float64(i)*xStep + xStep/2,
			Y:     priceToY(p.Close, minPrice, maxPrice),
			Date:  p.Date,
			Close: p.Close,
		}
	}

	chart.PriceTicks = priceTicks(minPrice, maxPrice)
	chart.TimeTicks = timeTicks(visible, xStep)
	return chart, nil
}

func priceTicks(minPrice, maxPrice float64) []models.AxisTick {
	ticks := make([]models.AxisTick, priceTickCount)
	for i := 0; i < priceTickCount; i++ {
		frac := float64(i) / float64(priceTickCount-1)
		price := minPrice + (maxPrice-minPrice)*frac
		ticks[i] = models.AxisTick{
			Position: priceToY(price, minPrice, maxPrice),
			Label:    fmt.Sprintf("%.2f", price),
		}
	}
	return ticks
}

func timeTicks(visible []models.ChartPoint, xStep float64) []models.AxisTick {
	n := timeTickCount
	if len(visible) < n {
		n = len(visible)
	}
	ticks := make([]models.AxisTick, 0, n)
	for i := 0; i < n; i++ {
		idx := i * (len(visible) - 1) / max(n-1, 1)
		ticks = append(ticks, models.AxisTick{
			Position: float64(idx)*xStep + xStep/2,
			Label:    visible[idx].Date.Format("Jan 02"),
		})
	}
	return ticks
}
