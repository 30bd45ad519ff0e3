package chart

import (
	"bytes"
	"fmt"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// RenderLinePNG renders a PNG close-price line chart for the visible slice
// of series. Returns raw PNG bytes.
func RenderLinePNG(symbol string, series []models.ChartPoint, period models.Period, zoom models.ZoomState) ([]byte, error) {
	visible := VisibleSlice(series, period, zoom)
	if len(visible) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(visible))
	}

	xValues := make([]time.Time, len(visible))
	yValues := make([]float64, len(visible))
	for i, p := range visible {
		xValues[i] = p.Date
		yValues[i] = p.Close
	}

	up := visible[len(visible)-1].Close >= visible[0].Close
	strokeColor := drawing.ColorFromHex("16a34a") // green-600
	if !up {
		strokeColor = drawing.ColorFromHex("dc2626") // red-600
	}

	closeSeries := gochart.TimeSeries{
		Name: symbol,
		Style: gochart.Style{
			StrokeColor: strokeColor,
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s (%s)", symbol, period),
		Width:  900,
		Height: 400,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: gochart.XAxis{
			TickPosition: gochart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return gochart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: gochart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []gochart.Series{closeSeries},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
