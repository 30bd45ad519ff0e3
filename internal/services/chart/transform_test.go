package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockseer-ai/stockseer-server/internal/models"
)

func testSeries(n int) []models.ChartPoint {
	points := make([]models.ChartPoint, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range points {
		price := 100 + float64(i%10)
		points[i] = models.ChartPoint{
			Date:   base.AddDate(0, 0, i),
			Open:   price,
			High:   price + 2,
			Low:    price - 2,
			Close:  price + 1,
			Volume: int64(1000 + i*10),
		}
	}
	return points
}

func TestPeriodPoints(t *testing.T) {
	assert.Equal(t, 1, PeriodPoints(models.Period1D))
	assert.Equal(t, 7, PeriodPoints(models.Period1W))
	assert.Equal(t, 30, PeriodPoints(models.Period1M))
	assert.Equal(t, 90, PeriodPoints(models.Period3M))
	assert.Equal(t, 365, PeriodPoints(models.Period1Y))
	assert.Equal(t, 30, PeriodPoints(models.Period("2H")))
}

func TestVisibleSlice(t *testing.T) {
	series := testSeries(100)

	visible := VisibleSlice(series, models.Period1M, models.ZoomState{})
	assert.Len(t, visible, 30)
	assert.Equal(t, series[70].Date, visible[0].Date)

	// Period longer than the series: whole series.
	visible = VisibleSlice(series, models.Period1Y, models.ZoomState{})
	assert.Len(t, visible, 100)

	// Zoom window takes precedence over the period.
	zoom := models.ZoomState{IsZoomed: true, StartIndex: 10, EndIndex: 19}
	visible = VisibleSlice(series, models.Period1M, zoom)
	assert.Len(t, visible, 10)
	assert.Equal(t, series[10].Date, visible[0].Date)

	assert.Nil(t, VisibleSlice(nil, models.Period1M, models.ZoomState{}))
}

func TestZoomAtBoundsProperty(t *testing.T) {
	// For any click position and any series length > 10, the window must
	// satisfy 0 <= start <= end < length.
	lengths := []int{11, 30, 100, 365, 1000}
	clicks := []float64{-500, 0, 1, 700, 1399, 1400, 9999}

	for _, n := range lengths {
		for _, x := range clicks {
			zoom := ZoomAt(x, n)
			if !zoom.IsZoomed {
				continue
			}
			assert.GreaterOrEqual(t, zoom.StartIndex, 0, "len=%d x=%f", n, x)
			assert.LessOrEqual(t, zoom.StartIndex, zoom.EndIndex, "len=%d x=%f", n, x)
			assert.Less(t, zoom.EndIndex, n, "len=%d x=%f", n, x)
		}
	}
}

func TestZoomAtWindowSize(t *testing.T) {
	// 20% of 100 = 20 points.
	zoom := ZoomAt(700, 100)
	require.True(t, zoom.IsZoomed)
	assert.Equal(t, 20, zoom.EndIndex-zoom.StartIndex+1)

	// Minimum window of 5 for short series.
	zoom = ZoomAt(700, 12)
	require.True(t, zoom.IsZoomed)
	assert.Equal(t, 5, zoom.EndIndex-zoom.StartIndex+1)

	// Window covering everything degenerates to unzoomed.
	zoom = ZoomAt(700, 4)
	assert.False(t, zoom.IsZoomed)
}

func TestZoomAtCentersOnClick(t *testing.T) {
	// Click in the middle of a 100-point series: index ~50.
	zoom := ZoomAt(CanvasWidth/2, 100)
	require.True(t, zoom.IsZoomed)
	center := (zoom.StartIndex + zoom.EndIndex) / 2
	assert.InDelta(t, 50, center, 1)
}

func TestResetZoom(t *testing.T) {
	assert.Equal(t, models.ZoomState{}, ResetZoom())
}

func TestCandlesticks(t *testing.T) {
	series := testSeries(30)
	c, err := Candlesticks(series, models.Period1M, models.ZoomState{})
	require.NoError(t, err)

	assert.Equal(t, CanvasWidth, c.Width)
	assert.Equal(t, CanvasHeight, c.Height)
	require.Len(t, c.Candles, 30)
	require.Len(t, c.VolumeBars, 30)

	for _, candle := range c.Candles {
		// Wick spans the body; y grows downward.
		assert.LessOrEqual(t, candle.WickTop, candle.BodyY)
		assert.GreaterOrEqual(t, candle.WickBottom, candle.BodyY+candle.BodyHeight-1)
		assert.GreaterOrEqual(t, candle.X, 0.0)
		assert.LessOrEqual(t, candle.X, CanvasWidth)
		assert.Equal(t, candle.Point.Close >= candle.Point.Open, candle.Up)
	}

	// Price bounds cover every visible point.
	for _, p := range series {
		assert.GreaterOrEqual(t, p.Low, c.MinPrice)
		assert.LessOrEqual(t, p.High, c.MaxPrice)
	}

	assert.Len(t, c.PriceTicks, priceTickCount)
	assert.NotEmpty(t, c.TimeTicks)
}

func TestCandlesticksEmpty(t *testing.T) {
	_, err := Candlesticks(nil, models.Period1M, models.ZoomState{})
	assert.Error(t, err)
}

func TestCandlesticksFlatSeries(t *testing.T) {
	series := make([]models.ChartPoint, 10)
	for i := range series {
		series[i] = models.ChartPoint{
			Date: time.Now(), Open: 50, High: 50, Low: 50, Close: 50, Volume: 100,
		}
	}
	c, err := Candlesticks(series, models.Period1M, models.ZoomState{})
	require.NoError(t, err)
	assert.Less(t, c.MinPrice, c.MaxPrice)
}

func TestLine(t *testing.T) {
	series := testSeries(60)
	c, err := Line(series, models.Period1M, models.ZoomState{})
	require.NoError(t, err)

	require.Len(t, c.Points, 30)
	for i := 1; i < len(c.Points); i++ {
		assert.Greater(t, c.Points[i].X, c.Points[i-1].X)
	}
	for _, p := range c.Points {
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.Y, priceAreaHeight)
	}
}

func TestRenderLinePNG(t *testing.T) {
	series := testSeries(30)
	png, err := RenderLinePNG("AAPL", series, models.Period1M, models.ZoomState{})
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderLinePNGTooFewPoints(t *testing.T) {
	_, err := RenderLinePNG("AAPL", testSeries(1), models.Period1M, models.ZoomState{})
	assert.Error(t, err)
}
