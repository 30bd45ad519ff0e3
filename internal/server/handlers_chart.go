package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/stockseer-ai/stockseer-server/internal/models"
	"github.com/stockseer-ai/stockseer-server/internal/services/chart"
)

// chartQuery parses the shared chart query parameters: period, and an
// optional explicit zoom window (start_index + end_index).
func chartQuery(r *http.Request) (models.Period, models.ZoomState) {
	period := models.Period(strings.ToUpper(r.URL.Query().Get("period")))
	if period == "" {
		period = models.Period1M
	}

	var zoom models.ZoomState
	startStr := r.URL.Query().Get("start_index")
	endStr := r.URL.Query().Get("end_index")
	if startStr != "" && endStr != "" {
		start, err1 := strconv.Atoi(startStr)
		end, err2 := strconv.Atoi(endStr)
		if err1 == nil && err2 == nil && start >= 0 && end >= start {
			zoom = models.ZoomState{IsZoomed: true, StartIndex: start, EndIndex: end}
		}
	}
	return period, zoom
}

// handleChart serves renderable chart geometry.
// GET /api/charts/{symbol}?type=candlestick|line&period=1M&start_index=&end_index=
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := strings.TrimPrefix(r.URL.Path, "/api/charts/")
	if symbol == "" || strings.Contains(symbol, "/") {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	if strings.HasSuffix(symbol, ".png") {
		s.serveChartPNG(w, r, strings.TrimSuffix(symbol, ".png"))
		return
	}

	period, zoom := chartQuery(r)

	series, err := s.app.MarketDataClient.GetOHLCV(r.Context(), symbol, chart.PeriodPoints(period))
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	chartType := r.URL.Query().Get("type")
	switch chartType {
	case "", "candlestick":
		c, err := chart.Candlesticks(series, period, zoom)
		if err != nil {
			WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, c)
	case "line":
		c, err := chart.Line(series, period, zoom)
		if err != nil {
			WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, c)
	default:
		WriteError(w, http.StatusBadRequest, "type must be 'candlestick' or 'line'")
	}
}

// serveChartPNG renders the close-price series as PNG.
// GET /api/charts/{symbol}.png?period=1M
func (s *Server) serveChartPNG(w http.ResponseWriter, r *http.Request, symbol string) {
	period, zoom := chartQuery(r)

	series, err := s.app.MarketDataClient.GetOHLCV(r.Context(), symbol, chart.PeriodPoints(period))
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	png, err := chart.RenderLinePNG(strings.ToUpper(symbol), series, period, zoom)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleChartZoom resolves a click on the logical canvas to a zoom window.
// GET /api/charts/zoom?click_x=640&visible_len=30
func (s *Server) handleChartZoom(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	clickX, err := strconv.ParseFloat(r.URL.Query().Get("click_x"), 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "click_x is required")
		return
	}
	visibleLen, err := strconv.Atoi(r.URL.Query().Get("visible_len"))
	if err != nil || visibleLen <= 0 {
		WriteError(w, http.StatusBadRequest, "visible_len is required")
		return
	}

	WriteJSON(w, http.StatusOK, chart.ZoomAt(clickX, visibleLen))
}
