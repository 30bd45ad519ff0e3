// Package marketdata provides a client for the quote and financials service.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" || s == "N/A" || s == "None" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the MarketDataClient interface.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new market data client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an upstream API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market data API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("market data request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

type quoteResponse struct {
	Symbol        string      `json:"symbol"`
	Price         flexFloat64 `json:"price"`
	Change        flexFloat64 `json:"change"`
	ChangePercent flexFloat64 `json:"change_percent"`
	Currency      string      `json:"currency"`
	Timestamp     string      `json:"timestamp"`
}

// GetQuote retrieves the current price for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	path := fmt.Sprintf("/api/quote/%s", url.PathEscape(strings.ToUpper(symbol)))

	var resp quoteResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339, resp.Timestamp)
	if err != nil {
		ts = time.Now()
	}

	return &models.Quote{
		Symbol:        strings.ToUpper(resp.Symbol),
		Price:         float64(resp.Price),
		Change:        float64(resp.Change),
		ChangePercent: float64(resp.ChangePercent),
		Currency:      resp.Currency,
		Timestamp:     ts,
	}, nil
}

type financialsResponse struct {
	Symbol        string      `json:"symbol"`
	Name          string      `json:"name"`
	Exchange      string      `json:"exchange"`
	Currency      string      `json:"currency"`
	MarketCap     flexFloat64 `json:"market_cap"`
	PE            flexFloat64 `json:"pe_ratio"`
	EPS           flexFloat64 `json:"eps"`
	DividendYield flexFloat64 `json:"dividend_yield"`
	Revenue       flexFloat64 `json:"revenue"`
	ProfitMargin  flexFloat64 `json:"profit_margin"`
	Week52High    flexFloat64 `json:"week_52_high"`
	Week52Low     flexFloat64 `json:"week_52_low"`
	Sector        string      `json:"sector"`
	Industry      string      `json:"industry"`
}

// GetFinancials retrieves fundamental data for a symbol.
func (c *Client) GetFinancials(ctx context.Context, symbol string) (*models.Financials, error) {
	path := fmt.Sprintf("/api/financials/%s", url.PathEscape(strings.ToUpper(symbol)))

	var resp financialsResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	return &models.Financials{
		Symbol:        strings.ToUpper(resp.Symbol),
		Name:          resp.Name,
		Exchange:      resp.Exchange,
		Currency:      resp.Currency,
		MarketCap:     float64(resp.MarketCap),
		PE:            float64(resp.PE),
		EPS:           float64(resp.EPS),
		DividendYield: float64(resp.DividendYield),
		Revenue:       float64(resp.Revenue),
		ProfitMargin:  float64(resp.ProfitMargin),
		Week52High:    float64(resp.Week52High),
		Week52Low:     float64(resp.Week52Low),
		Sector:        resp.Sector,
		Industry:      resp.Industry,
	}, nil
}

type ohlcvBar struct {
	Date   string      `json:"date"`
	Open   flexFloat64 `json:"open"`
	High   flexFloat64 `json:"high"`
	Low    flexFloat64 `json:"low"`
	Close  flexFloat64 `json:"close"`
	Volume int64       `json:"volume"`
}

// GetOHLCV retrieves daily bars for a symbol, oldest first.
func (c *Client) GetOHLCV(ctx context.Context, symbol string, days int) ([]models.ChartPoint, error) {
	if days <= 0 {
		days = 30
	}

	path := fmt.Sprintf("/api/ohlcv/%s", url.PathEscape(strings.ToUpper(symbol)))
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	var bars []ohlcvBar
	if err := c.get(ctx, path, params, &bars); err != nil {
		return nil, err
	}

	points := make([]models.ChartPoint, len(bars))
	for i, bar := range bars {
		date, _ := time.Parse("2006-01-02", bar.Date)
		points[i] = models.ChartPoint{
			Date:   date,
			Open:   float64(bar.Open),
			High:   float64(bar.High),
			Low:    float64(bar.Low),
			Close:  float64(bar.Close),
			Volume: bar.Volume,
		}
	}

	// Callers expect chronological order; the upstream order is not guaranteed.
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
