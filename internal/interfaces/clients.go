package interfaces

import (
	"context"

	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// MarketDataClient talks to the upstream market-data provider.
type MarketDataClient interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetFinancials(ctx context.Context, symbol string) (*models.Financials, error)
	GetOHLCV(ctx context.Context, symbol string, days int) ([]models.ChartPoint, error)
}

// GeminiClient generates AI content.
type GeminiClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Close() error
}
