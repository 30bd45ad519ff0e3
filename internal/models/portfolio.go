package models

import (
	"strings"
	"time"
)

// Portfolio is the simulated equity portfolio embedded in a dummy-account
// profile. Totals are recomputed in full on every mutation — there is no
// incremental aggregate path.
//
// Invariants: TotalValue = Σ Holdings.TotalValue, TotalCost = Σ Holdings.TotalCost,
// TotalGainLoss = TotalValue - TotalCost.
type Portfolio struct {
	TotalValue           float64   `json:"total_value"`
	TotalCost            float64   `json:"total_cost"`
	TotalGainLoss        float64   `json:"total_gain_loss"`
	TotalGainLossPercent float64   `json:"total_gain_loss_percent"`
	ZolosBalance         float64   `json:"zolos_balance"`
	Holdings             []Holding `json:"holdings"`
	LastUpdated          time.Time `json:"last_updated"`
}

// Holding is a position in one symbol. Symbol is unique within a portfolio.
type Holding struct {
	Symbol          string    `json:"symbol"`
	Shares          float64   `json:"shares"`
	AvgPrice        float64   `json:"avg_price"`
	CurrentPrice    float64   `json:"current_price"`
	TotalValue      float64   `json:"total_value"`
	TotalCost       float64   `json:"total_cost"`
	GainLoss        float64   `json:"gain_loss"`
	GainLossPercent float64   `json:"gain_loss_percent"`
	LastUpdated     time.Time `json:"last_updated"`
}

// FindHolding returns the index of the holding for symbol, or -1.
func (p *Portfolio) FindHolding(symbol string) int {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for i := range p.Holdings {
		if p.Holdings[i].Symbol == symbol {
			return i
		}
	}
	return -1
}

// Recompute refreshes per-holding and portfolio aggregates from first
// principles. Call after every mutation.
func (p *Portfolio) Recompute(now time.Time) {
	var totalValue, totalCost float64
	for i := range p.Holdings {
		h := &p.Holdings[i]
		h.TotalValue = h.Shares * h.CurrentPrice
		h.GainLoss = h.TotalValue - h.TotalCost
		if h.TotalCost > 0 {
			h.GainLossPercent = h.GainLoss / h.TotalCost * 100
		} else {
			h.GainLossPercent = 0
		}
		h.LastUpdated = now
		totalValue += h.TotalValue
		totalCost += h.TotalCost
	}
	p.TotalValue = totalValue
	p.TotalCost = totalCost
	p.TotalGainLoss = totalValue - totalCost
	if totalCost > 0 {
		p.TotalGainLossPercent = p.TotalGainLoss / totalCost * 100
	} else {
		p.TotalGainLossPercent = 0
	}
	p.LastUpdated = now
}

// TransactionType is the direction of a sandbox trade.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// Transaction is one immutable entry in the append-only trade log.
// The log is kept most-recent-first.
type Transaction struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Symbol          string          `json:"symbol"`
	TransactionType TransactionType `json:"transaction_type"`
	Shares          float64         `json:"shares"`
	Price           float64         `json:"price"`
	TotalValue      float64         `json:"total_value"`
	ZolosUsed       float64         `json:"zolos_used"`
	AIPrediction    string          `json:"ai_prediction,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}

// PortfolioBackup is the crash-recovery snapshot written alongside every
// ledger mutation. On session load the newer of backup vs primary wins.
type PortfolioBackup struct {
	UID          string        `json:"uid"`
	ZolosBalance float64       `json:"zolos_balance"`
	Portfolio    *Portfolio    `json:"portfolio"`
	Transactions []Transaction `json:"transactions"`
	SavedAt      time.Time     `json:"saved_at"`
}
