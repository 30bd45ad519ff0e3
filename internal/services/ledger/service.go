// Package ledger maintains the dummy-account Zolos balance and simulated
// equity portfolio.
package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// ZolosRate is the fixed exchange rate: 1 Zolo = 10 currency units.
const ZolosRate = 10.0

// ZolosToCurrency converts a Zolos amount to display-currency units.
func ZolosToCurrency(zolos float64) float64 { return zolos * ZolosRate }

// CurrencyToZolos converts display-currency units back to Zolos.
func CurrencyToZolos(currency float64) float64 { return currency / ZolosRate }

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// Service implements LedgerService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new ledger service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// CanAfford reports whether a dummy account can spend zolosAmount.
func (s *Service) CanAfford(profile *models.UserProfile, zolosAmount float64) bool {
	return profile != nil && profile.IsDummy() && profile.ZolosBalance >= zolosAmount
}

// MakeInvestment buys shares with Zolos. The whole amount is deducted; shares
// are floor(currency/price), so any remainder after whole shares is spent,
// not refunded. Validation failures leave the profile untouched.
func (s *Service) MakeInvestment(ctx context.Context, uid, symbol string, zolosAmount, currentPrice float64, aiPrediction string) (*models.UserProfile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if zolosAmount <= 0 || math.IsNaN(zolosAmount) || math.IsInf(zolosAmount, 0) {
		return nil, ErrInvalidAmount
	}
	if currentPrice <= 0 || math.IsNaN(currentPrice) || math.IsInf(currentPrice, 0) {
		return nil, fmt.Errorf("current price must be greater than zero")
	}

	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if !profile.IsDummy() {
		return nil, ErrNotDummyAccount
	}
	if profile.ZolosBalance < zolosAmount {
		return nil, ErrInsufficientZolos
	}

	currencyValue := ZolosToCurrency(zolosAmount)
	shares := math.Floor(currencyValue / currentPrice)
	if shares <= 0 {
		return nil, ErrInvestmentTooSmall
	}

	now := time.Now()
	if profile.Portfolio == nil {
		profile.Portfolio = &models.Portfolio{Holdings: []models.Holding{}}
	}

	cost := shares * currentPrice
	if idx := profile.Portfolio.FindHolding(symbol); idx >= 0 {
		h := &profile.Portfolio.Holdings[idx]
		newShares := h.Shares + shares
		h.AvgPrice = (h.TotalCost + cost) / newShares
		h.Shares = newShares
		h.TotalCost += cost
		h.CurrentPrice = currentPrice
	} else {
		profile.Portfolio.Holdings = append(profile.Portfolio.Holdings, models.Holding{
			Symbol:       symbol,
			Shares:       shares,
			AvgPrice:     currentPrice,
			CurrentPrice: currentPrice,
			TotalCost:    cost,
		})
	}

	profile.ZolosBalance -= zolosAmount
	profile.Portfolio.ZolosBalance = profile.ZolosBalance

	tx := models.Transaction{
		ID:              uuid.New().String(),
		UserID:          uid,
		Symbol:          symbol,
		TransactionType: models.TransactionBuy,
		Shares:          shares,
		Price:           currentPrice,
		TotalValue:      cost,
		ZolosUsed:       zolosAmount,
		AIPrediction:    aiPrediction,
		Timestamp:       now,
	}
	profile.Transactions = append([]models.Transaction{tx}, profile.Transactions...)

	profile.Portfolio.Recompute(now)

	if err := s.persist(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("uid", uid).
		Str("symbol", symbol).
		Float64("shares", shares).
		Float64("zolos", zolosAmount).
		Msg("Investment made")

	return profile, nil
}

// SellStock sells shares of an existing holding and credits the proceeds in
// Zolos. Cost basis shrinks proportionally; the holding is removed when all
// shares are sold.
func (s *Service) SellStock(ctx context.Context, uid, symbol string, shares, currentPrice float64) (*models.UserProfile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if shares <= 0 || math.IsNaN(shares) || math.IsInf(shares, 0) {
		return nil, ErrInvalidAmount
	}
	if currentPrice <= 0 || math.IsNaN(currentPrice) || math.IsInf(currentPrice, 0) {
		return nil, fmt.Errorf("current price must be greater than zero")
	}

	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if !profile.IsDummy() {
		return nil, ErrNotDummyAccount
	}
	if profile.Portfolio == nil {
		return nil, ErrHoldingNotFound
	}

	idx := profile.Portfolio.FindHolding(symbol)
	if idx < 0 {
		return nil, ErrHoldingNotFound
	}
	h := &profile.Portfolio.Holdings[idx]
	if h.Shares < shares {
		return nil, ErrInsufficientShares
	}

	now := time.Now()
	proceeds := shares * currentPrice
	zolosCredit := CurrencyToZolos(proceeds)

	if h.Shares == shares {
		profile.Portfolio.Holdings = append(profile.Portfolio.Holdings[:idx], profile.Portfolio.Holdings[idx+1:]...)
	} else {
		remaining := h.Shares - shares
		h.TotalCost = h.TotalCost * remaining / h.Shares
		h.Shares = remaining
		h.CurrentPrice = currentPrice
	}

	profile.ZolosBalance += zolosCredit
	profile.Portfolio.ZolosBalance = profile.ZolosBalance

	tx := models.Transaction{
		ID:              uuid.New().String(),
		UserID:          uid,
		Symbol:          symbol,
		TransactionType: models.TransactionSell,
		Shares:          shares,
		Price:           currentPrice,
		TotalValue:      proceeds,
		ZolosUsed:       zolosCredit,
		Timestamp:       now,
	}
	profile.Transactions = append([]models.Transaction{tx}, profile.Transactions...)

	profile.Portfolio.Recompute(now)

	if err := s.persist(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("uid", uid).
		Str("symbol", symbol).
		Float64("shares", shares).
		Float64("zolos_credit", zolosCredit).
		Msg("Stock sold")

	return profile, nil
}

// persist writes the profile document, then mirrors the ledger state into the
// crash-recovery backup. The backup write is best-effort: a failure is logged
// but does not fail the trade, since the primary store already committed.
func (s *Service) persist(ctx context.Context, profile *models.UserProfile) error {
	if err := s.storage.Profiles().Save(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	backup := &models.PortfolioBackup{
		UID:          profile.UID,
		ZolosBalance: profile.ZolosBalance,
		Portfolio:    profile.Portfolio,
		Transactions: profile.Transactions,
		SavedAt:      time.Now(),
	}
	if err := s.storage.Backups().Save(profile.UID, backup); err != nil {
		s.logger.Warn().Err(err).Str("uid", profile.UID).Msg("Ledger backup write failed")
	}

	return nil
}

// LoadPortfolio returns the profile after reconciling the crash-recovery
// backup against the primary store. Whichever side carries the newer
// portfolio LastUpdated wins; a backup is never preferred just because the
// primary's holdings are empty, so a legitimate sell-to-zero on another
// device is not resurrected.
func (s *Service) LoadPortfolio(ctx context.Context, uid string) (*models.UserProfile, error) {
	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if !profile.IsDummy() {
		return profile, nil
	}

	backup, err := s.storage.Backups().Load(uid)
	if err != nil || backup == nil || backup.Portfolio == nil {
		return profile, nil
	}

	var primaryUpdated time.Time
	if profile.Portfolio != nil {
		primaryUpdated = profile.Portfolio.LastUpdated
	}

	if backup.Portfolio.LastUpdated.After(primaryUpdated) {
		s.logger.Warn().
			Str("uid", uid).
			Time("backup", backup.Portfolio.LastUpdated).
			Time("primary", primaryUpdated).
			Msg("Restoring ledger from newer backup")

		profile.ZolosBalance = backup.ZolosBalance
		profile.Portfolio = backup.Portfolio
		profile.Transactions = backup.Transactions
		profile.Portfolio.ZolosBalance = backup.ZolosBalance

		if err := s.storage.Profiles().Save(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to save restored portfolio: %w", err)
		}
	}

	return profile, nil
}
