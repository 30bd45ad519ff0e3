package server

import (
	"errors"
	"net/http"

	"github.com/stockseer-ai/stockseer-server/internal/services/ledger"
)

type investRequest struct {
	Symbol       string  `json:"symbol"`
	ZolosAmount  float64 `json:"zolos_amount"`
	CurrentPrice float64 `json:"current_price"`
	AIPrediction string  `json:"ai_prediction"`
}

type sellRequest struct {
	Symbol       string  `json:"symbol"`
	Shares       float64 `json:"shares"`
	CurrentPrice float64 `json:"current_price"`
}

// ledgerStatus maps ledger validation errors to HTTP status codes. Unknown
// errors are treated as store failures.
func ledgerStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvestmentTooSmall):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotDummyAccount):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrInsufficientZolos),
		errors.Is(err, ledger.ErrInsufficientShares),
		errors.Is(err, ledger.ErrHoldingNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleInvest buys shares with Zolos. The current price may be supplied by
// the caller or resolved from the market-data provider.
// POST /api/ledger/invest
func (s *Server) handleInvest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	var req investRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	price := req.CurrentPrice
	if price <= 0 {
		quote, err := s.app.MarketDataClient.GetQuote(r.Context(), req.Symbol)
		if err != nil {
			WriteError(w, http.StatusBadGateway, "Failed to fetch current price: "+err.Error())
			return
		}
		price = quote.Price
	}

	profile, err := s.app.LedgerService.MakeInvestment(r.Context(), uc.UID, req.Symbol, req.ZolosAmount, price, req.AIPrediction)
	if err != nil {
		WriteError(w, ledgerStatus(err), err.Error())
		return
	}
	writeProfile(w, http.StatusOK, profile)
}

// handleSell sells shares of an existing holding.
// POST /api/ledger/sell
func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	var req sellRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	price := req.CurrentPrice
	if price <= 0 {
		quote, err := s.app.MarketDataClient.GetQuote(r.Context(), req.Symbol)
		if err != nil {
			WriteError(w, http.StatusBadGateway, "Failed to fetch current price: "+err.Error())
			return
		}
		price = quote.Price
	}

	profile, err := s.app.LedgerService.SellStock(r.Context(), uc.UID, req.Symbol, req.Shares, price)
	if err != nil {
		WriteError(w, ledgerStatus(err), err.Error())
		return
	}
	writeProfile(w, http.StatusOK, profile)
}

// handlePortfolio returns the profile after reconciling the crash-recovery
// backup. Intended for session load.
// GET /api/ledger/portfolio
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	profile, err := s.app.LedgerService.LoadPortfolio(r.Context(), uc.UID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeProfile(w, http.StatusOK, profile)
}

// handleTransactions returns the trade log, most recent first.
// GET /api/ledger/transactions
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	profile, err := s.app.ProfileService.Get(r.Context(), uc.UID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Profile not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": profile.Transactions,
	})
}
