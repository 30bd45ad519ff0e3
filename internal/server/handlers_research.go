package server

import (
	"net/http"
	"strings"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/currency"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// authorizeUID checks that the authenticated user owns the uid in the path
// (admins may act on any user). Returns false after writing the error.
func authorizeUID(w http.ResponseWriter, r *http.Request, uid string) bool {
	uc := common.UserContextFromContext(r.Context())
	if uc == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return false
	}
	if uc.UID != uid && uc.Role != "admin" {
		WriteError(w, http.StatusForbidden, "Access denied")
		return false
	}
	return true
}

type watchlistRequest struct {
	Symbol string `json:"symbol"`
}

// handleWatchlist mutates the watchlist: POST adds, DELETE removes.
// POST|DELETE /api/live/watchlist
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost, http.MethodDelete) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	var req watchlistRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	var (
		profile *models.UserProfile
		err     error
	)
	if r.Method == http.MethodPost {
		profile, err = s.app.ResearchService.AddToWatchlist(r.Context(), uc.UID, req.Symbol)
	} else {
		profile, err = s.app.ResearchService.RemoveFromWatchlist(r.Context(), uc.UID, req.Symbol)
	}
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeProfile(w, http.StatusOK, profile)
}

// routeResearchNotes dispatches /api/live/research-notes/{uid}[/{noteId}].
func (s *Server) routeResearchNotes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/live/research-notes/")
	parts := strings.SplitN(rest, "/", 2)
	uid := parts[0]
	if uid == "" {
		WriteError(w, http.StatusBadRequest, "uid is required in path")
		return
	}
	if !authorizeUID(w, r, uid) {
		return
	}

	noteID := ""
	if len(parts) == 2 {
		noteID = parts[1]
	}

	switch {
	case noteID == "" && r.Method == http.MethodGet:
		notes, err := s.app.ResearchService.ListNotes(r.Context(), uid)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"notes": notes})

	case noteID == "" && r.Method == http.MethodPost:
		var note models.ResearchNote
		if !DecodeJSON(w, r, &note) {
			return
		}
		created, err := s.app.ResearchService.CreateNote(r.Context(), uid, &note)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	case noteID != "" && r.Method == http.MethodPut:
		var update models.ResearchNote
		if !DecodeJSON(w, r, &update) {
			return
		}
		updated, err := s.app.ResearchService.UpdateNote(r.Context(), uid, noteID, &update)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case noteID != "" && r.Method == http.MethodDelete:
		if err := s.app.ResearchService.DeleteNote(r.Context(), uid, noteID); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

type generateReportRequest struct {
	Symbol     string            `json:"symbol"`
	ReportType string            `json:"report_type"`
	Params     map[string]string `json:"params"`
}

// routeAnalysisReports dispatches /api/live/analysis-reports/{uid}:
// GET lists, POST generates.
func (s *Server) routeAnalysisReports(w http.ResponseWriter, r *http.Request) {
	uid := strings.TrimPrefix(r.URL.Path, "/api/live/analysis-reports/")
	if uid == "" || strings.Contains(uid, "/") {
		WriteError(w, http.StatusBadRequest, "uid is required in path")
		return
	}
	if !authorizeUID(w, r, uid) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		reports, err := s.app.ResearchService.ListReports(r.Context(), uid)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})

	case http.MethodPost:
		var req generateReportRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		report, err := s.app.ResearchService.GenerateReport(r.Context(), uid, req.Symbol, models.ReportType(req.ReportType), req.Params)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, report)

	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleFinancials proxies fundamental data from the market-data provider.
// GET /api/stocks/{symbol}/financials
func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/stocks/", "/financials")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	financials, err := s.app.MarketDataClient.GetFinancials(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"financials": financials,
		"display": map[string]string{
			"market_cap":     currency.FormatCompact(financials.MarketCap, financials.Currency),
			"revenue":        currency.FormatCompact(financials.Revenue, financials.Currency),
			"eps":            currency.FormatPrice(financials.EPS, financials.Currency),
			"week_52_high":   currency.FormatPrice(financials.Week52High, financials.Currency),
			"week_52_low":    currency.FormatPrice(financials.Week52Low, financials.Currency),
			"dividend_yield": currency.FormatPercent(financials.DividendYield * 100),
		},
	})
}

// handleQuote proxies a quote from the market-data provider.
// GET /api/stocks/{symbol}/quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/stocks/", "/quote")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	quote, err := s.app.MarketDataClient.GetQuote(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"quote": quote,
		"display": map[string]string{
			"price":          currency.FormatPrice(quote.Price, quote.Currency),
			"change":         currency.FormatChange(quote.Change, quote.Currency),
			"change_percent": currency.FormatPercent(quote.ChangePercent),
		},
	})
}
