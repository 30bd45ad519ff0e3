package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/stockseer-ai/stockseer-server/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Auth
	mux.HandleFunc("/api/auth/signup", s.handleSignup)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/validate", s.handleValidate)

	// Profile
	mux.HandleFunc("/api/profile", s.handleProfile)
	mux.HandleFunc("/api/profile/display-name", s.handleDisplayName)
	mux.HandleFunc("/api/profile/preferences", s.handlePreferences)
	mux.HandleFunc("/api/profile/continent", s.handleContinent)
	mux.HandleFunc("/api/profile/plan", s.routePlan)

	// Dummy-account ledger
	mux.HandleFunc("/api/ledger/invest", s.handleInvest)
	mux.HandleFunc("/api/ledger/sell", s.handleSell)
	mux.HandleFunc("/api/ledger/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/ledger/transactions", s.handleTransactions)

	// Live-account research
	mux.HandleFunc("/api/live/watchlist", s.handleWatchlist)
	mux.HandleFunc("/api/live/research-notes/", s.routeResearchNotes)
	mux.HandleFunc("/api/live/analysis-reports/", s.routeAnalysisReports)

	// Market data
	mux.HandleFunc("/api/stocks/", s.routeStocks)

	// Charts
	mux.HandleFunc("/api/charts/zoom", s.handleChartZoom)
	mux.HandleFunc("/api/charts/", s.handleChart)

	// Chat
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/chat/history", s.handleChatHistory)

	// Contact inbox
	mux.HandleFunc("/api/contact", s.handleContact)
	mux.HandleFunc("/api/admin/contact", s.handleAdminContact)
	mux.HandleFunc("/api/admin/ws/contact", s.handleAdminContactWS)
}

// routePlan dispatches /api/profile/plan by method: GET reports plan status,
// POST changes the plan.
func (s *Server) routePlan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handlePlanInfo(w, r)
	case http.MethodPost:
		s.handleChangePlan(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// routeStocks dispatches /api/stocks/{symbol}/quote and
// /api/stocks/{symbol}/financials.
func (s *Server) routeStocks(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case strings.HasSuffix(path, "/quote"):
		s.handleQuote(w, r)
	case strings.HasSuffix(path, "/financials"):
		s.handleFinancials(w, r)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleHealth reports basic liveness.
// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
		"backend": s.app.Config.Storage.Backend,
	})
}

// handleVersion reports build information.
// GET /api/version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
