package server

import (
	"net/http"
	"time"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// requireUser returns the authenticated UserContext or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) *common.UserContext {
	uc := common.UserContextFromContext(r.Context())
	if uc == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return nil
	}
	return uc
}

// writeProfile strips the password hash before responding.
func writeProfile(w http.ResponseWriter, statusCode int, profile *models.UserProfile) {
	sanitized := *profile
	sanitized.PasswordHash = ""
	WriteJSON(w, statusCode, &sanitized)
}

// handleProfile serves the authenticated user's profile document.
// GET /api/profile
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
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
	writeProfile(w, http.StatusOK, profile)
}

type displayNameRequest struct {
	DisplayName string `json:"display_name"`
}

// handleDisplayName updates the display name.
// PUT /api/profile/display-name
func (s *Server) handleDisplayName(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	var req displayNameRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := s.app.ProfileService.SetDisplayName(r.Context(), uc.UID, req.DisplayName)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeProfile(w, http.StatusOK, profile)
}

type preferencesRequest struct {
	Preferences map[string]string `json:"preferences"`
}

// handlePreferences merges preference updates into the profile.
// PUT /api/profile/preferences
func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	var req preferencesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Preferences) == 0 {
		WriteError(w, http.StatusBadRequest, "preferences are required")
		return
	}

	profile, err := s.app.ProfileService.UpdatePreferences(r.Context(), uc.UID, req.Preferences)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeProfile(w, http.StatusOK, profile)
}

type continentRequest struct {
	Continent string `json:"continent"`
}

// handleContinent records the one-time region choice and applies the
// suggested plan for that region.
// POST /api/profile/continent
func (s *Server) handleContinent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	var req continentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := s.app.ProfileService.ChooseContinent(r.Context(), uc.UID, req.Continent)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	suggested := s.app.PlanService.ContinentPlan(req.Continent)
	if suggested != profile.SubscriptionPlan {
		profile, err = s.app.PlanService.ChangePlan(r.Context(), uc.UID, suggested)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeProfile(w, http.StatusOK, profile)
}

type changePlanRequest struct {
	Plan string `json:"plan"`
}

// handleChangePlan switches the subscription plan.
// POST /api/profile/plan
func (s *Server) handleChangePlan(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	var req changePlanRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := s.app.PlanService.ChangePlan(r.Context(), uc.UID, models.Plan(req.Plan))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeProfile(w, http.StatusOK, profile)
}

// handlePlanInfo reports the user's plan, limits, trial status, and market
// access check results.
// GET /api/profile/plan?market=NYSE
func (s *Server) handlePlanInfo(w http.ResponseWriter, r *http.Request) {
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

	resp := map[string]interface{}{
		"plan":         profile.SubscriptionPlan,
		"limits":       s.app.PlanService.Limits(profile.SubscriptionPlan),
		"trial_active": s.app.PlanService.TrialActive(profile, time.Now()),
	}
	if market := r.URL.Query().Get("market"); market != "" {
		resp["market"] = market
		resp["market_allowed"] = s.app.PlanService.CanAccessMarket(profile.SubscriptionPlan, market)
	}

	WriteJSON(w, http.StatusOK, resp)
}
