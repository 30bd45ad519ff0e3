package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// handleContact stores a contact form submission. No authentication; the
// contact form is public.
// POST /api/contact
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req contactRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		WriteError(w, http.StatusBadRequest, "name and message are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		WriteError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Message) > 5000 {
		WriteError(w, http.StatusBadRequest, "message exceeds 5000 characters")
		return
	}

	submission := &models.ContactSubmission{
		ID:      uuid.New().String(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
	}

	if err := s.app.Storage.Contacts().Create(r.Context(), submission); err != nil {
		s.logger.Error().Err(err).Msg("Contact submission failed")
		WriteError(w, http.StatusInternalServerError, "Failed to store submission")
		return
	}

	s.feed.publish(submission)

	WriteJSON(w, http.StatusCreated, submission)
}

// handleAdminContact lists submissions, most recent first. Admin only.
// GET /api/admin/contact?limit=50
func (s *Server) handleAdminContact(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !common.IsAdmin(r.Context()) {
		WriteError(w, http.StatusForbidden, "Admin access required")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	submissions, err := s.app.Storage.Contacts().List(r.Context(), limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"submissions": submissions})
}

// handleAdminContactWS streams new submissions over a websocket. Admin only.
// GET /api/admin/ws/contact
func (s *Server) handleAdminContactWS(w http.ResponseWriter, r *http.Request) {
	if !common.IsAdmin(r.Context()) {
		WriteError(w, http.StatusForbidden, "Admin access required")
		return
	}
	s.feed.serveWS(w, r)
}
