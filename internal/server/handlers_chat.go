package server

import (
	"net/http"
)

type chatRequest struct {
	Message string `json:"message"`
}

// handleChat answers a chat message and appends both turns to the transcript.
// POST /api/chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	var req chatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	reply, err := s.app.ChatService.Send(r.Context(), uc.UID, req.Message)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, reply)
}

// handleChatHistory returns the stored transcript, oldest first.
// GET /api/chat/history
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	history, err := s.app.ChatService.History(r.Context(), uc.UID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": history})
}
