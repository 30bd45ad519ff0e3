package models

import (
	"encoding/json"
	"time"
)

// UserRecord is a generic per-user document: research notes, analysis
// reports, and chat transcripts are all stored as records keyed by
// (user_id, subject, key). Data holds the JSON-encoded payload.
type UserRecord struct {
	UserID   string          `json:"user_id"`
	Subject  string          `json:"subject"`
	Key      string          `json:"key"`
	Data     json.RawMessage `json:"data"`
	Version  int             `json:"version"`
	DateTime time.Time       `json:"datetime"`
}

// Record subjects in use.
const (
	SubjectResearchNote   = "research_note"
	SubjectAnalysisReport = "analysis_report"
	SubjectChatHistory    = "chat_history"
)
