// Package chat answers user chat messages and keeps per-user transcripts.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// transcriptKey is the single record key holding a user's chat history.
const transcriptKey = "transcript"

// maxHistory bounds the stored transcript; older turns are dropped.
const maxHistory = 50

// Compile-time interface check
var _ interfaces.ChatService = (*Service)(nil)

// Service implements ChatService
type Service struct {
	storage interfaces.StorageManager
	gemini  interfaces.GeminiClient
	logger  *common.Logger
}

// NewService creates a new chat service
func NewService(storage interfaces.StorageManager, gemini interfaces.GeminiClient, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		gemini:  gemini,
		logger:  logger,
	}
}

// Send appends the user message to the transcript, asks the model for a
// reply with recent history as context, stores both turns, and returns the
// assistant message.
func (s *Service) Send(ctx context.Context, uid, message string) (*models.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if len(message) > 4000 {
		return nil, fmt.Errorf("message exceeds 4000 characters")
	}

	if s.gemini == nil {
		return nil, fmt.Errorf("chat is not available: no Gemini API key configured")
	}

	history, err := s.History(ctx, uid)
	if err != nil {
		return nil, err
	}

	reply, err := s.gemini.GenerateContent(ctx, buildChatPrompt(history, message))
	if err != nil {
		return nil, fmt.Errorf("failed to generate chat reply: %w", err)
	}

	now := time.Now()
	history = append(history,
		models.ChatMessage{Role: models.ChatRoleUser, Content: message, Timestamp: now},
		models.ChatMessage{Role: models.ChatRoleAssistant, Content: reply, Timestamp: now},
	)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}
	record := &models.UserRecord{
		UserID:  uid,
		Subject: models.SubjectChatHistory,
		Key:     transcriptKey,
		Data:    data,
	}
	if err := s.storage.Records().Put(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store transcript: %w", err)
	}

	return &history[len(history)-1], nil
}

// History returns the stored transcript, oldest first. A missing transcript
// is an empty history, not an error.
func (s *Service) History(ctx context.Context, uid string) ([]models.ChatMessage, error) {
	record, err := s.storage.Records().Get(ctx, uid, models.SubjectChatHistory, transcriptKey)
	if err != nil {
		return []models.ChatMessage{}, nil
	}

	var history []models.ChatMessage
	if err := json.Unmarshal(record.Data, &history); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return history, nil
}

func buildChatPrompt(history []models.ChatMessage, message string) string {
	var sb strings.Builder
	sb.WriteString("You are StockSeer's assistant. Answer questions about stocks, markets, and the StockSeer dashboard. Be concise.\n\n")

	// Last few turns only; the full transcript would bloat the prompt.
	start := 0
	if len(history) > 10 {
		start = len(history) - 10
	}
	if len(history[start:]) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, m := range history[start:] {
			fmt.Fprintf(&sb, "%s: %s\n", m.Role, m.Content)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "user: %s\nassistant:", message)
	return sb.String()
}
