// Package research manages live-account watchlists, research notes, and
// analysis reports.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// Compile-time interface check
var _ interfaces.ResearchService = (*Service)(nil)

// Service implements ResearchService
type Service struct {
	storage    interfaces.StorageManager
	plans      interfaces.PlanService
	marketData interfaces.MarketDataClient
	gemini     interfaces.GeminiClient
	logger     *common.Logger
}

// NewService creates a new research service
func NewService(storage interfaces.StorageManager, plans interfaces.PlanService, marketData interfaces.MarketDataClient, gemini interfaces.GeminiClient, logger *common.Logger) *Service {
	return &Service{
		storage:    storage,
		plans:      plans,
		marketData: marketData,
		gemini:     gemini,
		logger:     logger,
	}
}

// AddToWatchlist appends symbol to the profile's watchlist, subject to the
// plan's size limit. Adding an already-tracked symbol is a no-op.
func (s *Service) AddToWatchlist(ctx context.Context, uid, symbol string) (*models.UserProfile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile.OnWatchlist(symbol) {
		return profile, nil
	}

	limits := s.plans.Limits(profile.SubscriptionPlan)
	if limits.MaxWatchlist >= 0 && len(profile.Watchlist) >= limits.MaxWatchlist {
		return nil, fmt.Errorf("watchlist limit of %d reached for plan '%s'", limits.MaxWatchlist, profile.SubscriptionPlan)
	}

	profile.Watchlist = append(profile.Watchlist, symbol)
	if err := s.storage.Profiles().Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save watchlist: %w", err)
	}
	return profile, nil
}

// RemoveFromWatchlist drops symbol from the watchlist. Removing an untracked
// symbol is a no-op.
func (s *Service) RemoveFromWatchlist(ctx context.Context, uid, symbol string) (*models.UserProfile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	filtered := profile.Watchlist[:0]
	for _, w := range profile.Watchlist {
		if w != symbol {
			filtered = append(filtered, w)
		}
	}
	profile.Watchlist = filtered

	if err := s.storage.Profiles().Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save watchlist: %w", err)
	}
	return profile, nil
}

// CreateNote stores a new research note, subject to the plan's note limit.
func (s *Service) CreateNote(ctx context.Context, uid string, note *models.ResearchNote) (*models.ResearchNote, error) {
	if strings.TrimSpace(note.Title) == "" {
		return nil, fmt.Errorf("note title is required")
	}

	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	limits := s.plans.Limits(profile.SubscriptionPlan)
	if limits.MaxNotes >= 0 {
		existing, err := s.storage.Records().List(ctx, uid, models.SubjectResearchNote)
		if err != nil {
			return nil, fmt.Errorf("failed to count notes: %w", err)
		}
		if len(existing) >= limits.MaxNotes {
			return nil, fmt.Errorf("note limit of %d reached for plan '%s'", limits.MaxNotes, profile.SubscriptionPlan)
		}
	}

	now := time.Now()
	note.ID = uuid.New().String()
	note.UserID = uid
	note.Symbol = strings.ToUpper(strings.TrimSpace(note.Symbol))
	note.CreatedAt = now
	note.UpdatedAt = now

	if err := s.putRecord(ctx, uid, models.SubjectResearchNote, note.ID, note); err != nil {
		return nil, err
	}

	s.logger.Info().Str("uid", uid).Str("note_id", note.ID).Msg("Research note created")
	return note, nil
}

// UpdateNote overwrites the title/content/tags/symbol of an existing note.
func (s *Service) UpdateNote(ctx context.Context, uid, noteID string, update *models.ResearchNote) (*models.ResearchNote, error) {
	record, err := s.storage.Records().Get(ctx, uid, models.SubjectResearchNote, noteID)
	if err != nil {
		return nil, fmt.Errorf("note '%s' not found: %w", noteID, err)
	}

	var note models.ResearchNote
	if err := json.Unmarshal(record.Data, &note); err != nil {
		return nil, fmt.Errorf("failed to decode note: %w", err)
	}

	if strings.TrimSpace(update.Title) != "" {
		note.Title = update.Title
	}
	if update.Content != "" {
		note.Content = update.Content
	}
	if update.Tags != nil {
		note.Tags = update.Tags
	}
	if update.Symbol != "" {
		note.Symbol = strings.ToUpper(strings.TrimSpace(update.Symbol))
	}
	note.UpdatedAt = time.Now()

	if err := s.putRecord(ctx, uid, models.SubjectResearchNote, noteID, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, uid, noteID string) error {
	if err := s.storage.Records().Delete(ctx, uid, models.SubjectResearchNote, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// ListNotes returns the user's notes, most recently touched first.
func (s *Service) ListNotes(ctx context.Context, uid string) ([]*models.ResearchNote, error) {
	records, err := s.storage.Records().Query(ctx, uid, models.SubjectResearchNote, interfaces.QueryOptions{OrderBy: "datetime_desc"})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := make([]*models.ResearchNote, 0, len(records))
	for _, record := range records {
		var note models.ResearchNote
		if err := json.Unmarshal(record.Data, &note); err != nil {
			s.logger.Warn().Err(err).Str("key", record.Key).Msg("Skipping undecodable note record")
			continue
		}
		notes = append(notes, &note)
	}
	return notes, nil
}

// GenerateReport builds an analysis report: financials from the market-data
// provider plus an AI-written narrative. Requires the plan's ai_predictions
// feature for sentiment reports and a non-exhausted monthly report quota.
func (s *Service) GenerateReport(ctx context.Context, uid, symbol string, reportType models.ReportType, params map[string]string) (*models.AnalysisReport, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	switch reportType {
	case models.ReportTypeFundamental, models.ReportTypeTechnical, models.ReportTypeSentiment:
	default:
		return nil, fmt.Errorf("invalid report type %q", reportType)
	}

	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if reportType == models.ReportTypeSentiment && !s.plans.CanAccessFeature(profile.SubscriptionPlan, "ai_predictions") {
		return nil, fmt.Errorf("sentiment reports require a premium plan")
	}

	limits := s.plans.Limits(profile.SubscriptionPlan)
	if limits.ReportsPerMonth >= 0 {
		used, err := s.reportsThisMonth(ctx, uid, time.Now())
		if err != nil {
			return nil, err
		}
		if used >= limits.ReportsPerMonth {
			return nil, fmt.Errorf("report limit of %d/month reached for plan '%s'", limits.ReportsPerMonth, profile.SubscriptionPlan)
		}
	}

	if s.gemini == nil {
		return nil, fmt.Errorf("AI analysis is not available: no Gemini API key configured")
	}

	financials, err := s.marketData.GetFinancials(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch financials for %s: %w", symbol, err)
	}

	summary, err := s.gemini.GenerateContent(ctx, buildReportPrompt(symbol, reportType, financials, params))
	if err != nil {
		return nil, fmt.Errorf("failed to generate report narrative: %w", err)
	}

	report := &models.AnalysisReport{
		ID:          uuid.New().String(),
		UserID:      uid,
		Symbol:      symbol,
		ReportType:  reportType,
		Summary:     summary,
		Params:      params,
		Financials:  financials,
		GeneratedAt: time.Now(),
	}

	if err := s.putRecord(ctx, uid, models.SubjectAnalysisReport, report.ID, report); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("uid", uid).
		Str("symbol", symbol).
		Str("type", string(reportType)).
		Msg("Analysis report generated")

	return report, nil
}

// ListReports returns the user's reports, newest first.
func (s *Service) ListReports(ctx context.Context, uid string) ([]*models.AnalysisReport, error) {
	records, err := s.storage.Records().Query(ctx, uid, models.SubjectAnalysisReport, interfaces.QueryOptions{OrderBy: "datetime_desc"})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]*models.AnalysisReport, 0, len(records))
	for _, record := range records {
		var report models.AnalysisReport
		if err := json.Unmarshal(record.Data, &report); err != nil {
			s.logger.Warn().Err(err).Str("key", record.Key).Msg("Skipping undecodable report record")
			continue
		}
		reports = append(reports, &report)
	}
	return reports, nil
}

func (s *Service) reportsThisMonth(ctx context.Context, uid string, now time.Time) (int, error) {
	records, err := s.storage.Records().List(ctx, uid, models.SubjectAnalysisReport)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	count := 0
	for _, record := range records {
		if record.DateTime.Year() == now.Year() && record.DateTime.Month() == now.Month() {
			count++
		}
	}
	return count, nil
}

func (s *Service) putRecord(ctx context.Context, uid, subject, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", subject, err)
	}
	record := &models.UserRecord{
		UserID:  uid,
		Subject: subject,
		Key:     key,
		Data:    data,
	}
	if err := s.storage.Records().Put(ctx, record); err != nil {
		return fmt.Errorf("failed to store %s: %w", subject, err)
	}
	return nil
}

func buildReportPrompt(symbol string, reportType models.ReportType, financials *models.Financials, params map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a concise %s analysis for %s", reportType, symbol)
	if financials.Name != "" {
		fmt.Fprintf(&sb, " (%s)", financials.Name)
	}
	sb.WriteString(".\n\nFinancials:\n")
	fmt.Fprintf(&sb, "- Market Cap: %.0f\n", financials.MarketCap)
	fmt.Fprintf(&sb, "- P/E: %.2f\n", financials.PE)
	fmt.Fprintf(&sb, "- EPS: %.2f\n", financials.EPS)
	fmt.Fprintf(&sb, "- Dividend Yield: %.2f%%\n", financials.DividendYield*100)
	fmt.Fprintf(&sb, "- Revenue: %.0f\n", financials.Revenue)
	fmt.Fprintf(&sb, "- Profit Margin: %.2f%%\n", financials.ProfitMargin*100)
	fmt.Fprintf(&sb, "- 52-Week Range: %.2f - %.2f\n", financials.Week52Low, financials.Week52High)
	if financials.Sector != "" {
		fmt.Fprintf(&sb, "- Sector: %s / %s\n", financials.Sector, financials.Industry)
	}
	for k, v := range params {
		fmt.Fprintf(&sb, "- %s: %s\n", k, v)
	}
	sb.WriteString("\nKeep the analysis factual and under 300 words.")
	return sb.String()
}
