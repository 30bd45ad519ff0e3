package interfaces

import (
	"context"
	"time"

	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// ProfileService manages user profile documents and account lifecycle.
type ProfileService interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	UpdatePreferences(ctx context.Context, uid string, prefs map[string]string) (*models.UserProfile, error)
	SetDisplayName(ctx context.Context, uid, name string) (*models.UserProfile, error)
	ChooseContinent(ctx context.Context, uid, continent string) (*models.UserProfile, error)
}

// LedgerService maintains the dummy-account Zolos balance and simulated
// portfolio. Validation failures are typed sentinel errors; state is left
// unchanged on any failure.
type LedgerService interface {
	MakeInvestment(ctx context.Context, uid, symbol string, zolosAmount, currentPrice float64, aiPrediction string) (*models.UserProfile, error)
	SellStock(ctx context.Context, uid, symbol string, shares, currentPrice float64) (*models.UserProfile, error)
	CanAfford(profile *models.UserProfile, zolosAmount float64) bool
	LoadPortfolio(ctx context.Context, uid string) (*models.UserProfile, error)
}

// PlanService evaluates subscription-plan rules and persists plan changes.
type PlanService interface {
	CanAccessMarket(plan models.Plan, market string) bool
	Limits(plan models.Plan) models.PlanLimits
	CanAccessFeature(plan models.Plan, feature string) bool
	ContinentPlan(continent string) models.Plan
	ChangePlan(ctx context.Context, uid string, plan models.Plan) (*models.UserProfile, error)
	TrialActive(profile *models.UserProfile, now time.Time) bool
}

// ResearchService manages live-account watchlists, research notes, and
// analysis reports.
type ResearchService interface {
	AddToWatchlist(ctx context.Context, uid, symbol string) (*models.UserProfile, error)
	RemoveFromWatchlist(ctx context.Context, uid, symbol string) (*models.UserProfile, error)

	CreateNote(ctx context.Context, uid string, note *models.ResearchNote) (*models.ResearchNote, error)
	UpdateNote(ctx context.Context, uid, noteID string, update *models.ResearchNote) (*models.ResearchNote, error)
	DeleteNote(ctx context.Context, uid, noteID string) error
	ListNotes(ctx context.Context, uid string) ([]*models.ResearchNote, error)

	GenerateReport(ctx context.Context, uid, symbol string, reportType models.ReportType, params map[string]string) (*models.AnalysisReport, error)
	ListReports(ctx context.Context, uid string) ([]*models.AnalysisReport, error)
}

// ChatService answers chat messages and keeps per-user transcripts.
type ChatService interface {
	Send(ctx context.Context, uid, message string) (*models.ChatMessage, error)
	History(ctx context.Context, uid string) ([]models.ChatMessage, error)
}
