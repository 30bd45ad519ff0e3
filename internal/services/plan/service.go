// Package plan evaluates subscription-plan rules: market access, feature
// limits, continent onboarding, and trial lifecycle.
package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// Market lists per plan. Each tier extends the one below, so the superset
// property holds by construction.
var (
	freeMarkets = []string{"NSE", "BSE", "SSE", "SZSE", "TSE", "HKEX", "KRX", "SGX"}

	premiumMarkets = append(append([]string{}, freeMarkets...),
		"NYSE", "NASDAQ", "LSE", "EURONEXT", "XETRA", "SIX", "TSX")

	premiumPlusMarkets = append(append([]string{}, premiumMarkets...),
		"ASX", "NZX", "JSE", "B3", "BMV", "TADAWUL", "MOEX")
)

var planMarkets = map[models.Plan][]string{
	models.PlanFree:        freeMarkets,
	models.PlanPremium:     premiumMarkets,
	models.PlanPremiumPlus: premiumPlusMarkets,
}

// -1 means unlimited.
var planLimits = map[models.Plan]models.PlanLimits{
	models.PlanFree: {
		MaxWatchlist:    5,
		MaxNotes:        10,
		ReportsPerMonth: 2,
		APIAccess:       false,
		RealtimeData:    false,
		AIPredictions:   false,
	},
	models.PlanPremium: {
		MaxWatchlist:    25,
		MaxNotes:        100,
		ReportsPerMonth: 20,
		APIAccess:       false,
		RealtimeData:    true,
		AIPredictions:   true,
	},
	models.PlanPremiumPlus: {
		MaxWatchlist:    -1,
		MaxNotes:        -1,
		ReportsPerMonth: -1,
		APIAccess:       true,
		RealtimeData:    true,
		AIPredictions:   true,
	},
}

// Compile-time interface check
var _ interfaces.PlanService = (*Service)(nil)

// Service implements PlanService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new plan service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// CanAccessMarket reports whether the plan's market list contains market.
// Comparison is case-insensitive.
func (s *Service) CanAccessMarket(plan models.Plan, market string) bool {
	market = strings.ToUpper(strings.TrimSpace(market))
	for _, m := range planMarkets[plan] {
		if m == market {
			return true
		}
	}
	return false
}

// Limits returns the capability table for plan. Unknown plans get free limits.
func (s *Service) Limits(plan models.Plan) models.PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[models.PlanFree]
}

// CanAccessFeature reports whether plan includes the named boolean feature.
func (s *Service) CanAccessFeature(plan models.Plan, feature string) bool {
	limits := s.Limits(plan)
	switch strings.ToLower(strings.TrimSpace(feature)) {
	case "api_access":
		return limits.APIAccess
	case "realtime_data":
		return limits.RealtimeData
	case "ai_predictions":
		return limits.AIPredictions
	default:
		return false
	}
}

// ContinentPlan returns the tier suggested during onboarding for a region.
func (s *Service) ContinentPlan(continent string) models.Plan {
	switch strings.ToLower(strings.TrimSpace(continent)) {
	case "asia":
		return models.PlanFree
	case "global":
		return models.PlanPremiumPlus
	default:
		return models.PlanPremium
	}
}

// ChangePlan persists a plan change on the profile. Upgrading from free to
// premium (not premium-plus) starts the 14-day trial clock; any other change
// clears trial state.
func (s *Service) ChangePlan(ctx context.Context, uid string, plan models.Plan) (*models.UserProfile, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("invalid plan %q; must be free, premium, or premium-plus", plan)
	}

	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	previous := profile.SubscriptionPlan
	profile.SubscriptionPlan = plan

	if previous == models.PlanFree && plan == models.PlanPremium {
		now := time.Now()
		ends := now.Add(models.TrialDuration)
		profile.TrialStarted = &now
		profile.TrialEnds = &ends
	} else {
		profile.TrialStarted = nil
		profile.TrialEnds = nil
	}

	if err := s.storage.Profiles().Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save plan change: %w", err)
	}

	s.logger.Info().
		Str("uid", uid).
		Str("from", string(previous)).
		Str("to", string(plan)).
		Msg("Plan changed")

	return profile, nil
}

// TrialActive reports whether the profile's trial window covers now.
func (s *Service) TrialActive(profile *models.UserProfile, now time.Time) bool {
	if profile == nil || profile.TrialStarted == nil || profile.TrialEnds == nil {
		return false
	}
	return !now.Before(*profile.TrialStarted) && now.Before(*profile.TrialEnds)
}
