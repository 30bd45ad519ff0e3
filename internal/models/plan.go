package models

import "time"

// Plan is a subscription tier. Each higher tier's market list is a strict
// superset of the one below.
type Plan string

const (
	PlanFree        Plan = "free"
	PlanPremium     Plan = "premium"
	PlanPremiumPlus Plan = "premium-plus"
)

// Valid reports whether the plan is a known tier.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPremium || p == PlanPremiumPlus
}

// PlanLimits holds per-plan capability flags. -1 means unlimited.
type PlanLimits struct {
	MaxWatchlist    int  `json:"max_watchlist"`
	MaxNotes        int  `json:"max_notes"`
	ReportsPerMonth int  `json:"reports_per_month"`
	APIAccess       bool `json:"api_access"`
	RealtimeData    bool `json:"realtime_data"`
	AIPredictions   bool `json:"ai_predictions"`
}

// TrialDuration is the free-trial window started when upgrading from free
// to premium (but not premium-plus).
const TrialDuration = 14 * 24 * time.Hour
