// Package models defines data structures for StockSeer
package models

import "time"

// AccountType distinguishes sandbox (dummy) users from research (live) users.
type AccountType string

const (
	AccountTypeLive  AccountType = "live"
	AccountTypeDummy AccountType = "dummy"
)

// Valid reports whether the account type is one of the known modes.
func (a AccountType) Valid() bool {
	return a == AccountTypeLive || a == AccountTypeDummy
}

// UserProfile is the per-user document (users/{uid}). Created at signup.
// AccountType is immutable after creation. ZolosBalance is present only for
// dummy accounts. The whole document is persisted on every mutation
// (last-write-wins, no cross-device coordination).
type UserProfile struct {
	UID          string      `json:"uid"`
	Email        string      `json:"email"`
	DisplayName  string      `json:"display_name"`
	PasswordHash string      `json:"password_hash,omitempty"`
	Role         string      `json:"role,omitempty"`
	AccountType  AccountType `json:"account_type"`

	ZolosBalance float64 `json:"zolos_balance,omitempty"`

	SubscriptionPlan Plan       `json:"subscription_plan,omitempty"`
	TrialStarted     *time.Time `json:"trial_started,omitempty"`
	TrialEnds        *time.Time `json:"trial_ends,omitempty"`
	Continent        string     `json:"continent,omitempty"`
	ContinentChosen  bool       `json:"continent_chosen,omitempty"`

	Watchlist    []string          `json:"watchlist"`
	Portfolio    *Portfolio        `json:"portfolio,omitempty"`
	Transactions []Transaction     `json:"transactions,omitempty"`
	Preferences  map[string]string `json:"preferences,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// IsDummy reports whether the profile is a sandbox trading account.
func (u *UserProfile) IsDummy() bool {
	return u.AccountType == AccountTypeDummy
}

// OnWatchlist reports whether symbol is already tracked.
func (u *UserProfile) OnWatchlist(symbol string) bool {
	for _, s := range u.Watchlist {
		if s == symbol {
			return true
		}
	}
	return false
}
