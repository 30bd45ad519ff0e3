// Package profile manages user profile documents and account lifecycle.
package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// Compile-time interface check
var _ interfaces.ProfileService = (*Service)(nil)

// Service implements ProfileService
type Service struct {
	storage       interfaces.StorageManager
	startingZolos float64
	logger        *common.Logger
}

// NewService creates a new profile service
func NewService(storage interfaces.StorageManager, startingZolos float64, logger *common.Logger) *Service {
	if startingZolos <= 0 {
		startingZolos = 10000
	}
	return &Service{
		storage:       storage,
		startingZolos: startingZolos,
		logger:        logger,
	}
}

// Create validates and persists a new profile. AccountType is fixed here and
// never changes afterwards. Dummy accounts are seeded with the starting Zolos
// balance and an empty portfolio.
func (s *Service) Create(ctx context.Context, profile *models.UserProfile) error {
	if profile.UID == "" {
		return fmt.Errorf("uid is required")
	}
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	if profile.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !profile.AccountType.Valid() {
		return fmt.Errorf("invalid account type %q; must be live or dummy", profile.AccountType)
	}

	if existing, err := s.storage.Profiles().GetByEmail(ctx, profile.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' is already registered", profile.Email)
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.ModifiedAt = now
	if profile.Watchlist == nil {
		profile.Watchlist = []string{}
	}
	if profile.SubscriptionPlan == "" {
		profile.SubscriptionPlan = models.PlanFree
	}

	if profile.IsDummy() {
		profile.ZolosBalance = s.startingZolos
		profile.Portfolio = &models.Portfolio{
			ZolosBalance: s.startingZolos,
			Holdings:     []models.Holding{},
			LastUpdated:  now,
		}
	}

	if err := s.storage.Profiles().Save(ctx, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info().
		Str("uid", profile.UID).
		Str("account_type", string(profile.AccountType)).
		Msg("Profile created")

	return nil
}

// Get returns the profile for uid.
func (s *Service) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetByEmail returns the profile registered under email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	profile, err := s.storage.Profiles().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return profile, nil
}

// UpdatePreferences merges prefs into the profile's preference map.
func (s *Service) UpdatePreferences(ctx context.Context, uid string, prefs map[string]string) (*models.UserProfile, error) {
	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if profile.Preferences == nil {
		profile.Preferences = make(map[string]string)
	}
	for k, v := range prefs {
		if v == "" {
			delete(profile.Preferences, k)
			continue
		}
		profile.Preferences[k] = v
	}

	if err := s.storage.Profiles().Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return profile, nil
}

// SetDisplayName updates the profile's display name.
func (s *Service) SetDisplayName(ctx context.Context, uid, name string) (*models.UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("display name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("display name exceeds 100 characters")
	}

	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.DisplayName = name
	if err := s.storage.Profiles().Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save display name: %w", err)
	}
	return profile, nil
}

// ChooseContinent records the one-time region choice. A second call is
// rejected; the onboarding prompt only ever fires once per account.
func (s *Service) ChooseContinent(ctx context.Context, uid, continent string) (*models.UserProfile, error) {
	continent = strings.ToLower(strings.TrimSpace(continent))
	if continent == "" {
		return nil, fmt.Errorf("continent is required")
	}

	profile, err := s.storage.Profiles().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile.ContinentChosen {
		return nil, fmt.Errorf("continent already chosen")
	}

	profile.Continent = continent
	profile.ContinentChosen = true
	if err := s.storage.Profiles().Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save continent: %w", err)
	}

	s.logger.Info().Str("uid", uid).Str("continent", continent).Msg("Continent chosen")
	return profile, nil
}
