package badger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// ProfileStore persists UserProfile documents keyed by uid.
type ProfileStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

func profileKey(uid string) string {
	return "profile" + keySep + uid
}

func (s *ProfileStore) Get(_ context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Get(profileKey(uid), &profile); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("profile '%s' not found", uid)
		}
		return nil, fmt.Errorf("failed to get profile '%s': %w", uid, err)
	}
	return &profile, nil
}

func (s *ProfileStore) GetByEmail(_ context.Context, email string) (*models.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var all []models.UserProfile
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}
	for i := range all {
		if strings.ToLower(all[i].Email) == email {
			p := all[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile with email '%s' not found", email)
}

func (s *ProfileStore) Save(_ context.Context, profile *models.UserProfile) error {
	if profile.UID == "" {
		return fmt.Errorf("profile uid is required")
	}
	profile.ModifiedAt = time.Now()
	if err := s.db.Upsert(profileKey(profile.UID), profile); err != nil {
		return fmt.Errorf("failed to save profile '%s': %w", profile.UID, err)
	}
	return nil
}

func (s *ProfileStore) Delete(_ context.Context, uid string) error {
	if err := s.db.Delete(profileKey(uid), models.UserProfile{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete profile '%s': %w", uid, err)
	}
	return nil
}

func (s *ProfileStore) List(_ context.Context) ([]string, error) {
	var all []models.UserProfile
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	uids := make([]string, 0, len(all))
	for i := range all {
		uids = append(uids, all[i].UID)
	}
	sort.Strings(uids)
	return uids, nil
}
