package surreal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// ProfileStore persists UserProfile documents in the user_profile table.
type ProfileStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func (s *ProfileStore) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	profile, err := surrealdb.Select[models.UserProfile](ctx, s.db, surrealmodels.NewRecordID("user_profile", uid))
	if err != nil {
		return nil, fmt.Errorf("failed to select profile '%s': %w", uid, err)
	}
	if profile == nil || profile.UID == "" {
		return nil, fmt.Errorf("profile '%s' not found", uid)
	}
	return profile, nil
}

func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	sql := "SELECT * FROM user_profile WHERE string::lowercase(email) = $email LIMIT 1"
	vars := map[string]any{"email": strings.ToLower(strings.TrimSpace(email))}

	results, err := surrealdb.Query[[]models.UserProfile](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile by email: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, fmt.Errorf("profile with email '%s' not found", email)
}

func (s *ProfileStore) Save(ctx context.Context, profile *models.UserProfile) error {
	if profile.UID == "" {
		return fmt.Errorf("profile uid is required")
	}
	profile.ModifiedAt = time.Now()

	sql := "UPSERT $rid CONTENT $profile"
	vars := map[string]any{
		"rid":     surrealmodels.NewRecordID("user_profile", profile.UID),
		"profile": profile,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.UserProfile](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save profile '%s' after retries: %w", profile.UID, lastErr)
}

func (s *ProfileStore) Delete(ctx context.Context, uid string) error {
	_, err := surrealdb.Delete[models.UserProfile](ctx, s.db, surrealmodels.NewRecordID("user_profile", uid))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete profile '%s': %w", uid, err)
	}
	return nil
}

func (s *ProfileStore) List(ctx context.Context) ([]string, error) {
	sql := "SELECT uid FROM user_profile ORDER BY uid ASC"
	results, err := surrealdb.Query[[]models.UserProfile](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var uids []string
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			uids = append(uids, (*results)[0].Result[i].UID)
		}
	}
	return uids, nil
}
