package plan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

type mockProfileStore struct {
	profiles map[string]*models.UserProfile
}

func (m *mockProfileStore) Get(_ context.Context, uid string) (*models.UserProfile, error) {
	p, ok := m.profiles[uid]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", uid)
	}
	clone := *p
	return &clone, nil
}

func (m *mockProfileStore) GetByEmail(_ context.Context, _ string) (*models.UserProfile, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockProfileStore) Save(_ context.Context, profile *models.UserProfile) error {
	clone := *profile
	m.profiles[profile.UID] = &clone
	return nil
}

func (m *mockProfileStore) Delete(_ context.Context, uid string) error { return nil }
func (m *mockProfileStore) List(_ context.Context) ([]string, error)   { return nil, nil }

type mockStorageManager struct {
	profiles *mockProfileStore
}

func (m *mockStorageManager) Profiles() interfaces.ProfileStore { return m.profiles }
func (m *mockStorageManager) Records() interfaces.RecordStore   { return nil }
func (m *mockStorageManager) Contacts() interfaces.ContactStore { return nil }
func (m *mockStorageManager) Backups() interfaces.BackupStore   { return nil }
func (m *mockStorageManager) Close() error                      { return nil }

func testService() (*Service, *mockStorageManager) {
	storage := &mockStorageManager{
		profiles: &mockProfileStore{profiles: make(map[string]*models.UserProfile)},
	}
	return NewService(storage, common.NewSilentLogger()), storage
}

func TestMarketAccessMonotonicity(t *testing.T) {
	svc, _ := testService()

	// Every market reachable under free must be reachable under both paid
	// tiers, and every premium market under premium-plus.
	for _, m := range freeMarkets {
		assert.True(t, svc.CanAccessMarket(models.PlanFree, m), m)
		assert.True(t, svc.CanAccessMarket(models.PlanPremium, m), m)
		assert.True(t, svc.CanAccessMarket(models.PlanPremiumPlus, m), m)
	}
	for _, m := range premiumMarkets {
		assert.True(t, svc.CanAccessMarket(models.PlanPremium, m), m)
		assert.True(t, svc.CanAccessMarket(models.PlanPremiumPlus, m), m)
	}
}

func TestCanAccessMarketCaseInsensitive(t *testing.T) {
	svc, _ := testService()

	assert.True(t, svc.CanAccessMarket(models.PlanFree, "nse"))
	assert.True(t, svc.CanAccessMarket(models.PlanPremium, " Nyse "))
	assert.False(t, svc.CanAccessMarket(models.PlanFree, "NYSE"))
	assert.False(t, svc.CanAccessMarket(models.PlanFree, ""))
}

func TestLimits(t *testing.T) {
	svc, _ := testService()

	free := svc.Limits(models.PlanFree)
	assert.Equal(t, 5, free.MaxWatchlist)
	assert.False(t, free.AIPredictions)

	plus := svc.Limits(models.PlanPremiumPlus)
	assert.Equal(t, -1, plus.MaxWatchlist)
	assert.True(t, plus.APIAccess)

	// Unknown plan falls back to free limits.
	unknown := svc.Limits(models.Plan("enterprise"))
	assert.Equal(t, free, unknown)
}

func TestCanAccessFeature(t *testing.T) {
	svc, _ := testService()

	assert.False(t, svc.CanAccessFeature(models.PlanFree, "ai_predictions"))
	assert.True(t, svc.CanAccessFeature(models.PlanPremium, "ai_predictions"))
	assert.True(t, svc.CanAccessFeature(models.PlanPremiumPlus, "API_ACCESS"))
	assert.False(t, svc.CanAccessFeature(models.PlanPremiumPlus, "teleportation"))
}

func TestContinentPlan(t *testing.T) {
	svc, _ := testService()

	assert.Equal(t, models.PlanFree, svc.ContinentPlan("asia"))
	assert.Equal(t, models.PlanFree, svc.ContinentPlan(" Asia "))
	assert.Equal(t, models.PlanPremiumPlus, svc.ContinentPlan("global"))
	assert.Equal(t, models.PlanPremium, svc.ContinentPlan("europe"))
	assert.Equal(t, models.PlanPremium, svc.ContinentPlan("north-america"))
}

func TestChangePlanStartsTrial(t *testing.T) {
	svc, storage := testService()
	ctx := context.Background()
	storage.profiles.Save(ctx, &models.UserProfile{UID: "u1", SubscriptionPlan: models.PlanFree})

	profile, err := svc.ChangePlan(ctx, "u1", models.PlanPremium)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPremium, profile.SubscriptionPlan)
	require.NotNil(t, profile.TrialStarted)
	require.NotNil(t, profile.TrialEnds)
	assert.Equal(t, models.TrialDuration, profile.TrialEnds.Sub(*profile.TrialStarted))

	assert.True(t, svc.TrialActive(profile, time.Now()))
	assert.False(t, svc.TrialActive(profile, time.Now().Add(15*24*time.Hour)))
}

func TestChangePlanNoTrialForPremiumPlus(t *testing.T) {
	svc, storage := testService()
	ctx := context.Background()
	storage.profiles.Save(ctx, &models.UserProfile{UID: "u1", SubscriptionPlan: models.PlanFree})

	profile, err := svc.ChangePlan(ctx, "u1", models.PlanPremiumPlus)
	require.NoError(t, err)
	assert.Nil(t, profile.TrialStarted)
	assert.Nil(t, profile.TrialEnds)
}

func TestChangePlanClearsTrialOnDowngrade(t *testing.T) {
	svc, storage := testService()
	ctx := context.Background()
	storage.profiles.Save(ctx, &models.UserProfile{UID: "u1", SubscriptionPlan: models.PlanFree})

	_, err := svc.ChangePlan(ctx, "u1", models.PlanPremium)
	require.NoError(t, err)

	profile, err := svc.ChangePlan(ctx, "u1", models.PlanFree)
	require.NoError(t, err)
	assert.Nil(t, profile.TrialStarted)
	assert.False(t, svc.TrialActive(profile, time.Now()))
}

func TestChangePlanRejectsUnknown(t *testing.T) {
	svc, storage := testService()
	ctx := context.Background()
	storage.profiles.Save(ctx, &models.UserProfile{UID: "u1"})

	_, err := svc.ChangePlan(ctx, "u1", models.Plan("gold"))
	assert.Error(t, err)
}
