package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// mockProfileStore is an in-memory ProfileStore.
type mockProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{profiles: make(map[string]*models.UserProfile)}
}

func (m *mockProfileStore) Get(_ context.Context, uid string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return nil, fmt.Errorf("profile not found: %s", uid)
	}
	clone := *p
	return &clone, nil
}

func (m *mockProfileStore) GetByEmail(_ context.Context, email string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Email == email {
			clone := *p
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("profile not found: %s", email)
}

func (m *mockProfileStore) Save(_ context.Context, profile *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *profile
	m.profiles[profile.UID] = &clone
	return nil
}

func (m *mockProfileStore) Delete(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, uid)
	return nil
}

func (m *mockProfileStore) List(_ context.Context) ([]string, error) {
	return nil, nil
}

type mockStorageManager struct {
	profiles *mockProfileStore
}

func (m *mockStorageManager) Profiles() interfaces.ProfileStore { return m.profiles }
func (m *mockStorageManager) Records() interfaces.RecordStore   { return nil }
func (m *mockStorageManager) Contacts() interfaces.ContactStore { return nil }
func (m *mockStorageManager) Backups() interfaces.BackupStore   { return nil }
func (m *mockStorageManager) Close() error                      { return nil }

func testService() (*Service, *mockStorageManager) {
	storage := &mockStorageManager{profiles: newMockProfileStore()}
	return NewService(storage, 10000, common.NewSilentLogger()), storage
}

func TestCreateDummyAccount(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	p := &models.UserProfile{
		UID:         "user1",
		Email:       " Alice@Example.COM ",
		AccountType: models.AccountTypeDummy,
	}
	require.NoError(t, svc.Create(ctx, p))

	stored, err := svc.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", stored.Email)
	assert.Equal(t, 10000.0, stored.ZolosBalance)
	require.NotNil(t, stored.Portfolio)
	assert.Equal(t, 10000.0, stored.Portfolio.ZolosBalance)
	assert.Empty(t, stored.Portfolio.Holdings)
	assert.Equal(t, models.PlanFree, stored.SubscriptionPlan)
	assert.NotNil(t, stored.Watchlist)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestCreateLiveAccount(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	p := &models.UserProfile{
		UID:         "user2",
		Email:       "bob@example.com",
		AccountType: models.AccountTypeLive,
	}
	require.NoError(t, svc.Create(ctx, p))

	stored, err := svc.Get(ctx, "user2")
	require.NoError(t, err)
	assert.Zero(t, stored.ZolosBalance)
	assert.Nil(t, stored.Portfolio)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	err := svc.Create(ctx, &models.UserProfile{Email: "a@b.com", AccountType: models.AccountTypeDummy})
	assert.Error(t, err)

	err = svc.Create(ctx, &models.UserProfile{UID: "u", AccountType: models.AccountTypeDummy})
	assert.Error(t, err)

	err = svc.Create(ctx, &models.UserProfile{UID: "u", Email: "a@b.com", AccountType: "margin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account type")
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	first := &models.UserProfile{UID: "user1", Email: "alice@example.com", AccountType: models.AccountTypeDummy}
	require.NoError(t, svc.Create(ctx, first))

	second := &models.UserProfile{UID: "user2", Email: "ALICE@example.com", AccountType: models.AccountTypeLive}
	err := svc.Create(ctx, second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestGetByEmailNormalizes(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, &models.UserProfile{UID: "user1", Email: "alice@example.com", AccountType: models.AccountTypeLive}))

	p, err := svc.GetByEmail(ctx, "  ALICE@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "user1", p.UID)
}

func TestUpdatePreferences(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, &models.UserProfile{UID: "user1", Email: "a@b.com", AccountType: models.AccountTypeLive}))

	p, err := svc.UpdatePreferences(ctx, "user1", map[string]string{"theme": "dark", "currency": "USD"})
	require.NoError(t, err)
	assert.Equal(t, "dark", p.Preferences["theme"])

	// Empty value deletes the key; others are preserved.
	p, err = svc.UpdatePreferences(ctx, "user1", map[string]string{"theme": ""})
	require.NoError(t, err)
	_, ok := p.Preferences["theme"]
	assert.False(t, ok)
	assert.Equal(t, "USD", p.Preferences["currency"])
}

func TestSetDisplayName(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, &models.UserProfile{UID: "user1", Email: "a@b.com", AccountType: models.AccountTypeLive}))

	p, err := svc.SetDisplayName(ctx, "user1", "  Alice  ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.DisplayName)

	_, err = svc.SetDisplayName(ctx, "user1", "")
	assert.Error(t, err)

	_, err = svc.SetDisplayName(ctx, "user1", strings.Repeat("a", 101))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100")
}

func TestChooseContinentOnce(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, &models.UserProfile{UID: "user1", Email: "a@b.com", AccountType: models.AccountTypeLive}))

	p, err := svc.ChooseContinent(ctx, "user1", " Asia ")
	require.NoError(t, err)
	assert.Equal(t, "asia", p.Continent)
	assert.True(t, p.ContinentChosen)

	// Second choice is rejected, state unchanged.
	_, err = svc.ChooseContinent(ctx, "user1", "europe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already chosen")

	stored, err := svc.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "asia", stored.Continent)
}

func TestNewServiceDefaultsStartingZolos(t *testing.T) {
	storage := &mockStorageManager{profiles: newMockProfileStore()}
	svc := NewService(storage, 0, common.NewSilentLogger())
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.UserProfile{UID: "user1", Email: "a@b.com", AccountType: models.AccountTypeDummy}))
	stored, err := svc.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, stored.ZolosBalance)
}
