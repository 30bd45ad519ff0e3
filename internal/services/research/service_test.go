package research

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
	"github.com/stockseer-ai/stockseer-server/internal/services/plan"
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
	clone.Watchlist = append([]string(nil), p.Watchlist...)
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

// mockRecordStore is an in-memory RecordStore keyed by subject+key.
type mockRecordStore struct {
	mu      sync.Mutex
	records map[string]*models.UserRecord
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{records: make(map[string]*models.UserRecord)}
}

func recordKey(userID, subject, key string) string {
	return userID + "/" + subject + "/" + key
}

func (m *mockRecordStore) Get(_ context.Context, userID, subject, key string) (*models.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[recordKey(userID, subject, key)]
	if !ok {
		return nil, fmt.Errorf("record not found: %s/%s", subject, key)
	}
	clone := *r
	return &clone, nil
}

func (m *mockRecordStore) Put(_ context.Context, record *models.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	if prev, ok := m.records[recordKey(record.UserID, record.Subject, record.Key)]; ok {
		clone.Version = prev.Version + 1
	} else {
		clone.Version = 1
	}
	if clone.DateTime.IsZero() {
		clone.DateTime = time.Now()
	}
	m.records[recordKey(record.UserID, record.Subject, record.Key)] = &clone
	return nil
}

func (m *mockRecordStore) Delete(_ context.Context, userID, subject, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := recordKey(userID, subject, key)
	if _, ok := m.records[k]; !ok {
		return fmt.Errorf("record not found: %s/%s", subject, key)
	}
	delete(m.records, k)
	return nil
}

func (m *mockRecordStore) List(_ context.Context, userID, subject string) ([]*models.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.UserRecord
	for _, r := range m.records {
		if r.UserID == userID && r.Subject == subject {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockRecordStore) Query(ctx context.Context, userID, subject string, _ interfaces.QueryOptions) ([]*models.UserRecord, error) {
	return m.List(ctx, userID, subject)
}

// mockStorageManager bundles the in-memory stores.
type mockStorageManager struct {
	profiles *mockProfileStore
	records  *mockRecordStore
}

func newMockStorageManager() *mockStorageManager {
	return &mockStorageManager{
		profiles: newMockProfileStore(),
		records:  newMockRecordStore(),
	}
}

func (m *mockStorageManager) Profiles() interfaces.ProfileStore { return m.profiles }
func (m *mockStorageManager) Records() interfaces.RecordStore   { return m.records }
func (m *mockStorageManager) Contacts() interfaces.ContactStore { return nil }
func (m *mockStorageManager) Backups() interfaces.BackupStore   { return nil }
func (m *mockStorageManager) Close() error                      { return nil }

// stubMarketData returns canned financials.
type stubMarketData struct {
	financialsErr error
}

func (s *stubMarketData) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	return &models.Quote{Symbol: symbol, Price: 100}, nil
}

func (s *stubMarketData) GetFinancials(_ context.Context, symbol string) (*models.Financials, error) {
	if s.financialsErr != nil {
		return nil, s.financialsErr
	}
	return &models.Financials{Symbol: symbol, Name: "Test Corp", PE: 21.5, EPS: 6.1}, nil
}

func (s *stubMarketData) GetOHLCV(_ context.Context, _ string, _ int) ([]models.ChartPoint, error) {
	return nil, nil
}

// stubGemini returns a fixed narrative.
type stubGemini struct {
	calls int
}

func (s *stubGemini) GenerateContent(_ context.Context, _ string) (string, error) {
	s.calls++
	return "A generated analysis.", nil
}

func (s *stubGemini) Close() error { return nil }

func testService(t *testing.T) (*Service, *mockStorageManager, *stubGemini) {
	t.Helper()
	storage := newMockStorageManager()
	logger := common.NewSilentLogger()
	plans := plan.NewService(storage, logger)
	gemini := &stubGemini{}
	svc := NewService(storage, plans, &stubMarketData{}, gemini, logger)
	return svc, storage, gemini
}

func liveProfile(uid string, p models.Plan) *models.UserProfile {
	return &models.UserProfile{
		UID:              uid,
		Email:            uid + "@example.com",
		AccountType:      models.AccountTypeLive,
		SubscriptionPlan: p,
	}
}

func TestAddToWatchlist(t *testing.T) {
	svc, storage, _ := testService(t)
	ctx := context.Background()
	require.NoError(t, storage.profiles.Save(ctx, liveProfile("user1", models.PlanFree)))

	profile, err := svc.AddToWatchlist(ctx, "user1", " aapl ")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, profile.Watchlist)

	// Duplicate add is a no-op.
	profile, err = svc.AddToWatchlist(ctx, "user1", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, profile.Watchlist)

	_, err = svc.AddToWatchlist(ctx, "user1", "")
	assert.Error(t, err)
}

func TestAddToWatchlistPlanLimit(t *testing.T) {
	svc, storage, _ := testService(t)
	ctx := context.Background()
	p := liveProfile("user1", models.PlanFree)
	p.Watchlist = []string{"AAPL", "MSFT", "GOOG", "AMZN", "TSLA"}
	require.NoError(t, storage.profiles.Save(ctx, p))

	_, err := svc.AddToWatchlist(ctx, "user1", "NVDA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watchlist limit")

	// Already-tracked symbols still succeed at the limit.
	profile, err := svc.AddToWatchlist(ctx, "user1", "TSLA")
	require.NoError(t, err)
	assert.Len(t, profile.Watchlist, 5)
}

func TestRemoveFromWatchlist(t *testing.T) {
	svc, storage, _ := testService(t)
	ctx := context.Background()
	p := liveProfile("user1", models.PlanFree)
	p.Watchlist = []string{"AAPL", "MSFT"}
	require.NoError(t, storage.profiles.Save(ctx, p))

	profile, err := svc.RemoveFromWatchlist(ctx, "user1", "aapl")
	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT"}, profile.Watchlist)

	// Removing an untracked symbol is a no-op.
	profile, err = svc.RemoveFromWatchlist(ctx, "user1", "NVDA")
	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT"}, profile.Watchlist)
}

func TestNoteLifecycle(t *testing.T) {
	svc, storage, _ := testService(t)
	ctx := context.Background()
	require.NoError(t, storage.profiles.Save(ctx, liveProfile("user1", models.PlanPremium)))

	note, err := svc.CreateNote(ctx, "user1", &models.ResearchNote{
		Title:   "Earnings watch",
		Content: "Q3 guidance looks strong",
		Symbol:  "aapl",
		Tags:    []string{"earnings"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "AAPL", note.Symbol)
	assert.Equal(t, "user1", note.UserID)
	assert.False(t, note.CreatedAt.IsZero())

	updated, err := svc.UpdateNote(ctx, "user1", note.ID, &models.ResearchNote{Content: "Guidance revised down"})
	require.NoError(t, err)
	assert.Equal(t, "Earnings watch", updated.Title)
	assert.Equal(t, "Guidance revised down", updated.Content)
	assert.True(t, updated.UpdatedAt.After(note.CreatedAt) || updated.UpdatedAt.Equal(note.CreatedAt))

	notes, err := svc.ListNotes(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Guidance revised down", notes[0].Content)

	require.NoError(t, svc.DeleteNote(ctx, "user1", note.ID))
	notes, err = svc.ListNotes(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestCreateNoteValidation(t *testing.T) {
	svc, storage, _ := testService(t)
	ctx := context.Background()
	require.NoError(t, storage.profiles.Save(ctx, liveProfile("user1", models.PlanFree)))

	_, err := svc.CreateNote(ctx, "user1", &models.ResearchNote{Title: "  "})
	assert.Error(t, err)
}

func TestCreateNotePlanLimit(t *testing.T) {
	svc, storage, _ := testService(t)
	ctx := context.Background()
	require.NoError(t, storage.profiles.Save(ctx, liveProfile("user1", models.PlanFree)))

	// Free plan allows 10 notes.
	for i := 0; i < 10; i++ {
		_, err := svc.CreateNote(ctx, "user1", &models.ResearchNote{Title: fmt.Sprintf("note %d", i)})
		require.NoError(t, err)
	}

	_, err := svc.CreateNote(ctx, "user1", &models.ResearchNote{Title: "one too many"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "note limit")
}

func TestGenerateReport(t *testing.T) {
	svc, storage, gemini := testService(t)
	ctx := context.Background()
	require.NoError(t, storage.profiles.Save(ctx, liveProfile("user1", models.PlanPremium)))

	report, err := svc.GenerateReport(ctx, "user1", "aapl", models.ReportTypeFundamental, map[string]string{"horizon": "1y"})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", report.Symbol)
	assert.Equal(t, "A generated analysis.", report.Summary)
	assert.NotNil(t, report.Financials)
	assert.Equal(t, 1, gemini.calls)

	reports, err := svc.ListReports(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, report.ID, reports[0].ID)
}

func TestGenerateReportValidation(t *testing.T) {
	svc, storage, _ := testService(t)
	ctx := context.Background()
	require.NoError(t, storage.profiles.Save(ctx, liveProfile("user1", models.PlanPremium)))

	_, err := svc.GenerateReport(ctx, "user1", "", models.ReportTypeFundamental, nil)
	assert.Error(t, err)

	_, err = svc.GenerateReport(ctx, "user1", "AAPL", models.ReportType("quarterly"), nil)
	assert.Error(t, err)
}

func TestGenerateReportSentimentNeedsPremium(t *testing.T) {
	svc, storage, _ := testService(t)
	ctx := context.Background()
	require.NoError(t, storage.profiles.Save(ctx, liveProfile("user1", models.PlanFree)))

	_, err := svc.GenerateReport(ctx, "user1", "AAPL", models.ReportTypeSentiment, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "premium")
}

func TestGenerateReportMonthlyQuota(t *testing.T) {
	svc, storage, _ := testService(t)
	ctx := context.Background()
	require.NoError(t, storage.profiles.Save(ctx, liveProfile("user1", models.PlanFree)))

	// Free plan allows 2 reports per month.
	for i := 0; i < 2; i++ {
		_, err := svc.GenerateReport(ctx, "user1", "AAPL", models.ReportTypeFundamental, nil)
		require.NoError(t, err)
	}

	_, err := svc.GenerateReport(ctx, "user1", "AAPL", models.ReportTypeFundamental, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report limit")
}

func TestGenerateReportWithoutGemini(t *testing.T) {
	storage := newMockStorageManager()
	logger := common.NewSilentLogger()
	plans := plan.NewService(storage, logger)
	svc := NewService(storage, plans, &stubMarketData{}, nil, logger)
	ctx := context.Background()
	require.NoError(t, storage.profiles.Save(ctx, liveProfile("user1", models.PlanPremium)))

	_, err := svc.GenerateReport(ctx, "user1", "AAPL", models.ReportTypeFundamental, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestGenerateReportFinancialsFailure(t *testing.T) {
	storage := newMockStorageManager()
	logger := common.NewSilentLogger()
	plans := plan.NewService(storage, logger)
	svc := NewService(storage, plans, &stubMarketData{financialsErr: fmt.Errorf("upstream down")}, &stubGemini{}, logger)
	ctx := context.Background()
	require.NoError(t, storage.profiles.Save(ctx, liveProfile("user1", models.PlanPremium)))

	_, err := svc.GenerateReport(ctx, "user1", "AAPL", models.ReportTypeFundamental, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "financials")
}
