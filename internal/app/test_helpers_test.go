package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/example/streak/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

var errStoreDown = errors.New("database is locked")

// Ensure mocks implement the interfaces
var (
	_ secondary.StreakStateRepository = (*mockStateRepository)(nil)
	_ secondary.DailyRecordRepository = (*mockDailyRepository)(nil)
	_ secondary.TriggerLogRepository  = (*mockTriggerRepository)(nil)
	_ secondary.EpitaphRepository     = (*mockEpitaphRepository)(nil)
	_ secondary.AnalyticsCache        = (*mockCache)(nil)
	_ secondary.Clock                 = (*mockClock)(nil)
	_ secondary.ChallengePresenter    = (*mockPresenter)(nil)
	_ secondary.ActivityLog           = (*mockActivityLog)(nil)
	_ secondary.ActivityLogRepository = (*mockActivityRepository)(nil)
)

// mockStateRepository implements secondary.StreakStateRepository for testing.
type mockStateRepository struct {
	mu        sync.Mutex
	states    map[string]*secondary.StreakStateRecord
	getErr    error
	createErr error
	updateErr error
	listErr   error
	updates   int
	// beforeUpdate runs before a patch is applied, e.g. to simulate another
	// session writing first.
	beforeUpdate func(m *mockStateRepository)
}

func newMockStateRepository() *mockStateRepository {
	return &mockStateRepository{states: make(map[string]*secondary.StreakStateRecord)}
}

func (m *mockStateRepository) put(r *secondary.StreakStateRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *r
	c.Exists = true
	c.Achievements = append([]string(nil), r.Achievements...)
	m.states[r.UserID] = &c
}

func (m *mockStateRepository) Get(ctx context.Context, userID string) (*secondary.StreakStateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.states[userID]
	if !ok {
		return &secondary.StreakStateRecord{UserID: userID}, nil
	}
	c := *r
	c.Achievements = append([]string(nil), r.Achievements...)
	return &c, nil
}

func (m *mockStateRepository) Create(ctx context.Context, record *secondary.StreakStateRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.put(record)
	return nil
}

func (m *mockStateRepository) Update(ctx context.Context, patch *secondary.StreakStatePatch) error {
	if m.beforeUpdate != nil {
		hook := m.beforeUpdate
		m.beforeUpdate = nil
		hook(m)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	r, ok := m.states[patch.UserID]
	if !ok {
		return errors.New("streak state not found")
	}
	if patch.UnlessCheckedInOn != "" && r.LastCheckInDate == patch.UnlessCheckedInOn {
		return secondary.ErrStaleWrite
	}
	m.updates++
	if patch.CurrentStreak != nil {
		r.CurrentStreak = *patch.CurrentStreak
	}
	if patch.LongestStreak != nil {
		r.LongestStreak = *patch.LongestStreak
	}
	if patch.LastCheckInDate != nil {
		r.LastCheckInDate = *patch.LastCheckInDate
	}
	if patch.StreakStartedAt != nil {
		r.StreakStartedAt = *patch.StreakStartedAt
	}
	if patch.LastEpitaphDate != nil {
		r.LastEpitaphDate = *patch.LastEpitaphDate
	}
	for _, id := range patch.AddAchievements {
		if !containsString(r.Achievements, id) {
			r.Achievements = append(r.Achievements, id)
		}
	}
	return nil
}

func (m *mockStateRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]string, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// mockDailyRepository implements secondary.DailyRecordRepository for testing.
type mockDailyRepository struct {
	mu        sync.Mutex
	records   map[string]*secondary.DailyRecordRecord // user|date -> record
	getErr    error
	upsertErr error
	listCalls int
	// afterList runs once the ListRange snapshot is taken, outside the lock.
	afterList func(ctx context.Context)
}

func newMockDailyRepository() *mockDailyRepository {
	return &mockDailyRepository{records: make(map[string]*secondary.DailyRecordRecord)}
}

func (m *mockDailyRepository) Get(ctx context.Context, userID, dateKey string) (*secondary.DailyRecordRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.records[userID+"|"+dateKey]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (m *mockDailyRepository) UpsertMerge(ctx context.Context, patch *secondary.DailyRecordPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	key := patch.UserID + "|" + patch.DateKey
	r, ok := m.records[key]
	if !ok {
		r = &secondary.DailyRecordRecord{UserID: patch.UserID, DateKey: patch.DateKey, TotalHabits: 3}
		m.records[key] = r
	}
	if patch.SelectedMissionIDs != nil {
		r.SelectedMissionIDs = append([]string(nil), patch.SelectedMissionIDs...)
	}
	if patch.CompletedHabitIDs != nil {
		r.CompletedHabitIDs = append([]string(nil), patch.CompletedHabitIDs...)
	}
	if patch.CheckInEmotion != nil {
		r.CheckInEmotion = *patch.CheckInEmotion
	}
	if patch.CheckInContext != nil {
		r.CheckInContext = *patch.CheckInContext
	}
	if patch.CompletedCount != nil {
		r.CompletedCount = *patch.CompletedCount
	}
	if patch.TotalHabits != nil {
		r.TotalHabits = *patch.TotalHabits
	}
	if patch.Percentage != nil {
		r.Percentage = *patch.Percentage
	}
	return nil
}

func (m *mockDailyRepository) ListRange(ctx context.Context, userID, from, to string) ([]*secondary.DailyRecordRecord, error) {
	out, hook, err := m.snapshot(userID, from, to)
	if hook != nil {
		hook(ctx)
	}
	return out, err
}

func (m *mockDailyRepository) snapshot(userID, from, to string) ([]*secondary.DailyRecordRecord, func(context.Context), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.getErr != nil {
		return nil, m.afterList, m.getErr
	}
	var out []*secondary.DailyRecordRecord
	for _, r := range m.records {
		if r.UserID == userID && r.DateKey >= from && r.DateKey <= to {
			c := *r
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey < out[j].DateKey })
	return out, m.afterList, nil
}

// mockTriggerRepository implements secondary.TriggerLogRepository for testing.
type mockTriggerRepository struct {
	mu        sync.Mutex
	events    []*secondary.TriggerEventRecord
	appendErr error
	queryErr  error
}

func newMockTriggerRepository() *mockTriggerRepository {
	return &mockTriggerRepository{}
}

func (m *mockTriggerRepository) Append(ctx context.Context, event *secondary.TriggerEventRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	c := *event
	m.events = append(m.events, &c)
	return nil
}

func (m *mockTriggerRepository) QueryFrom(ctx context.Context, userID, dateKey string) ([]*secondary.TriggerEventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var out []*secondary.TriggerEventRecord
	for _, e := range m.events {
		if e.UserID == userID && e.DateKey >= dateKey {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

// mockEpitaphRepository implements secondary.EpitaphRepository for testing.
type mockEpitaphRepository struct {
	mu        sync.Mutex
	entries   []*secondary.EpitaphRecord
	appendErr error
}

func newMockEpitaphRepository() *mockEpitaphRepository {
	return &mockEpitaphRepository{}
}

func (m *mockEpitaphRepository) Append(ctx context.Context, entry *secondary.EpitaphRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	for _, e := range m.entries {
		if e.UserID == entry.UserID && e.DateKey == entry.DateKey {
			return secondary.ErrDuplicateEpitaph
		}
	}
	c := *entry
	m.entries = append(m.entries, &c)
	return nil
}

func (m *mockEpitaphRepository) List(ctx context.Context, userID string, limit int) ([]*secondary.EpitaphRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.EpitaphRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].UserID == userID {
			c := *m.entries[i]
			out = append(out, &c)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockCache implements secondary.AnalyticsCache for testing.
type mockCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	getErr        error
	setErr        error
	invalidateErr error
	generationErr error
	sets          int
	invalidations []string
	generations   map[string]int64
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte), generations: make(map[string]int64)}
}

func (m *mockCache) Generation(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generationErr != nil {
		return 0, m.generationErr
	}
	return m.generations[userID], nil
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = value
	return nil
}

func (m *mockCache) InvalidateUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidations = append(m.invalidations, userID)
	if m.invalidateErr != nil {
		return m.invalidateErr
	}
	m.generations[userID]++
	prefix := secondary.AnalyticsUserPrefix(userID)
	for k := range m.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(m.entries, k)
		}
	}
	return nil
}

// mockClock implements secondary.Clock for testing.
type mockClock struct {
	now time.Time
}

var testLoc = time.FixedZone("BRT", -3*60*60)

// newMockClock returns a clock at 09:00 BRT on day.
func newMockClock(day string) *mockClock {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" 09:00", testLoc)
	if err != nil {
		panic(err)
	}
	return &mockClock{now: t}
}

func (m *mockClock) Now() time.Time           { return m.now }
func (m *mockClock) Location() *time.Location { return testLoc }

// mockPresenter implements secondary.ChallengePresenter for testing.
type mockPresenter struct {
	passed bool
	err    error
	calls  int
}

func (m *mockPresenter) Present(ctx context.Context) (bool, error) {
	m.calls++
	return m.passed, m.err
}

// mockActivityLog implements secondary.ActivityLog for testing.
type mockActivityLog struct {
	mu      sync.Mutex
	entries []secondary.ActivityRecord
	err     error
}

func (m *mockActivityLog) Record(ctx context.Context, userID, action, fieldName, oldValue, newValue string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, secondary.ActivityRecord{
		UserID: userID, Action: action, FieldName: fieldName, OldValue: oldValue, NewValue: newValue,
	})
	return nil
}

func (m *mockActivityLog) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

// mockActivityRepository implements secondary.ActivityLogRepository for testing.
type mockActivityRepository struct {
	records    []*secondary.ActivityRecord
	lastFilter secondary.ActivityFilters
	prunedDays int
	err        error
}

func (m *mockActivityRepository) Create(ctx context.Context, record *secondary.ActivityRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockActivityRepository) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	m.lastFilter = filters
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *mockActivityRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	m.prunedDays = days
	if m.err != nil {
		return 0, m.err
	}
	return len(m.records), nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// startedAt returns an RFC3339 instant at 08:00 BRT on day.
func startedAt(day string) string {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" 08:00", testLoc)
	if err != nil {
		panic(err)
	}
	return t.Format(time.RFC3339)
}
