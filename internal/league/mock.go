package league

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/okosoff-test/hockeytest/internal/ledger"
)

var _ Store = (*MockStore)(nil)

type historyKey struct{ year, week int }

// MockStore is an in-memory Store for testing. Setting a XxxFunc makes the
// corresponding call fail or behave differently.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	players  []ledger.Player
	waitlist []ledger.WaitlistEntry
	settings map[string][]byte
	history  map[historyKey]HistoryRecord

	// Spies
	LoadAllFunc      func() (Snapshot, error)
	SaveSettingFunc  func(key string, value any) error
	InsertPlayerFunc func(p ledger.Player) error
	SaveHistoryFunc  func(rec HistoryRecord) error

	// Call records
	SaveSettingCalls []string
	SaveHistoryCalls []HistoryRecord
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		settings: make(map[string][]byte),
		history:  make(map[historyKey]HistoryRecord),
	}
}

func (m *MockStore) LoadAll(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadAllFunc != nil {
		return m.LoadAllFunc()
	}
	settings := make(map[string][]byte, len(m.settings))
	for k, v := range m.settings {
		settings[k] = slices.Clone(v)
	}
	return Snapshot{
		Players:  slices.Clone(m.players),
		Waitlist: slices.Clone(m.waitlist),
		Settings: settings,
	}, nil
}

func (m *MockStore) SaveSetting(ctx context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveSettingCalls = append(m.SaveSettingCalls, key)
	if m.SaveSettingFunc != nil {
		if err := m.SaveSettingFunc(key, value); err != nil {
			return err
		}
	}
	raw, err := sonic.Marshal(value)
	if err != nil {
		return err
	}
	m.settings[key] = raw
	return nil
}

// Setting returns the raw stored value for key.
func (m *MockStore) Setting(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings[key]
}

func (m *MockStore) InsertPlayer(ctx context.Context, p ledger.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertPlayerFunc != nil {
		if err := m.InsertPlayerFunc(p); err != nil {
			return err
		}
	}
	m.players = append(m.players, p)
	return nil
}

func (m *MockStore) UpdatePlayer(ctx context.Context, p ledger.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.players {
		if m.players[i].ID == p.ID {
			m.players[i] = p
		}
	}
	return nil
}

func (m *MockStore) DeletePlayer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players = slices.DeleteFunc(m.players, func(p ledger.Player) bool { return p.ID == id })
	return nil
}

func (m *MockStore) DeleteAllPlayers(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players = nil
	return nil
}

// StoredPlayers returns the persisted roster.
func (m *MockStore) StoredPlayers() []ledger.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.players)
}

func (m *MockStore) InsertWaitlist(ctx context.Context, w ledger.WaitlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitlist = append(m.waitlist, w)
	return nil
}

func (m *MockStore) DeleteWaitlist(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitlist = slices.DeleteFunc(m.waitlist, func(w ledger.WaitlistEntry) bool { return w.ID == id })
	return nil
}

func (m *MockStore) DeleteAllWaitlist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitlist = nil
	return nil
}

// StoredWaitlist returns the persisted waitlist.
func (m *MockStore) StoredWaitlist() []ledger.WaitlistEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.waitlist)
}

func (m *MockStore) SaveHistory(ctx context.Context, rec HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveHistoryCalls = append(m.SaveHistoryCalls, rec)
	if m.SaveHistoryFunc != nil {
		if err := m.SaveHistoryFunc(rec); err != nil {
			return err
		}
	}
	m.history[historyKey{rec.Year, rec.Week}] = rec
	return nil
}

func (m *MockStore) ListHistory(ctx context.Context) ([]HistorySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]HistorySummary, 0, len(m.history))
	for _, rec := range m.history {
		out = append(out, HistorySummary{Year: rec.Year, Week: rec.Week, Created: rec.ReleaseDate})
	}
	slices.SortFunc(out, func(a, b HistorySummary) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		return cmp.Compare(b.Week, a.Week)
	})
	return out, nil
}

func (m *MockStore) GetHistory(ctx context.Context, year, week int) (HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.history[historyKey{year, week}]
	if !ok {
		return HistoryRecord{}, ledger.NotFoundf("Week not found")
	}
	return rec, nil
}

func (m *MockStore) DeleteHistory(ctx context.Context, year, week int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := historyKey{year, week}
	if _, ok := m.history[key]; !ok {
		return ledger.NotFoundf("Week not found in history")
	}
	delete(m.history, key)
	return nil
}
