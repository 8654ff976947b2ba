package storage

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/ledger"
)

var _ league.Store = (*FileStore)(nil)

type fileHistory struct {
	league.HistoryRecord
	Created time.Time `json:"created"`
}

type fileData struct {
	Players  []ledger.Player            `json:"players"`
	Waitlist []ledger.WaitlistEntry     `json:"waitlist"`
	Settings map[string]json.RawMessage `json:"settings"`
	History  []fileHistory              `json:"history"`
}

// FileStore keeps league state in a single JSON file. Every write rewrites the file.
type FileStore struct {
	mu   sync.Mutex
	path string
	data fileData
}

// NewFileStore opens the snapshot at path. A missing file starts empty.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: fileData{Settings: map[string]json.RawMessage{}}}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("No snapshot file found, starting empty", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	if err := sonic.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	if s.data.Settings == nil {
		s.data.Settings = map[string]json.RawMessage{}
	}
	return s, nil
}

// flush writes the snapshot through a temporary file. Callers hold s.mu.
func (s *FileStore) flush() error {
	raw, err := sonic.ConfigStd.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) LoadAll(ctx context.Context) (league.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := make(map[string][]byte, len(s.data.Settings))
	for k, v := range s.data.Settings {
		settings[k] = slices.Clone([]byte(v))
	}
	return league.Snapshot{
		Players:  slices.Clone(s.data.Players),
		Waitlist: slices.Clone(s.data.Waitlist),
		Settings: settings,
	}, nil
}

func (s *FileStore) SaveSetting(ctx context.Context, key string, value any) error {
	raw, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Settings[key] = raw
	return s.flush()
}

func (s *FileStore) InsertPlayer(ctx context.Context, p ledger.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.IndexFunc(s.data.Players, func(x ledger.Player) bool { return x.ID == p.ID }); i >= 0 {
		s.data.Players[i] = p
	} else {
		s.data.Players = append(s.data.Players, p)
	}
	return s.flush()
}

func (s *FileStore) UpdatePlayer(ctx context.Context, p ledger.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Players, func(x ledger.Player) bool { return x.ID == p.ID })
	if i < 0 {
		return nil
	}
	s.data.Players[i] = p
	return s.flush()
}

func (s *FileStore) DeletePlayer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Players = slices.DeleteFunc(s.data.Players, func(x ledger.Player) bool { return x.ID == id })
	return s.flush()
}

func (s *FileStore) DeleteAllPlayers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Players = nil
	return s.flush()
}

func (s *FileStore) InsertWaitlist(ctx context.Context, w ledger.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.data.Waitlist, func(x ledger.WaitlistEntry) bool { return x.ID == w.ID }) {
		return nil
	}
	s.data.Waitlist = append(s.data.Waitlist, w)
	return s.flush()
}

func (s *FileStore) DeleteWaitlist(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Waitlist = slices.DeleteFunc(s.data.Waitlist, func(x ledger.WaitlistEntry) bool { return x.ID == id })
	return s.flush()
}

func (s *FileStore) DeleteAllWaitlist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Waitlist = nil
	return s.flush()
}

func (s *FileStore) historyIndex(year, week int) int {
	return slices.IndexFunc(s.data.History, func(h fileHistory) bool { return h.Year == year && h.Week == week })
}

func (s *FileStore) SaveHistory(ctx context.Context, rec league.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.historyIndex(rec.Year, rec.Week); i >= 0 {
		s.data.History[i].HistoryRecord = rec
	} else {
		s.data.History = append(s.data.History, fileHistory{HistoryRecord: rec, Created: time.Now().UTC()})
	}
	return s.flush()
}

func (s *FileStore) ListHistory(ctx context.Context) ([]league.HistorySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]league.HistorySummary, 0, len(s.data.History))
	for _, h := range s.data.History {
		out = append(out, league.HistorySummary{Year: h.Year, Week: h.Week, Created: h.Created})
	}
	slices.SortFunc(out, func(a, b league.HistorySummary) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		return cmp.Compare(b.Week, a.Week)
	})
	return out, nil
}

func (s *FileStore) GetHistory(ctx context.Context, year, week int) (league.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.historyIndex(year, week)
	if i < 0 {
		return league.HistoryRecord{}, ledger.NotFoundf("Week not found")
	}
	return s.data.History[i].HistoryRecord, nil
}

func (s *FileStore) DeleteHistory(ctx context.Context, year, week int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.historyIndex(year, week)
	if i < 0 {
		return ledger.NotFoundf("Week not found in history")
	}
	s.data.History = slices.Delete(s.data.History, i, i+1)
	return s.flush()
}
