package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/ledger"
)

var _ league.Store = (*SQLStore)(nil)

// SQLStore persists league state in SQLite, libsql or Postgres.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore creates a SQLStore over a migrated database.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

const (
	playerColumns   = `id, first_name, last_name, phone, payment_method, paid, paid_amount, rating, is_goalie, team, rules_agreed, registered_at`
	waitlistColumns = `id, first_name, last_name, phone, payment_method, rating, is_goalie, joined_at`
	historyColumns  = `year, week, release_date, location, game_time, game_date, white_team, dark_team, white_avg, dark_avg, created_at`
)

// LoadAll reads players, waitlist and settings in canonical order.
func (s *SQLStore) LoadAll(ctx context.Context) (league.Snapshot, error) {
	var players []playerRow
	if err := s.db.SelectContext(ctx, &players, `SELECT `+playerColumns+` FROM players ORDER BY registered_at, id`); err != nil {
		return league.Snapshot{}, fmt.Errorf("select players: %w", err)
	}
	var waitlist []waitlistRow
	if err := s.db.SelectContext(ctx, &waitlist, `SELECT `+waitlistColumns+` FROM waitlist ORDER BY joined_at, id`); err != nil {
		return league.Snapshot{}, fmt.Errorf("select waitlist: %w", err)
	}
	var settings []settingRow
	if err := s.db.SelectContext(ctx, &settings, `SELECT key, value FROM settings`); err != nil {
		return league.Snapshot{}, fmt.Errorf("select settings: %w", err)
	}

	snap := league.Snapshot{
		Players:  make([]ledger.Player, 0, len(players)),
		Waitlist: make([]ledger.WaitlistEntry, 0, len(waitlist)),
		Settings: make(map[string][]byte, len(settings)),
	}
	for _, r := range players {
		snap.Players = append(snap.Players, r.player())
	}
	for _, r := range waitlist {
		snap.Waitlist = append(snap.Waitlist, r.entry())
	}
	for _, r := range settings {
		snap.Settings[r.Key] = []byte(r.Value)
	}
	log.Debug("Loaded league state from database", "players", len(players), "waitlist", len(waitlist), "settings", len(settings))
	return snap, nil
}

// SaveSetting upserts a JSON-encoded setting.
func (s *SQLStore) SaveSetting(ctx context.Context, key string, value any) error {
	raw, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (:key, :value)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		settingRow{Key: key, Value: string(raw)})
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

// InsertPlayer writes a player; an existing row with the same id is replaced.
func (s *SQLStore) InsertPlayer(ctx context.Context, p ledger.Player) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES (:id, :first_name, :last_name, :phone, :payment_method, :paid, :paid_amount, :rating, :is_goalie, :team, :rules_agreed, :registered_at)
		ON CONFLICT (id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			phone = excluded.phone,
			payment_method = excluded.payment_method,
			paid = excluded.paid,
			paid_amount = excluded.paid_amount,
			rating = excluded.rating,
			is_goalie = excluded.is_goalie,
			team = excluded.team,
			rules_agreed = excluded.rules_agreed`,
		toPlayerRow(p))
	if err != nil {
		return fmt.Errorf("insert player %s: %w", p.ID, err)
	}
	return nil
}

// UpdatePlayer writes the mutable fields of a player.
func (s *SQLStore) UpdatePlayer(ctx context.Context, p ledger.Player) error {
	_, err := s.db.NamedExecContext(ctx, `
		UPDATE players SET
			payment_method = :payment_method,
			paid = :paid,
			paid_amount = :paid_amount,
			rating = :rating,
			team = :team
		WHERE id = :id`,
		toPlayerRow(p))
	if err != nil {
		return fmt.Errorf("update player %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQLStore) DeletePlayer(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM players WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete player %s: %w", id, err)
	}
	return nil
}

func (s *SQLStore) DeleteAllPlayers(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("delete players: %w", err)
	}
	return nil
}

func (s *SQLStore) InsertWaitlist(ctx context.Context, w ledger.WaitlistEntry) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO waitlist (`+waitlistColumns+`)
		VALUES (:id, :first_name, :last_name, :phone, :payment_method, :rating, :is_goalie, :joined_at)
		ON CONFLICT (id) DO NOTHING`,
		toWaitlistRow(w))
	if err != nil {
		return fmt.Errorf("insert waitlist entry %s: %w", w.ID, err)
	}
	return nil
}

func (s *SQLStore) DeleteWaitlist(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM waitlist WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete waitlist entry %s: %w", id, err)
	}
	return nil
}

func (s *SQLStore) DeleteAllWaitlist(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM waitlist`); err != nil {
		return fmt.Errorf("delete waitlist: %w", err)
	}
	return nil
}

// SaveHistory upserts an archived week. The creation time of an existing row is kept.
func (s *SQLStore) SaveHistory(ctx context.Context, rec league.HistoryRecord) error {
	white, err := sonic.Marshal(rec.White)
	if err != nil {
		return fmt.Errorf("encode white team: %w", err)
	}
	dark, err := sonic.Marshal(rec.Dark)
	if err != nil {
		return fmt.Errorf("encode dark team: %w", err)
	}
	row := historyRow{
		Year:        rec.Year,
		Week:        rec.Week,
		ReleaseDate: rec.ReleaseDate.UnixMilli(),
		Location:    rec.Location,
		GameTime:    rec.GameTime,
		GameDate:    rec.GameDate,
		WhiteTeam:   string(white),
		DarkTeam:    string(dark),
		WhiteAvg:    rec.WhiteAvg,
		DarkAvg:     rec.DarkAvg,
		CreatedAt:   time.Now().UnixMilli(),
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO history (`+historyColumns+`)
		VALUES (:year, :week, :release_date, :location, :game_time, :game_date, :white_team, :dark_team, :white_avg, :dark_avg, :created_at)
		ON CONFLICT (year, week) DO UPDATE SET
			release_date = excluded.release_date,
			location = excluded.location,
			game_time = excluded.game_time,
			game_date = excluded.game_date,
			white_team = excluded.white_team,
			dark_team = excluded.dark_team,
			white_avg = excluded.white_avg,
			dark_avg = excluded.dark_avg`,
		row)
	if err != nil {
		return fmt.Errorf("upsert history %d-W%d: %w", rec.Year, rec.Week, err)
	}
	return nil
}

// ListHistory returns archived weeks, newest first.
func (s *SQLStore) ListHistory(ctx context.Context) ([]league.HistorySummary, error) {
	var rows []historyRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+historyColumns+` FROM history ORDER BY year DESC, week DESC`); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	out := make([]league.HistorySummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, league.HistorySummary{Year: r.Year, Week: r.Week, Created: time.UnixMilli(r.CreatedAt).UTC()})
	}
	return out, nil
}

func (s *SQLStore) GetHistory(ctx context.Context, year, week int) (league.HistoryRecord, error) {
	var row historyRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT `+historyColumns+` FROM history WHERE year = ? AND week = ?`), year, week)
	if errors.Is(err, sql.ErrNoRows) {
		return league.HistoryRecord{}, ledger.NotFoundf("Week not found")
	}
	if err != nil {
		return league.HistoryRecord{}, fmt.Errorf("select history %d-W%d: %w", year, week, err)
	}

	rec := league.HistoryRecord{
		Year:        row.Year,
		Week:        row.Week,
		ReleaseDate: time.UnixMilli(row.ReleaseDate).UTC(),
		Location:    row.Location,
		GameTime:    row.GameTime,
		GameDate:    row.GameDate,
		WhiteAvg:    row.WhiteAvg,
		DarkAvg:     row.DarkAvg,
	}
	if err := sonic.UnmarshalString(row.WhiteTeam, &rec.White); err != nil {
		return league.HistoryRecord{}, fmt.Errorf("decode white team: %w", err)
	}
	if err := sonic.UnmarshalString(row.DarkTeam, &rec.Dark); err != nil {
		return league.HistoryRecord{}, fmt.Errorf("decode dark team: %w", err)
	}
	return rec, nil
}

func (s *SQLStore) DeleteHistory(ctx context.Context, year, week int) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM history WHERE year = ? AND week = ?`), year, week)
	if err != nil {
		return fmt.Errorf("delete history %d-W%d: %w", year, week, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete history %d-W%d: %w", year, week, err)
	}
	if n == 0 {
		return ledger.NotFoundf("Week not found in history")
	}
	return nil
}
