package league

import (
	"context"

	"github.com/okosoff-test/hockeytest/internal/ledger"
)

// Store is the durable shadow of league state. Writes are best effort: the
// service logs failures and carries on with its in-memory state.
type Store interface {
	LoadAll(ctx context.Context) (Snapshot, error)
	SaveSetting(ctx context.Context, key string, value any) error

	InsertPlayer(ctx context.Context, p ledger.Player) error
	UpdatePlayer(ctx context.Context, p ledger.Player) error
	DeletePlayer(ctx context.Context, id string) error
	DeleteAllPlayers(ctx context.Context) error

	InsertWaitlist(ctx context.Context, w ledger.WaitlistEntry) error
	DeleteWaitlist(ctx context.Context, id string) error
	DeleteAllWaitlist(ctx context.Context) error

	// SaveHistory upserts the record keyed by (year, week).
	SaveHistory(ctx context.Context, rec HistoryRecord) error
	ListHistory(ctx context.Context) ([]HistorySummary, error)
	// GetHistory returns an error marked ledger.ErrNotFound for unknown weeks.
	GetHistory(ctx context.Context, year, week int) (HistoryRecord, error)
	// DeleteHistory returns an error marked ledger.ErrNotFound for unknown weeks.
	DeleteHistory(ctx context.Context, year, week int) error
}
