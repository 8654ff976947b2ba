package metrics

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
)

var _ CounterStore = (*store)(nil)

// store keeps counters in the metrics table.
type store struct {
	db *sqlx.DB
	mu sync.Mutex
}

// NewStore creates a CounterStore over a migrated database.
func NewStore(db *sqlx.DB) CounterStore {
	return &store{db: db}
}

// Increment upserts a counter key and increments its value by one.
func (s *store) Increment(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO metrics (key, value) VALUES (?, 1)
		ON CONFLICT (key) DO UPDATE SET value = metrics.value + 1`), key)
	if err != nil {
		log.Error("Failed to increment counter", "error", err, "key", key)
		return
	}
	log.Debug("Incremented counter", "key", key)
}

// GetAll returns every stored counter.
func (s *store) GetAll(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []struct {
		Key   string `db:"key"`
		Value int    `db:"value"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT key, value FROM metrics`); err != nil {
		return nil, err
	}
	counters := make(map[string]int, len(rows))
	for _, r := range rows {
		counters[r.Key] = r.Value
	}
	return counters, nil
}

// Durable forwards to another Metrics and also counts league events in a
// CounterStore. Persistence failures and gauges are not stored.
type Durable struct {
	Metrics
	store CounterStore
}

var _ Metrics = (*Durable)(nil)

// NewDurable wraps m so event counters are also written to store.
func NewDurable(m Metrics, store CounterStore) *Durable {
	return &Durable{Metrics: m, store: store}
}

// Totals returns the lifetime counters.
func (d *Durable) Totals(ctx context.Context) (map[string]int, error) {
	return d.store.GetAll(ctx)
}

func (d *Durable) inc(key string) {
	d.store.Increment(context.Background(), key)
}

func (d *Durable) IncRegistration(outcome string) {
	d.Metrics.IncRegistration(outcome)
	d.inc("registrations_" + outcome)
}

func (d *Durable) IncCancellation() {
	d.Metrics.IncCancellation()
	d.inc("cancellations")
}

func (d *Durable) IncPromotion() {
	d.Metrics.IncPromotion()
	d.inc("promotions")
}

func (d *Durable) IncRelease(trigger string) {
	d.Metrics.IncRelease(trigger)
	d.inc("releases_" + trigger)
}

func (d *Durable) IncReset(trigger string) {
	d.Metrics.IncReset(trigger)
	d.inc("resets_" + trigger)
}

func (d *Durable) IncNotifSent() {
	d.Metrics.IncNotifSent()
	d.inc("notifications_sent")
}

func (d *Durable) IncNotifFailed() {
	d.Metrics.IncNotifFailed()
	d.inc("notifications_failed")
}
