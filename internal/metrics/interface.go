package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRegistration(outcome string)
	IncCancellation()
	IncPromotion()
	IncRelease(trigger string)
	IncReset(trigger string)
	IncLockTransition(state string)
	IncPersistenceFailure(op string)
	IncNotifSent()
	IncNotifFailed()
	SetSpotsRemaining(n int)
	SetStartupTime(duration float64)
}

// CounterStore keeps lifetime event totals that survive restarts.
type CounterStore interface {
	Increment(ctx context.Context, key string)
	GetAll(ctx context.Context) (map[string]int, error)
}
