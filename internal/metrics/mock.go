package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	registrations       map[string]int
	cancellations       int
	promotions          int
	releases            map[string]int
	resets              map[string]int
	lockTransitions     map[string]int
	persistenceFailures map[string]int
	notifSent           int
	notifFailed         int
	spotsRemaining      int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		registrations:       make(map[string]int),
		releases:            make(map[string]int),
		resets:              make(map[string]int),
		lockTransitions:     make(map[string]int),
		persistenceFailures: make(map[string]int),
	}
}

func (m *Mock) IncRegistration(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations[outcome]++
}

func (m *Mock) IncCancellation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancellations++
}

func (m *Mock) IncPromotion() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promotions++
}

func (m *Mock) IncRelease(trigger string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases[trigger]++
}

func (m *Mock) IncReset(trigger string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[trigger]++
}

func (m *Mock) IncLockTransition(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockTransitions[state]++
}

func (m *Mock) IncPersistenceFailure(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistenceFailures[op]++
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetSpotsRemaining(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spotsRemaining = n
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Registrations returns how often IncRegistration was called with outcome.
func (m *Mock) Registrations(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registrations[outcome]
}

// Cancellations returns the number of times IncCancellation was called.
func (m *Mock) Cancellations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancellations
}

// Promotions returns the number of times IncPromotion was called.
func (m *Mock) Promotions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.promotions
}

// Releases returns how often IncRelease was called with trigger.
func (m *Mock) Releases(trigger string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases[trigger]
}

// Resets returns how often IncReset was called with trigger.
func (m *Mock) Resets(trigger string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets[trigger]
}

// LockTransitions returns how often IncLockTransition was called with state.
func (m *Mock) LockTransitions(state string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lockTransitions[state]
}

// PersistenceFailures returns the total number of recorded persistence failures.
func (m *Mock) PersistenceFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.persistenceFailures {
		total += n
	}
	return total
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}

// SpotsRemaining returns the last value passed to SetSpotsRemaining.
func (m *Mock) SpotsRemaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spotsRemaining
}
