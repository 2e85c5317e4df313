package reconcile

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// PendingGuess is a guess that has been submitted but not yet confirmed by
// the server. It is rendered ahead of confirmed history as a transient entry.
type PendingGuess struct {
	Word        string
	SubmittedAt time.Time
}

// PendingManager holds at most one pending guess. It is a single slot: a
// second Set before Clear overwrites the slot, it never queues.
type PendingManager struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	current *PendingGuess
}

func NewPendingManager(clock clockwork.Clock) *PendingManager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PendingManager{clock: clock}
}

// Set records word as the pending guess, replacing any previous one.
func (m *PendingManager) Set(word string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &PendingGuess{Word: word, SubmittedAt: m.clock.Now()}
}

// Clear empties the slot. Called on both confirmation and rejection.
func (m *PendingManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

// Current returns a copy of the pending guess, or nil when the slot is empty.
func (m *PendingManager) Current() *PendingGuess {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	copied := *m.current
	return &copied
}
