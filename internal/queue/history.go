package queue

import (
	"fmt"
	"sync"
)

// StateHistory is a thread-safe map of simulation tick to a recorded
// state snapshot. Lookups that miss fall forward to the next recorded
// tick, since snapshots are written at the telemetry rate rather than
// every tick.
type StateHistory[T any] struct {
	mu        sync.Mutex
	states    map[uint64]T
	lastState T
	resolved  bool
}

// NewStateHistory creates an empty history.
func NewStateHistory[T any]() *StateHistory[T] {
	return &StateHistory[T]{
		states: make(map[uint64]T),
	}
}

// Set records the state snapshot at the given tick.
func (h *StateHistory[T]) Set(tick uint64, state T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states[tick] = state
}

// Len returns the number of recorded snapshots.
func (h *StateHistory[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.states)
}

// GetStateAtTick returns the snapshot at tick, or the next recorded
// snapshot up to maxTick when there is no exact match.
func (h *StateHistory[T]) GetStateAtTick(tick, maxTick uint64) (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if state, ok := h.states[tick]; ok {
		h.lastState = state
		h.resolved = true
		return state, nil
	}

	for t := tick + 1; t <= maxTick; t++ {
		if state, ok := h.states[t]; ok {
			h.lastState = state
			h.resolved = true
			return state, nil
		}
	}

	var zero T
	return zero, fmt.Errorf("no state recorded at or after tick %d", tick)
}

// GetLastState returns the most recently resolved snapshot. The second
// return is false if no lookup has succeeded yet.
func (h *StateHistory[T]) GetLastState() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastState, h.resolved
}

// Clear removes all recorded snapshots.
func (h *StateHistory[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = make(map[uint64]T)
	var zero T
	h.lastState = zero
	h.resolved = false
}
