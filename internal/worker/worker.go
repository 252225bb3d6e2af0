package worker

import (
	"fmt"
	"time"

	"github.com/midnightgrind/tiresim/internal/cache"
	"github.com/midnightgrind/tiresim/internal/logging"
	"github.com/midnightgrind/tiresim/internal/parser"
	"github.com/midnightgrind/tiresim/internal/simulation"
	"github.com/midnightgrind/tiresim/internal/storage"
)

// ErrTooEarlyForStateAssociation is returned when wheel data arrives before
// the vehicle is registered
var ErrTooEarlyForStateAssociation = fmt.Errorf("too early for state association")

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	VehicleCache *cache.VehicleCache
	LogManager   *logging.SlogManager
	Parser       *parser.Parser
	Registry     *simulation.Registry
}

// Manager routes parsed game events into the simulation registry and the
// storage backend.
type Manager struct {
	deps    Dependencies
	backend storage.Backend
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	return &Manager{
		deps:    deps,
		backend: backend,
	}
}

func (m *Manager) hasBackend() bool {
	return m.backend != nil
}

// DBWriteDurationProvider is an optional interface that backends can implement
// to expose their last DB write duration for monitoring.
type DBWriteDurationProvider interface {
	GetLastDBWriteDuration() time.Duration
}

// GetLastDBWriteDuration returns the duration of the last DB write cycle.
// Returns 0 if the backend doesn't support this metric.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	if p, ok := m.backend.(DBWriteDurationProvider); ok {
		return p.GetLastDBWriteDuration()
	}
	return 0
}

// Tick advances the simulation by dt seconds and records the blowouts and
// punctures the tick produced. frame is the capture frame the tick belongs
// to. Called from the session run loop, not from a dispatcher handler.
func (m *Manager) Tick(dt float64, frame uint) error {
	blowouts, punctures := m.deps.Registry.TickAll(dt)

	if !m.hasBackend() {
		return nil
	}

	for _, b := range blowouts {
		ev := blowoutEvent(b, frame)
		if err := m.backend.RecordBlowoutEvent(&ev); err != nil {
			return fmt.Errorf("failed to record blowout: %w", err)
		}
	}
	for _, p := range punctures {
		ev := debrisPunctureEvent(p, frame)
		if err := m.backend.RecordDamageEvent(&ev); err != nil {
			return fmt.Errorf("failed to record debris puncture: %w", err)
		}
	}
	return nil
}
