// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/midnightgrind/tiresim/internal/config"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// VehicleRecord groups a vehicle with all its wheel state history
type VehicleRecord struct {
	Vehicle telemetry.Vehicle
	States  []telemetry.WheelState
}

// Backend stores session data in memory and exports to JSON on session end
type Backend struct {
	cfg     config.MemoryConfig
	session *telemetry.Session
	track   *telemetry.Track

	vehicles map[uint16]*VehicleRecord // keyed by vehicle ID

	damageEvents  []telemetry.DamageEvent
	blowoutEvents []telemetry.BlowoutEvent
	lapTelemetry  []telemetry.LapTelemetry
	performances  []telemetry.PerformanceSample

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:      cfg,
		vehicles: make(map[uint16]*VehicleRecord),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session
func (b *Backend) StartSession(session *telemetry.Session, track *telemetry.Track) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.session = session
	b.track = track

	// Reset all collections
	b.vehicles = make(map[uint16]*VehicleRecord)
	b.damageEvents = nil
	b.blowoutEvents = nil
	b.lapTelemetry = nil
	b.performances = nil
	b.idCounter = 0

	return nil
}

// EndSession finalizes and exports the session data
func (b *Backend) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.exportJSON()
}

// AddVehicle registers a new vehicle
func (b *Backend) AddVehicle(v *telemetry.Vehicle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.vehicles[v.ID] = &VehicleRecord{
		Vehicle: *v,
		States:  make([]telemetry.WheelState, 0),
	}
	return nil
}

// GetVehicleByID looks up a registered vehicle
func (b *Backend) GetVehicleByID(id uint16) (*telemetry.Vehicle, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if record, ok := b.vehicles[id]; ok {
		return &record.Vehicle, true
	}
	return nil, false
}

// RecordWheelState records a wheel state update
func (b *Backend) RecordWheelState(s *telemetry.WheelState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if record, ok := b.vehicles[s.VehicleID]; ok {
		record.States = append(record.States, *s)
	}
	return nil // silently ignore if vehicle not registered
}

// RecordDamageEvent records a tire damage event
func (b *Backend) RecordDamageEvent(e *telemetry.DamageEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	e.ID = b.idCounter
	b.damageEvents = append(b.damageEvents, *e)
	return nil
}

// RecordBlowoutEvent records a blowout event
func (b *Backend) RecordBlowoutEvent(e *telemetry.BlowoutEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	e.ID = b.idCounter
	b.blowoutEvents = append(b.blowoutEvents, *e)
	return nil
}

// RecordLapTelemetry records a completed lap summary
func (b *Backend) RecordLapTelemetry(l *telemetry.LapTelemetry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	l.ID = b.idCounter
	b.lapTelemetry = append(b.lapTelemetry, *l)
	return nil
}

// RecordPerformance records a recorder performance sample.
// Kept in memory only; not part of the exported session file.
func (b *Backend) RecordPerformance(p *telemetry.PerformanceSample) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.performances = append(b.performances, *p)
	return nil
}
