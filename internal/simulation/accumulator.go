// internal/simulation/accumulator.go
package simulation

import (
	"math"
	"time"

	"github.com/midnightgrind/tiresim/internal/queue"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// TireSnapshot is the per-tick state recorded into the bounded history so
// replay lookups can resolve the tire state at any simulation tick.
type TireSnapshot struct {
	Tick        uint64
	WearLevels  [4]float64
	TempsC      [4]float64
	AverageWear float64
	AverageGrip float64
}

// Accumulator aggregates one vehicle's tire telemetry between laps: peak
// temperatures per corner, lockup and wheelspin counts, slip distance, and
// a tick-indexed state history. The owning registry serializes access.
type Accumulator struct {
	PeakTempC     [4]float64
	Lockups       int
	Wheelspin     int
	SlipDistanceM float64

	History *queue.StateHistory[TireSnapshot]
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		History: queue.NewStateHistory[TireSnapshot](),
	}
}

// observe folds one wheel's post-tick state into the aggregates. Lockup
// and wheelspin count transitions, not held states.
func (a *Accumulator) observe(w *Wheel, dt float64) {
	a.PeakTempC[w.Position] = math.Max(a.PeakTempC[w.Position], w.Temperature.CurrentC)

	if w.Locked && !w.prevLocked {
		a.Lockups++
	}
	if w.Spinning && !w.prevSpinning {
		a.Wheelspin++
	}
	w.prevLocked = w.Locked
	w.prevSpinning = w.Spinning

	speedMS := w.Inputs.SpeedKPH / 3.6
	a.SlipDistanceM += w.slipMagnitude() * speedMS * dt
}

// record stores the tire set state at the given tick.
func (a *Accumulator) record(tick uint64, set *TireSet) {
	snap := TireSnapshot{
		Tick:        tick,
		AverageWear: set.AverageWear,
		AverageGrip: set.AverageGrip,
	}
	for i, w := range set.Wheels {
		snap.WearLevels[i] = w.WearLevel
		snap.TempsC[i] = w.Temperature.CurrentC
	}
	a.History.Set(tick, snap)
}

// resetLap clears the per-lap aggregates. The tick history survives so
// replay lookups keep working across lap boundaries.
func (a *Accumulator) resetLap() {
	a.PeakTempC = [4]float64{}
	a.Lockups = 0
	a.Wheelspin = 0
	a.SlipDistanceM = 0
}

// RecordHistory snapshots every registered vehicle's tire state at the
// given tick. Called at the telemetry rate, not every simulation tick.
func (r *Registry) RecordHistory(tick uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, set := range r.vehicles {
		r.accumulator[id].record(tick, set)
	}
}

// HistoryAt resolves the vehicle's recorded state at a tick, falling
// forward to the next recorded snapshot up to maxTick.
func (r *Registry) HistoryAt(vehicleID uint16, tick, maxTick uint64) (TireSnapshot, error) {
	r.mu.Lock()
	acc, ok := r.accumulator[vehicleID]
	r.mu.Unlock()
	if !ok {
		return TireSnapshot{}, errUnknownVehicle(vehicleID)
	}
	return acc.History.GetStateAtTick(tick, maxTick)
}

// LapTelemetry builds the lap record for one vehicle and resets the
// per-lap aggregates. Returns false for an unknown vehicle.
func (r *Registry) LapTelemetry(vehicleID uint16, lap int) (*telemetry.LapTelemetry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, false
	}
	acc := r.accumulator[vehicleID]

	lt := &telemetry.LapTelemetry{
		VehicleID:     vehicleID,
		Lap:           lap,
		Time:          time.Now(),
		PeakTempFL:    float32(acc.PeakTempC[telemetry.FrontLeft]),
		PeakTempFR:    float32(acc.PeakTempC[telemetry.FrontRight]),
		PeakTempRL:    float32(acc.PeakTempC[telemetry.RearLeft]),
		PeakTempRR:    float32(acc.PeakTempC[telemetry.RearRight]),
		Lockups:       acc.Lockups,
		Wheelspin:     acc.Wheelspin,
		SlipDistanceM: float32(acc.SlipDistanceM),
		AverageWear:   float32(set.AverageWear),
		AverageGrip:   float32(set.AverageGrip),
	}
	acc.resetLap()
	return lt, true
}
