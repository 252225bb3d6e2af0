// internal/simulation/registry.go
package simulation

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/midnightgrind/tiresim/pkg/telemetry"
	"github.com/midnightgrind/tiresim/pkg/tire"
)

// TireSet is the four simulated wheels of one registered vehicle plus the
// per-set aggregates recomputed every tick.
type TireSet struct {
	VehicleID uint16
	Wheels    [4]*Wheel

	AverageWear         float64
	AverageTemperatureC float64
	AverageGrip         float64
	MixedCompounds      bool
}

// BlowoutNotice reports a blowout that occurred during a tick so the
// caller can record and broadcast it.
type BlowoutNotice struct {
	VehicleID    uint16
	Position     telemetry.WheelPosition
	SpeedKPH     float64
	TemperatureC float64
	PressurePSI  float64
}

// PunctureNotice reports a random debris puncture raised during a tick.
type PunctureNotice struct {
	VehicleID uint16
	Position  telemetry.WheelPosition
}

// Registry keeps the tire sets of every registered vehicle in memory.
// Latency in these calls is critical to quickly process incoming data, so
// all state lives behind a single mutex with no database round trips.
type Registry struct {
	mu          sync.Mutex
	vehicles    map[uint16]*TireSet
	accumulator map[uint16]*Accumulator
	compounds   map[tire.Compound]tire.CompoundProfile
	settings    Settings
	wearFactors tire.WearFactors
	pressureCfg tire.PressureConfig

	// roll supplies uniform [0,1) randomness; replaced in tests.
	roll func() float64
}

// NewRegistry returns a registry with the shipped compound database and
// wear factors.
func NewRegistry(pressureCfg tire.PressureConfig, settings Settings) *Registry {
	return &Registry{
		vehicles:    make(map[uint16]*TireSet),
		accumulator: make(map[uint16]*Accumulator),
		compounds:   tire.DefaultCompounds(),
		settings:    settings,
		wearFactors: tire.DefaultWearFactors(),
		pressureCfg: pressureCfg,
		roll:        rand.Float64,
	}
}

// Register creates a fresh tire set for the vehicle on the given compound.
// Registering an already known vehicle is a no-op and returns false.
func (r *Registry) Register(vehicleID uint16, compound tire.Compound) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[vehicleID]; ok {
		return false
	}

	profile := r.profileFor(compound)
	set := &TireSet{VehicleID: vehicleID}
	for i, pos := range telemetry.Positions {
		set.Wheels[i] = NewWheel(pos, compound, profile, &r.pressureCfg, r.settings)
	}
	set.AverageWear = 1.0
	set.AverageTemperatureC = r.settings.AmbientTempC
	set.AverageGrip = set.Wheels[0].CurrentGrip

	r.vehicles[vehicleID] = set
	r.accumulator[vehicleID] = NewAccumulator()
	return true
}

// Unregister drops the vehicle's tire set and telemetry.
func (r *Registry) Unregister(vehicleID uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.vehicles, vehicleID)
	delete(r.accumulator, vehicleID)
}

// Len returns the number of registered vehicles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.vehicles)
}

// Reset drops every vehicle. Called between sessions.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles = make(map[uint16]*TireSet)
	r.accumulator = make(map[uint16]*Accumulator)
}

// SetInputs stores the solver-reported slip state for one corner and
// accumulates slip distance and lockup/wheelspin transitions into the
// vehicle's telemetry. Returns false for an unknown vehicle.
func (r *Registry) SetInputs(vehicleID uint16, pos telemetry.WheelPosition, in WheelInputs) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return false
	}
	set.Wheels[pos].SetInputs(in)
	return true
}

// TickAll advances every registered wheel by dt seconds and returns the
// blowouts and punctures the tick produced.
func (r *Registry) TickAll(dt float64) ([]BlowoutNotice, []PunctureNotice) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var blowouts []BlowoutNotice
	var punctures []PunctureNotice

	for id, set := range r.vehicles {
		acc := r.accumulator[id]

		for _, w := range set.Wheels {
			res := w.Tick(&r.pressureCfg, r.settings, r.wearFactors, dt, r.roll)

			if res.Blowout {
				blowouts = append(blowouts, BlowoutNotice{
					VehicleID:    id,
					Position:     w.Position,
					SpeedKPH:     w.Inputs.SpeedKPH,
					TemperatureC: w.Temperature.CurrentC,
					PressurePSI:  w.Pressure.CurrentPressurePSI,
				})
			}
			if res.Punctured {
				punctures = append(punctures, PunctureNotice{VehicleID: id, Position: w.Position})
			}

			acc.observe(w, dt)
		}

		r.updateAggregates(set)
	}

	return blowouts, punctures
}

func (r *Registry) updateAggregates(set *TireSet) {
	var wear, temp, grip float64
	for _, w := range set.Wheels {
		wear += w.WearLevel
		temp += w.Temperature.CurrentC
		grip += w.CurrentGrip
	}
	set.AverageWear = wear / 4.0
	set.AverageTemperatureC = temp / 4.0
	set.AverageGrip = grip / 4.0
	set.MixedCompounds = set.Wheels[0].Compound != set.Wheels[1].Compound ||
		set.Wheels[2].Compound != set.Wheels[3].Compound ||
		set.Wheels[0].Compound != set.Wheels[2].Compound
}

// ApplyDamage starts a pressure loss of the given cause on one corner.
// Returns false for an unknown vehicle.
func (r *Registry) ApplyDamage(vehicleID uint16, pos telemetry.WheelPosition, cause tire.LossCause) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return false
	}
	w := set.Wheels[pos]
	tire.ApplyDamage(w.Pressure, cause, &r.pressureCfg)
	w.Condition = tire.ConditionFor(w.WearLevel, w.Pressure.IsFlat)
	w.updateGrip(r.settings)
	return true
}

// ChangeTires fits four fresh tires of the given compound.
func (r *Registry) ChangeTires(vehicleID uint16, compound tire.Compound) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return false
	}
	profile := r.profileFor(compound)
	for _, w := range set.Wheels {
		w.reset(compound, profile, &r.pressureCfg, r.settings)
	}
	r.updateAggregates(set)
	return true
}

// ChangeFrontTires fits fresh front tires of the given compound.
func (r *Registry) ChangeFrontTires(vehicleID uint16, compound tire.Compound) bool {
	return r.changePair(vehicleID, compound, telemetry.FrontLeft, telemetry.FrontRight)
}

// ChangeRearTires fits fresh rear tires of the given compound.
func (r *Registry) ChangeRearTires(vehicleID uint16, compound tire.Compound) bool {
	return r.changePair(vehicleID, compound, telemetry.RearLeft, telemetry.RearRight)
}

func (r *Registry) changePair(vehicleID uint16, compound tire.Compound, a, b telemetry.WheelPosition) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return false
	}
	profile := r.profileFor(compound)
	set.Wheels[a].reset(compound, profile, &r.pressureCfg, r.settings)
	set.Wheels[b].reset(compound, profile, &r.pressureCfg, r.settings)
	r.updateAggregates(set)
	return true
}

// ChangeSingleTire fits one fresh tire of the given compound.
func (r *Registry) ChangeSingleTire(vehicleID uint16, pos telemetry.WheelPosition, compound tire.Compound) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return false
	}
	set.Wheels[pos].reset(compound, r.profileFor(compound), &r.pressureCfg, r.settings)
	r.updateAggregates(set)
	return true
}

// PunctureRepair refits the same compound on one corner, clearing the leak
// and pressure damage state.
func (r *Registry) PunctureRepair(vehicleID uint16, pos telemetry.WheelPosition) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return false
	}
	w := set.Wheels[pos]
	w.reset(w.Compound, w.Profile, &r.pressureCfg, r.settings)
	r.updateAggregates(set)
	return true
}

// TireSetFor returns a copy of the vehicle's tire set with the wheel
// states copied out, safe to read without holding the registry lock.
func (r *Registry) TireSetFor(vehicleID uint16) (TireSet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return TireSet{}, false
	}
	out := *set
	for i, w := range set.Wheels {
		cw := *w
		pressure := *w.Pressure
		cw.Pressure = &pressure
		out.Wheels[i] = &cw
	}
	return out, true
}

// Wear returns the wear level of one corner, 1.0 for unknown vehicles.
func (r *Registry) Wear(vehicleID uint16, pos telemetry.WheelPosition) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.vehicles[vehicleID]; ok {
		return set.Wheels[pos].WearLevel
	}
	return 1.0
}

// TemperatureC returns the carcass temperature of one corner, ambient for
// unknown vehicles.
func (r *Registry) TemperatureC(vehicleID uint16, pos telemetry.WheelPosition) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.vehicles[vehicleID]; ok {
		return set.Wheels[pos].Temperature.CurrentC
	}
	return r.settings.AmbientTempC
}

// Grip returns the current grip of one corner, 1.0 for unknown vehicles.
func (r *Registry) Grip(vehicleID uint16, pos telemetry.WheelPosition) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.vehicles[vehicleID]; ok {
		return set.Wheels[pos].CurrentGrip
	}
	return 1.0
}

// PressurePSI returns the authoritative current pressure of one corner.
func (r *Registry) PressurePSI(vehicleID uint16, pos telemetry.WheelPosition) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.vehicles[vehicleID]; ok {
		return set.Wheels[pos].Pressure.CurrentPressurePSI
	}
	return r.pressureCfg.DefaultColdPressurePSI
}

// Condition returns the condition ladder value of one corner.
func (r *Registry) Condition(vehicleID uint16, pos telemetry.WheelPosition) tire.Condition {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.vehicles[vehicleID]; ok {
		return set.Wheels[pos].Condition
	}
	return tire.ConditionOptimal
}

// AverageWear returns the set-wide wear, 1.0 for unknown vehicles.
func (r *Registry) AverageWear(vehicleID uint16) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.vehicles[vehicleID]; ok {
		return set.AverageWear
	}
	return 1.0
}

// AverageGrip returns the set-wide grip, 1.0 for unknown vehicles.
func (r *Registry) AverageGrip(vehicleID uint16) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.vehicles[vehicleID]; ok {
		return set.AverageGrip
	}
	return 1.0
}

// AverageTemperatureC returns the set-wide carcass temperature.
func (r *Registry) AverageTemperatureC(vehicleID uint16) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.vehicles[vehicleID]; ok {
		return set.AverageTemperatureC
	}
	return r.settings.AmbientTempC
}

// Zones returns the temperature zone split of one corner for the HUD.
func (r *Registry) Zones(vehicleID uint16, pos telemetry.WheelPosition) (tire.Zones, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.vehicles[vehicleID]
	if !ok {
		return tire.Zones{}, false
	}
	w := set.Wheels[pos]
	return tire.TemperatureZones(w.Temperature, w.Profile), true
}

// RegisterCompound adds or replaces a compound profile in the database.
func (r *Registry) RegisterCompound(profile tire.CompoundProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compounds[profile.Compound] = profile
}

// CompoundProfile looks up a compound in the database.
func (r *Registry) CompoundProfile(c tire.Compound) (tire.CompoundProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.compounds[c]
	return p, ok
}

// RecommendCompound picks the compound suited to the current track
// temperature and weather.
func (r *Registry) RecommendCompound(wet bool) tire.Compound {
	r.mu.Lock()
	defer r.mu.Unlock()
	return tire.RecommendCompound(r.settings.TrackTempC, wet)
}

// Settings returns a copy of the current simulation settings.
func (r *Registry) Settings() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

// SetSettings replaces the simulation settings.
func (r *Registry) SetSettings(s Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = s
}

// SetTrackTemperature updates the track temperature used by compound
// recommendation.
func (r *Registry) SetTrackTemperature(tempC float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings.TrackTempC = tempC
}

// SetAmbientTemperature updates the ambient temperature the thermal model
// cools toward.
func (r *Registry) SetAmbientTemperature(tempC float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings.AmbientTempC = tempC
}

// SetWearFactors replaces the wear source weighting.
func (r *Registry) SetWearFactors(f tire.WearFactors) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wearFactors = f
}

// Snapshot builds the full telemetry record for one corner at the given
// capture frame. Returns false for an unknown vehicle.
func (r *Registry) Snapshot(vehicleID uint16, pos telemetry.WheelPosition, frame uint) (*telemetry.WheelState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, false
	}
	w := set.Wheels[pos]

	return &telemetry.WheelState{
		VehicleID:    vehicleID,
		Position:     pos,
		Time:         time.Now(),
		CaptureFrame: frame,

		PressurePSI:    float32(w.Pressure.CurrentPressurePSI),
		HotPressurePSI: float32(w.Pressure.HotPressurePSI),
		TemperatureC:   float32(w.Temperature.CurrentC),
		SurfaceTempC:   float32(w.Temperature.SurfaceC),
		CoreTempC:      float32(w.Temperature.CoreC),
		WearLevel:      float32(w.WearLevel),
		Condition:      w.Condition.String(),

		GripMultiplier:              float32(w.CurrentGrip),
		WearMultiplier:              float32(w.Pressure.PressureWearMultiplier),
		HeatMultiplier:              float32(w.Pressure.PressureHeatMultiplier),
		ContactPatchMultiplier:      float32(w.Pressure.ContactPatchMultiplier),
		RollingResistanceMultiplier: float32(w.Pressure.RollingResistanceMultiplier),
		FuelEconomyMultiplier:       float32(w.Pressure.FuelEconomyMultiplier),

		SlipRatio: float32(w.Inputs.SlipRatio),
		SlipAngle: float32(w.Inputs.SlipAngle),
		LoadN:     float32(w.Inputs.LoadN),
		Surface:   w.Inputs.Surface.String(),

		HasLeak:        w.Pressure.HasLeak,
		IsFlat:         w.Pressure.IsFlat,
		IsBlownOut:     w.Pressure.IsBlownOut,
		NeedsAttention: w.Pressure.NeedsAttention(),
		IsCritical:     w.Pressure.IsCritical(),
	}, true
}

// VehicleIDs returns the registered vehicle IDs in no particular order.
func (r *Registry) VehicleIDs() []uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint16, 0, len(r.vehicles))
	for id := range r.vehicles {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) profileFor(c tire.Compound) tire.CompoundProfile {
	if p, ok := r.compounds[c]; ok {
		return p
	}
	return r.compounds[tire.CompoundMedium]
}

func errUnknownVehicle(id uint16) error {
	return fmt.Errorf("vehicle %d not registered", id)
}
