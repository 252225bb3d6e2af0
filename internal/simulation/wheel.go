// internal/simulation/wheel.go
package simulation

import (
	"math"

	"github.com/midnightgrind/tiresim/pkg/telemetry"
	"github.com/midnightgrind/tiresim/pkg/tire"
)

// WheelInputs carries the per-tick physics quantities the vehicle solver
// reports for one corner.
type WheelInputs struct {
	SlipRatio float64
	SlipAngle float64
	LoadN     float64
	SpeedKPH  float64
	Surface   tire.Surface
	Locked    bool
	Braking   bool
}

// lockupSlipRatio and wheelspinSlipRatio are the slip thresholds past
// which a wheel counts as locked or spinning even when the solver did not
// flag it.
const (
	lockupSlipRatio    = -0.3
	wheelspinSlipRatio = 0.3
)

// Wheel is the full simulated state of one tire: pressure, thermal, wear
// and the derived grip the solver reads back. All mutation goes through
// the owning registry, which serializes access.
type Wheel struct {
	Position telemetry.WheelPosition
	Compound tire.Compound
	Profile  tire.CompoundProfile

	Pressure    *tire.PressureState
	Temperature tire.Temperature
	WearLevel   float64
	Condition   tire.Condition

	Inputs   WheelInputs
	Locked   bool
	Spinning bool

	CurrentGrip      float64
	LateralGrip      float64
	LongitudinalGrip float64

	LapsOnTire float64

	prevLocked   bool
	prevSpinning bool
}

// NewWheel returns a fresh wheel on the given compound, settled at ambient
// temperature with full tread and cold pressure.
func NewWheel(pos telemetry.WheelPosition, compound tire.Compound, profile tire.CompoundProfile, cfg *tire.PressureConfig, s Settings) *Wheel {
	w := &Wheel{
		Position:    pos,
		Compound:    compound,
		Profile:     profile,
		Pressure:    tire.NewPressureState(cfg.DefaultColdPressurePSI, profile.OptimalPressure()),
		Temperature: tire.NewTemperature(s.AmbientTempC),
		WearLevel:   1.0,
		Condition:   tire.ConditionOptimal,
	}
	w.updateGrip(s)
	return w
}

// SetInputs stores the solver-reported slip state and derives the lockup
// and wheelspin flags from the slip ratio thresholds.
func (w *Wheel) SetInputs(in WheelInputs) {
	w.Inputs = in
	w.Locked = in.Locked || in.SlipRatio < lockupSlipRatio
	w.Spinning = in.SlipRatio > wheelspinSlipRatio
}

// TickResult reports the discrete events one tick produced.
type TickResult struct {
	Blowout   bool
	Punctured bool
}

// Tick advances the wheel by dt seconds. The update order is fixed:
// advance leaks, recompute hot pressure from the carcass temperature,
// recompute pressure effects, integrate temperature, integrate wear, then
// derive grip. roll supplies uniform [0,1) randomness for the blowout and
// puncture checks so replays stay deterministic.
func (w *Wheel) Tick(cfg *tire.PressureConfig, s Settings, f tire.WearFactors, dt float64, roll func() float64) TickResult {
	var res TickResult

	if s.SimulatePressure {
		tire.AdvancePressure(w.Pressure, cfg, dt)
	}
	tire.UpdateHotPressure(w.Pressure, cfg, w.Temperature.CurrentC)
	w.Pressure.UpdateEffects()

	if s.SimulateTemperature {
		w.Temperature.Advance(w.Profile, tire.ThermalInputs{
			SlipRatio:      w.Inputs.SlipRatio,
			SlipAngle:      w.Inputs.SlipAngle,
			LoadN:          w.Inputs.LoadN,
			AmbientC:       s.AmbientTempC,
			HeatMultiplier: w.Pressure.PressureHeatMultiplier,
			SimSpeed:       s.TemperatureSimSpeed,
		}, dt)
	}

	if s.SimulateWear {
		w.WearLevel = tire.AdvanceWear(w.WearLevel, w.Profile, f, tire.WearInputs{
			SlipRatio:        w.Inputs.SlipRatio,
			SlipAngle:        w.Inputs.SlipAngle,
			TempC:            w.Temperature.CurrentC,
			Locked:           w.Locked,
			WearMultiplier:   w.Pressure.PressureWearMultiplier,
			GlobalMultiplier: s.GlobalWearMultiplier,
		}, dt)
	}

	w.applySurfaceEffects(s, f, dt)
	w.Condition = tire.ConditionFor(w.WearLevel, w.Pressure.IsFlat)
	w.updateGrip(s)

	if !w.Pressure.IsBlownOut && cfg.EnableBlowoutSimulation {
		if tire.RollBlowout(w.Pressure, cfg, w.Inputs.SpeedKPH, w.Temperature.CurrentC, dt, roll()) {
			w.Condition = tire.ConditionFor(w.WearLevel, true)
			w.updateGrip(s)
			res.Blowout = true
			return res
		}
	}

	if s.AllowPunctures && !w.Pressure.IsFlat && !w.Pressure.HasLeak {
		if roll() < w.punctureChance(s)*dt {
			tire.ApplyDamage(w.Pressure, tire.LossSlowLeak, cfg)
			res.Punctured = true
		}
	}

	return res
}

// punctureChance returns the per-second debris puncture probability, raised
// for worn tread and overheated carcasses.
func (w *Wheel) punctureChance(s Settings) float64 {
	chance := s.PunctureChance
	if w.WearLevel < 0.2 {
		chance *= 3.0
	}
	if w.Temperature.CurrentC > 150.0 {
		chance *= 2.0
	}
	return chance
}

// updateGrip recomputes the grip the solver reads: compound base grip
// scaled by the temperature, wear, pressure and surface factors and the
// session grip multiplier. The pressure factor already collapses on a flat
// or blown tire, so no separate flat penalty is applied on top.
func (w *Wheel) updateGrip(s Settings) {
	grip := w.Profile.BaseGrip
	grip *= tire.GripFromTemperature(w.Temperature.CurrentC, w.Profile)
	grip *= tire.GripFromWear(w.WearLevel)
	grip *= w.Pressure.PressureGripMultiplier
	grip *= tire.SurfaceGripMultiplier(w.Inputs.Surface, w.Profile)
	grip *= s.GlobalGripMultiplier

	w.CurrentGrip = grip
	latMod := w.Profile.LateralGripMod
	if latMod <= 0 {
		latMod = 1.0
	}
	longMod := w.Profile.LongitudinalGripMod
	if longMod <= 0 {
		longMod = 1.0
	}
	w.LateralGrip = grip * latMod
	w.LongitudinalGrip = grip * longMod
}

// applySurfaceEffects applies the off-line side effects: loose surfaces
// chew tread, grass and standing water pull heat out of the carcass.
func (w *Wheel) applySurfaceEffects(s Settings, f tire.WearFactors, dt float64) {
	switch w.Inputs.Surface {
	case tire.SurfaceGravel, tire.SurfaceDirt:
		if s.SimulateWear {
			amount := 0.001 * f.Surface * s.GlobalWearMultiplier * dt
			w.WearLevel = math.Max(w.WearLevel-amount, 0)
		}
	case tire.SurfaceGrass:
		w.Temperature.AddHeat(-2.0*dt, s.AmbientTempC)
	case tire.SurfaceWet, tire.SurfacePuddle:
		w.Temperature.AddHeat(-5.0*dt, s.AmbientTempC)
	}
}

// slipMagnitude returns the combined slip vector length for telemetry.
func (w *Wheel) slipMagnitude() float64 {
	return math.Sqrt(w.Inputs.SlipRatio*w.Inputs.SlipRatio + w.Inputs.SlipAngle*w.Inputs.SlipAngle)
}

// reset puts the wheel back on a fresh tire of the given compound. Used
// for tire changes and puncture repair.
func (w *Wheel) reset(compound tire.Compound, profile tire.CompoundProfile, cfg *tire.PressureConfig, s Settings) {
	w.Compound = compound
	w.Profile = profile
	w.Pressure.Reset(cfg.DefaultColdPressurePSI, profile.OptimalPressure())
	w.Temperature = tire.NewTemperature(s.AmbientTempC)
	w.WearLevel = 1.0
	w.Condition = tire.ConditionOptimal
	w.LapsOnTire = 0
	w.updateGrip(s)
}
