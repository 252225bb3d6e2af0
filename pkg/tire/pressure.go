// pkg/tire/pressure.go
package tire

import "math"

// LossCause describes the reason for tire pressure loss.
// Used for damage feedback, audio cues, and repair cost calculation.
type LossCause uint8

const (
	// LossNone means no pressure loss is occurring.
	LossNone LossCause = iota

	// LossNaturalLeak is gradual pressure loss over time through rubber permeation.
	LossNaturalLeak

	// LossSlowLeak is a slow leak from minor damage such as a nail or road debris.
	LossSlowLeak

	// LossModerateLeakDamage is a moderate leak from a curb strike or minor collision.
	LossModerateLeakDamage

	// LossSpikeStripPuncture is rapid pressure loss from a spike strip puncture.
	LossSpikeStripPuncture

	// LossBlowout is a catastrophic blowout from severe damage or extreme overheating.
	LossBlowout

	// LossValveStemDamage is valve stem damage causing rapid pressure loss.
	LossValveStemDamage

	// LossBeadSeparation is bead separation from rim damage (severe impact).
	LossBeadSeparation
)

// String returns the display name of the loss cause.
func (c LossCause) String() string {
	switch c {
	case LossNone:
		return "None"
	case LossNaturalLeak:
		return "Natural Leak"
	case LossSlowLeak:
		return "Slow Leak"
	case LossModerateLeakDamage:
		return "Moderate Leak (Damage)"
	case LossSpikeStripPuncture:
		return "Spike Strip Puncture"
	case LossBlowout:
		return "Blowout"
	case LossValveStemDamage:
		return "Valve Stem Damage"
	case LossBeadSeparation:
		return "Bead Separation"
	default:
		return "Unknown"
	}
}

// PressureState models tire pressure behavior for a single wheel:
// temperature-pressure relationship (ideal gas law approximation), pressure
// effects on contact patch size, grip, wear rate and fuel economy, and
// multiple pressure loss scenarios (punctures, slow leaks, blowouts).
//
// Lower pressure gives a larger contact patch (more mechanical grip up to a
// point), faster wear from deformation heat, and higher rolling resistance.
// Higher pressure gives a smaller patch, slower wear, lower rolling
// resistance, and a harsher ride.
//
// All derived multipliers are pure functions of the pressure ratio
// (current/optimal) plus the flat/blowout flags. UpdateEffects must be
// called after any change to CurrentPressurePSI; callers must never read a
// stored multiplier before doing so.
type PressureState struct {
	// Current state
	CurrentPressurePSI float64 `json:"currentPressurePsi"`
	ColdPressurePSI    float64 `json:"coldPressurePsi"`
	HotPressurePSI     float64 `json:"hotPressurePsi"`
	OptimalPressurePSI float64 `json:"optimalPressurePsi"`

	// Pressure loss state
	HasLeak    bool      `json:"hasLeak"`
	IsFlat     bool      `json:"isFlat"`
	IsBlownOut bool      `json:"isBlownOut"`
	LeakCause  LossCause `json:"leakCause"`

	LeakRatePSIPerSecond float64 `json:"leakRatePsiPerSecond"`
	LeakDuration         float64 `json:"leakDuration"`
	TotalPressureLost    float64 `json:"totalPressureLost"`

	// Performance effects, recomputed by UpdateEffects and never
	// independently mutated.
	ContactPatchMultiplier      float64 `json:"contactPatchMultiplier"`
	PressureGripMultiplier      float64 `json:"pressureGripMultiplier"`
	PressureWearMultiplier      float64 `json:"pressureWearMultiplier"`
	PressureHeatMultiplier      float64 `json:"pressureHeatMultiplier"`
	RollingResistanceMultiplier float64 `json:"rollingResistanceMultiplier"`
	FuelEconomyMultiplier       float64 `json:"fuelEconomyMultiplier"`

	// Diagnostic data
	PressureDeviationPSI   float64 `json:"pressureDeviationPsi"`
	PressurePercent        float64 `json:"pressurePercent"`
	TimeAtCriticalPressure float64 `json:"timeAtCriticalPressure"`
	DamageEventCount       int     `json:"damageEventCount"`
}

// NewPressureState returns a pressure state initialized to the given cold and
// optimal pressures with effects computed.
func NewPressureState(defaultPressure, optimal float64) *PressureState {
	s := &PressureState{}
	s.Reset(defaultPressure, optimal)
	return s
}

// pressureRatio returns current/optimal with the optimal floored at 1.0 PSI
// so a zeroed state can never divide by zero.
func (s *PressureState) pressureRatio() float64 {
	return s.CurrentPressurePSI / math.Max(s.OptimalPressurePSI, 1.0)
}

// GripMultiplier returns the grip multiplier for the current pressure,
// in the range [0.15, 1.07].
//
// The curve models real tire behavior: baseline 1.0 at optimal pressure,
// a sweet-spot bonus when slightly under-inflated (larger contact patch),
// grip collapse from sidewall flex when severely under-inflated, and a
// linear reduction when over-inflated.
func (s *PressureState) GripMultiplier() float64 {
	if s.IsBlownOut || s.IsFlat {
		return 0.15 // severely compromised grip
	}

	r := s.pressureRatio()

	switch {
	case r < 0.5:
		// Critically low, severe grip loss from sidewall collapse.
		return 0.3 + r*0.4
	case r < 0.85:
		// Under-inflated but functional.
		return lerp(0.5, 1.05, (r-0.5)/0.35)
	case r <= 0.95:
		// Slightly under-inflated, sweet spot for maximum grip.
		return 1.03 + (0.95-r)*0.4 // 1.03 to 1.07
	case r <= 1.05:
		// Near optimal, baseline grip.
		return 1.0
	case r <= 1.15:
		// Slightly over-inflated, reduced contact patch.
		return 1.0 - (r-1.05)*0.5 // 1.0 to 0.95
	default:
		// Significantly over-inflated, accelerating grip loss.
		return math.Max(0.7, 0.95-(r-1.15)*1.5)
	}
}

// WearMultiplier returns the wear rate multiplier for the current pressure
// (1.0 = normal, >1.0 = faster wear).
//
// Under-inflated tires wear faster from the enlarged contact patch and
// sidewall flex heat; over-inflated tires wear moderately faster in the
// tread center.
func (s *PressureState) WearMultiplier() float64 {
	if s.IsBlownOut || s.IsFlat {
		return 5.0 // catastrophic wear when running flat
	}

	r := s.pressureRatio()

	switch {
	case r < 0.7:
		return 3.0 - r*2.0
	case r < 0.9:
		return 1.0 + (0.9-r)*3.0
	case r <= 1.1:
		return 1.0
	default:
		return 1.0 + (r-1.1)*1.5
	}
}

// ContactPatch returns the contact patch size multiplier in [0.5, 1.4].
// Lower pressure gives a larger patch, but an extremely low ratio collapses
// the sidewall and reduces effective contact despite nominal patch growth.
func (s *PressureState) ContactPatch() float64 {
	if s.IsBlownOut || s.IsFlat {
		return 0.5 // deformed tire has inconsistent, reduced contact
	}

	r := s.pressureRatio()
	if r < 0.5 {
		return 0.8 // collapsed sidewall
	}

	return clamp(1.5-r*0.5, 0.7, 1.4)
}

// HeatMultiplier returns the heat generation multiplier for the current
// pressure. Sidewall flex under low pressure is a primary cause of tire
// failure when running under-inflated.
func (s *PressureState) HeatMultiplier() float64 {
	if s.IsBlownOut || s.IsFlat {
		return 3.0 // running on sidewall or rim
	}

	r := s.pressureRatio()

	switch {
	case r < 0.7:
		return 2.5 - r*1.5
	case r < 0.9:
		return 1.0 + (0.9-r)*2.5
	case r <= 1.1:
		return 1.0
	default:
		// Over-inflated runs slightly cooler.
		return math.Max(0.85, 1.0-(r-1.1)*0.5)
	}
}

// RollingResistance returns the rolling resistance multiplier
// (1.0 = optimal, >1.0 = more resistance, worse fuel economy).
func (s *PressureState) RollingResistance() float64 {
	if s.IsBlownOut || s.IsFlat {
		return 3.0
	}

	r := s.pressureRatio()

	switch {
	case r < 0.85:
		return 1.0 + (0.85-r)*2.0
	case r <= 1.1:
		return 1.0
	default:
		return math.Max(0.95, 1.0-(r-1.1)*0.3)
	}
}

// NeedsAttention reports whether the pressure is in a warning state
// requiring driver attention: flat, blown out, leaking, or more than 10%
// off optimal.
func (s *PressureState) NeedsAttention() bool {
	if s.IsFlat || s.IsBlownOut || s.HasLeak {
		return true
	}

	deviationPercent := math.Abs(s.PressureDeviationPSI) / math.Max(s.OptimalPressurePSI, 1.0) * 100.0
	return deviationPercent > 10.0
}

// IsCritical reports whether the tire requires immediate action: flat,
// blown out, below 15 PSI, or losing more than 1 PSI per second.
func (s *PressureState) IsCritical() bool {
	return s.IsFlat || s.IsBlownOut || s.CurrentPressurePSI < 15.0 || s.LeakRatePSIPerSecond > 1.0
}

// Reset reinitializes the state to the given cold and optimal pressures,
// clears all leak and damage tracking, and recomputes effects. Called at
// vehicle spawn and on pit-stop or repair.
func (s *PressureState) Reset(defaultPressure, optimal float64) {
	s.CurrentPressurePSI = defaultPressure
	s.ColdPressurePSI = defaultPressure
	s.HotPressurePSI = defaultPressure
	s.OptimalPressurePSI = optimal
	s.HasLeak = false
	s.IsFlat = false
	s.IsBlownOut = false
	s.LeakCause = LossNone
	s.LeakRatePSIPerSecond = 0
	s.LeakDuration = 0
	s.TotalPressureLost = 0
	s.TimeAtCriticalPressure = 0
	s.DamageEventCount = 0
	s.UpdateEffects()
}

// UpdateEffects recomputes every stored multiplier and diagnostic value
// from the current pressure. It is the single point of truth and must be
// invoked after any pressure-affecting mutation.
func (s *PressureState) UpdateEffects() {
	s.PressureGripMultiplier = s.GripMultiplier()
	s.PressureWearMultiplier = s.WearMultiplier()
	s.ContactPatchMultiplier = s.ContactPatch()
	s.PressureHeatMultiplier = s.HeatMultiplier()
	s.RollingResistanceMultiplier = s.RollingResistance()
	s.FuelEconomyMultiplier = 1.0 / math.Max(s.RollingResistanceMultiplier, 0.1)
	s.PressureDeviationPSI = s.CurrentPressurePSI - s.OptimalPressurePSI
	s.PressurePercent = s.pressureRatio() * 100.0
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
