// pkg/tire/loss.go
package tire

import "math"

// LeakRateFor returns the configured PSI-per-second drain rate for a loss
// cause. Blowout has no rate; it applies an instantaneous loss instead.
func LeakRateFor(cause LossCause, cfg *PressureConfig) float64 {
	switch cause {
	case LossNaturalLeak:
		return cfg.NaturalLeakRatePSIPerHour / 3600.0
	case LossSlowLeak:
		return cfg.SlowLeakRatePSIPerSec
	case LossModerateLeakDamage:
		return cfg.ModerateLeakRatePSIPerSec
	case LossSpikeStripPuncture:
		return cfg.SpikeStripLeakRatePSIPerSec
	case LossValveStemDamage:
		return cfg.ValveStemLeakRatePSIPerSec
	case LossBeadSeparation:
		return cfg.BeadSeparationLeakRatePSIPerSec
	default:
		return 0
	}
}

// ApplyDamage starts a pressure loss of the given cause on the state.
// A tire that is already blown out ignores further transitions until it is
// externally repaired. LossBlowout applies the configured instantaneous
// drop and marks the tire blown out instead of starting a rate-based leak.
func ApplyDamage(s *PressureState, cause LossCause, cfg *PressureConfig) {
	if s.IsBlownOut || cause == LossNone {
		return
	}

	s.DamageEventCount++

	if cause == LossBlowout {
		loss := math.Min(cfg.BlowoutInstantLossPSI, s.CurrentPressurePSI)
		s.CurrentPressurePSI -= loss
		s.IsBlownOut = true
		s.IsFlat = true
		s.HasLeak = false
		s.LeakCause = LossBlowout
		s.LeakRatePSIPerSecond = 0
		s.TotalPressureLost += loss
		s.UpdateEffects()
		return
	}

	s.HasLeak = true
	s.LeakCause = cause
	s.LeakRatePSIPerSecond = LeakRateFor(cause, cfg)
	s.LeakDuration = 0
	s.UpdateEffects()
}

// AdvancePressure advances the leak simulation by dt seconds: active leak
// drain, background natural loss, flat transition, and critical-pressure
// time tracking. Pressure is clamped at zero. Effects are recomputed once
// at the end.
func AdvancePressure(s *PressureState, cfg *PressureConfig, dt float64) {
	if dt <= 0 {
		return
	}

	scaled := dt * cfg.PressureSimulationTimeScale

	if s.HasLeak && !s.IsBlownOut {
		loss := s.LeakRatePSIPerSecond * scaled
		loss = math.Min(loss, s.CurrentPressurePSI)
		s.CurrentPressurePSI -= loss
		s.TotalPressureLost += loss
		s.LeakDuration += dt
	}

	if cfg.EnableNaturalPressureLoss && !s.IsBlownOut {
		loss := cfg.NaturalLeakRatePSIPerHour / 3600.0 * scaled
		loss = math.Min(loss, s.CurrentPressurePSI)
		s.CurrentPressurePSI -= loss
		s.TotalPressureLost += loss
	}

	if s.CurrentPressurePSI < 0 {
		s.CurrentPressurePSI = 0
	}

	if s.CurrentPressurePSI <= cfg.MinFunctionalPressurePSI {
		s.IsFlat = true
	}

	if s.CurrentPressurePSI < cfg.CriticalLowPressurePSI {
		s.TimeAtCriticalPressure += dt
	}

	s.UpdateEffects()
}

// UpdateHotPressure recomputes the advisory hot pressure from the current
// tire temperature. The authoritative CurrentPressurePSI used for grip and
// wear is not touched; leaks mutate it directly.
func UpdateHotPressure(s *PressureState, cfg *PressureConfig, tireTempC float64) {
	if !cfg.EnableTemperaturePressureEffect {
		s.HotPressurePSI = s.ColdPressurePSI
		return
	}
	s.HotPressurePSI = s.ColdPressurePSI + (tireTempC-cfg.ReferenceAmbientTempC)*cfg.PressurePerDegreeC
}

// BlowoutProbability returns the per-second blowout probability for the
// given speed (km/h) and tire temperature, or 0 when conditions are safe.
// Blowout risk requires the simulation toggle, sustained critical heat, and
// a pressure ratio below the configured threshold.
func BlowoutProbability(s *PressureState, cfg *PressureConfig, speedKPH, tireTempC float64) float64 {
	if !cfg.EnableBlowoutSimulation || s.IsBlownOut {
		return 0
	}

	ratio := s.CurrentPressurePSI / math.Max(s.OptimalPressurePSI, 1.0)
	if ratio >= cfg.BlowoutPressureRatioThreshold || tireTempC < cfg.BlowoutTempThresholdC {
		return 0
	}

	p := cfg.BlowoutBaseProbabilityPerSec
	p *= 1.0 + speedKPH/100.0*cfg.BlowoutSpeedMultiplier
	p *= 1.0 + (tireTempC-cfg.BlowoutTempThresholdC)/100.0
	return clamp(p, 0, 1)
}

// RollBlowout applies a blowout when the caller's random roll (uniform in
// [0,1)) falls under the per-tick probability. The roll source is supplied
// by the caller so replays stay deterministic.
func RollBlowout(s *PressureState, cfg *PressureConfig, speedKPH, tireTempC, dt, roll float64) bool {
	p := BlowoutProbability(s, cfg, speedKPH, tireTempC) * dt
	if p <= 0 || roll >= p {
		return false
	}
	ApplyDamage(s, LossBlowout, cfg)
	return true
}
