// pkg/tire/config.go
package tire

// PressureConfig contains all tunable parameters for the tire pressure
// simulation. Default values are based on typical passenger car tires and
// are shared read-only by every wheel of a vehicle class.
type PressureConfig struct {
	// Pressure ranges
	DefaultColdPressurePSI   float64 `json:"defaultColdPressurePsi"`
	MinFunctionalPressurePSI float64 `json:"minFunctionalPressurePsi"`
	CriticalLowPressurePSI   float64 `json:"criticalLowPressurePsi"`
	MaxSafePressurePSI       float64 `json:"maxSafePressurePsi"`

	// Temperature-pressure relationship (ideal gas law approximation).
	// At 32 PSI cold, expect roughly 36-38 PSI at 80-100C.
	PressurePerDegreeC    float64 `json:"pressurePerDegreeC"`
	ReferenceAmbientTempC float64 `json:"referenceAmbientTempC"`

	// Leak rates
	NaturalLeakRatePSIPerHour       float64 `json:"naturalLeakRatePsiPerHour"`
	SlowLeakRatePSIPerSec           float64 `json:"slowLeakRatePsiPerSec"`
	ModerateLeakRatePSIPerSec       float64 `json:"moderateLeakRatePsiPerSec"`
	SpikeStripLeakRatePSIPerSec     float64 `json:"spikeStripLeakRatePsiPerSec"`
	BlowoutInstantLossPSI           float64 `json:"blowoutInstantLossPsi"`
	ValveStemLeakRatePSIPerSec      float64 `json:"valveStemLeakRatePsiPerSec"`
	BeadSeparationLeakRatePSIPerSec float64 `json:"beadSeparationLeakRatePsiPerSec"`

	// Blowout thresholds
	BlowoutTempThresholdC         float64 `json:"blowoutTempThresholdC"`
	BlowoutPressureRatioThreshold float64 `json:"blowoutPressureRatioThreshold"`
	BlowoutBaseProbabilityPerSec  float64 `json:"blowoutBaseProbabilityPerSec"`
	BlowoutSpeedMultiplier        float64 `json:"blowoutSpeedMultiplier"` // per 100 km/h

	// Simulation settings
	EnableNaturalPressureLoss       bool    `json:"enableNaturalPressureLoss"`
	EnableTemperaturePressureEffect bool    `json:"enableTemperaturePressureEffect"`
	EnableBlowoutSimulation         bool    `json:"enableBlowoutSimulation"`
	PressureSimulationTimeScale     float64 `json:"pressureSimulationTimeScale"`
}

// DefaultPressureConfig returns the shipped tuning values.
func DefaultPressureConfig() PressureConfig {
	return PressureConfig{
		DefaultColdPressurePSI:   32.0,
		MinFunctionalPressurePSI: 12.0,
		CriticalLowPressurePSI:   18.0,
		MaxSafePressurePSI:       50.0,

		PressurePerDegreeC:    0.12,
		ReferenceAmbientTempC: 20.0,

		NaturalLeakRatePSIPerHour:       0.02,
		SlowLeakRatePSIPerSec:           0.05,
		ModerateLeakRatePSIPerSec:       0.3,
		SpikeStripLeakRatePSIPerSec:     1.5,
		BlowoutInstantLossPSI:           30.0,
		ValveStemLeakRatePSIPerSec:      1.0,
		BeadSeparationLeakRatePSIPerSec: 5.0,

		BlowoutTempThresholdC:         140.0,
		BlowoutPressureRatioThreshold: 0.5,
		BlowoutBaseProbabilityPerSec:  0.01,
		BlowoutSpeedMultiplier:        0.5,

		EnableNaturalPressureLoss:       true,
		EnableTemperaturePressureEffect: true,
		EnableBlowoutSimulation:         true,
		PressureSimulationTimeScale:     1.0,
	}
}
