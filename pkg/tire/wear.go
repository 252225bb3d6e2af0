// pkg/tire/wear.go
package tire

import "math"

// Condition is the coarse tire condition ladder shown on the HUD.
type Condition uint8

const (
	ConditionOptimal Condition = iota
	ConditionGood
	ConditionWorn
	ConditionCritical
	ConditionPunctured
	ConditionBlown
)

// String returns the condition display name.
func (c Condition) String() string {
	switch c {
	case ConditionOptimal:
		return "Optimal"
	case ConditionGood:
		return "Good"
	case ConditionWorn:
		return "Worn"
	case ConditionCritical:
		return "Critical"
	case ConditionPunctured:
		return "Punctured"
	case ConditionBlown:
		return "Blown"
	default:
		return "Unknown"
	}
}

// WearFactors weight the individual wear sources. One set is shared per
// vehicle class.
type WearFactors struct {
	Acceleration float64 `json:"acceleration"`
	Braking      float64 `json:"braking"`
	Cornering    float64 `json:"cornering"`
	Slip         float64 `json:"slip"`
	Lockup       float64 `json:"lockup"`
	Temperature  float64 `json:"temperature"`
	Surface      float64 `json:"surface"`
	Load         float64 `json:"load"`
}

// DefaultWearFactors returns the shipped wear weighting.
func DefaultWearFactors() WearFactors {
	return WearFactors{
		Acceleration: 1.0,
		Braking:      1.2,
		Cornering:    1.5,
		Slip:         2.0,
		Lockup:       3.0,
		Temperature:  1.0,
		Surface:      1.0,
		Load:         1.0,
	}
}

// WearInputs carries the per-tick quantities the wear model consumes.
type WearInputs struct {
	SlipRatio float64
	SlipAngle float64
	TempC     float64
	Locked    bool

	// WearMultiplier scales total wear, normally the pressure wear
	// multiplier of the same wheel.
	WearMultiplier float64

	// GlobalMultiplier is the session-wide wear setting.
	GlobalMultiplier float64
}

// AdvanceWear returns the new wear level after dt seconds. Wear level runs
// from 1.0 (fresh) down to 0.0 (canvas showing).
func AdvanceWear(level float64, profile CompoundProfile, f WearFactors, in WearInputs, dt float64) float64 {
	amount := 0.0001 * profile.WearRate

	slipMagnitude := math.Sqrt(in.SlipRatio*in.SlipRatio + in.SlipAngle*in.SlipAngle)
	amount += slipMagnitude * 0.001 * f.Slip

	if in.TempC > profile.OptimalTempMax {
		amount += (in.TempC - profile.OptimalTempMax) * 0.0001 * f.Temperature
	}

	if in.Locked {
		amount += 0.01 * f.Lockup
	}

	wearMult := in.WearMultiplier
	if wearMult <= 0 {
		wearMult = 1.0
	}
	globalMult := in.GlobalMultiplier
	if globalMult <= 0 {
		globalMult = 1.0
	}

	amount *= wearMult * globalMult * dt
	return clamp(level-amount, 0, 1)
}

// GripFromWear returns the wear grip factor. Grip holds until half tread,
// then drops off sharply toward the canvas.
func GripFromWear(level float64) float64 {
	switch {
	case level > 0.5:
		return 1.0
	case level > 0.25:
		return 0.85 + (level-0.25)*0.6
	case level > 0.1:
		return 0.6 + (level-0.1)*1.67
	default:
		return 0.3 + level*3.0
	}
}

// ConditionFor maps a wear level and flat flag to the condition ladder.
func ConditionFor(level float64, flat bool) Condition {
	if flat {
		return ConditionPunctured
	}
	switch {
	case level > 0.75:
		return ConditionOptimal
	case level > 0.5:
		return ConditionGood
	case level > 0.25:
		return ConditionWorn
	case level > 0:
		return ConditionCritical
	default:
		return ConditionBlown
	}
}
