// pkg/tire/temperature.go
package tire

import "math"

// Temperature tracks the thermal state of one tire. Surface temperature
// reacts fastest to slip, core temperature follows the carcass with lag.
type Temperature struct {
	CurrentC float64 `json:"currentC"`
	SurfaceC float64 `json:"surfaceC"`
	CoreC    float64 `json:"coreC"`
}

// NewTemperature returns a temperature state settled at ambient.
func NewTemperature(ambientC float64) Temperature {
	return Temperature{CurrentC: ambientC, SurfaceC: ambientC, CoreC: ambientC}
}

// ThermalInputs carries the per-tick quantities the thermal model consumes.
type ThermalInputs struct {
	SlipRatio float64
	SlipAngle float64
	LoadN     float64
	AmbientC  float64

	// HeatMultiplier scales heat input, normally the pressure heat
	// multiplier of the same wheel.
	HeatMultiplier float64

	// SimSpeed is the global temperature simulation speed.
	SimSpeed float64
}

// Advance integrates tire temperature over dt seconds: heat from slip and
// load, cooling toward ambient, clamped to [ambient, 200].
func (t *Temperature) Advance(profile CompoundProfile, in ThermalInputs, dt float64) {
	heatMult := in.HeatMultiplier
	if heatMult <= 0 {
		heatMult = 1.0
	}
	simSpeed := in.SimSpeed
	if simSpeed <= 0 {
		simSpeed = 1.0
	}

	slipHeat := (math.Abs(in.SlipRatio) + math.Abs(in.SlipAngle)) * 50.0 * profile.HeatUpRate
	loadHeat := in.LoadN / 10000.0 * 10.0
	cooling := (t.CurrentC - in.AmbientC) * 0.1 * profile.CoolDownRate

	change := ((slipHeat+loadHeat)*heatMult - cooling) * dt * simSpeed
	t.CurrentC = clamp(t.CurrentC+change, in.AmbientC, 200.0)

	t.SurfaceC = t.CurrentC + slipHeat*0.2
	t.CoreC = lerp(t.CoreC, t.CurrentC, clamp(dt*0.5, 0, 1))
}

// AddHeat applies an instantaneous temperature change, clamped to
// [ambient, 200]. Negative amounts cool the tire.
func (t *Temperature) AddHeat(amount, ambientC float64) {
	t.CurrentC = clamp(t.CurrentC+amount, ambientC, 200.0)
}

// GripFromTemperature returns the temperature grip factor for a compound:
// reduced when cold, peak inside the optimal window, fading when overheated.
func GripFromTemperature(tempC float64, profile CompoundProfile) float64 {
	switch {
	case tempC < profile.OptimalTempMin:
		coldRatio := tempC / profile.OptimalTempMin
		return 0.7 + 0.3*coldRatio
	case tempC > profile.OptimalTempMax:
		overTemp := tempC - profile.OptimalTempMax
		gripLoss := math.Min(overTemp/50.0, 0.4)
		return 1.0 - gripLoss
	default:
		distFromPeak := math.Abs(tempC - profile.PeakGripTemperature)
		windowHalf := (profile.OptimalTempMax - profile.OptimalTempMin) / 2.0
		return 1.0 - distFromPeak/windowHalf*0.05
	}
}

// Zones splits the single carcass temperature into inner/middle/outer
// readings for the telemetry display.
type Zones struct {
	InnerC      float64 `json:"innerC"`
	MiddleC     float64 `json:"middleC"`
	OuterC      float64 `json:"outerC"`
	AverageC    float64 `json:"averageC"`
	SpreadC     float64 `json:"spreadC"`
	Overheating bool    `json:"overheating"`
	Undercooled bool    `json:"undercooled"`
}

// TemperatureZones distributes the tire temperature across zones and flags
// over/under the compound's optimal window.
func TemperatureZones(t Temperature, profile CompoundProfile) Zones {
	z := Zones{
		MiddleC: t.CurrentC,
		InnerC:  t.CurrentC * 0.95,
		OuterC:  t.CurrentC * 1.05,
	}
	z.AverageC = (z.InnerC + z.MiddleC + z.OuterC) / 3.0
	z.SpreadC = z.OuterC - z.InnerC
	z.Overheating = z.AverageC > profile.OptimalTempMax
	z.Undercooled = z.AverageC < profile.OptimalTempMin
	return z
}
