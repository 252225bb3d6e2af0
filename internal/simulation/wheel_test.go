// internal/simulation/wheel_test.go
package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnightgrind/tiresim/pkg/telemetry"
	"github.com/midnightgrind/tiresim/pkg/tire"
)

// neverRoll never triggers a probability check.
func neverRoll() float64 { return 1.0 }

// alwaysRoll triggers every probability check.
func alwaysRoll() float64 { return 0.0 }

func newTestWheel(t *testing.T) (*Wheel, tire.PressureConfig, Settings) {
	t.Helper()
	cfg := tire.DefaultPressureConfig()
	s := DefaultSettings()
	profile, ok := tire.DefaultCompounds()[tire.CompoundMedium]
	require.True(t, ok)
	w := NewWheel(telemetry.FrontLeft, tire.CompoundMedium, profile, &cfg, s)
	return w, cfg, s
}

func TestNewWheel_InitialState(t *testing.T) {
	w, cfg, s := newTestWheel(t)

	assert.Equal(t, telemetry.FrontLeft, w.Position)
	assert.Equal(t, tire.CompoundMedium, w.Compound)
	assert.Equal(t, cfg.DefaultColdPressurePSI, w.Pressure.CurrentPressurePSI)
	assert.Equal(t, 30.0, w.Pressure.OptimalPressurePSI)
	assert.Equal(t, s.AmbientTempC, w.Temperature.CurrentC)
	assert.Equal(t, 1.0, w.WearLevel)
	assert.Equal(t, tire.ConditionOptimal, w.Condition)
	assert.Greater(t, w.CurrentGrip, 0.0)
}

func TestWheel_SetInputsDerivesFlags(t *testing.T) {
	tests := []struct {
		name         string
		in           WheelInputs
		wantLocked   bool
		wantSpinning bool
	}{
		{"rolling freely", WheelInputs{SlipRatio: 0.05}, false, false},
		{"reported lockup", WheelInputs{SlipRatio: 0.0, Locked: true}, true, false},
		{"slip ratio lockup", WheelInputs{SlipRatio: -0.5}, true, false},
		{"wheelspin", WheelInputs{SlipRatio: 0.6}, false, true},
		{"at lockup threshold", WheelInputs{SlipRatio: -0.3}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, _ := newTestWheel(t)
			w.SetInputs(tt.in)
			assert.Equal(t, tt.wantLocked, w.Locked)
			assert.Equal(t, tt.wantSpinning, w.Spinning)
		})
	}
}

func TestWheel_TickHeatsUnderSlip(t *testing.T) {
	w, cfg, s := newTestWheel(t)
	f := tire.DefaultWearFactors()

	w.SetInputs(WheelInputs{SlipRatio: 0.15, SlipAngle: 0.1, LoadN: 4000, SpeedKPH: 120})
	startTemp := w.Temperature.CurrentC
	startWear := w.WearLevel

	for i := 0; i < 600; i++ {
		w.Tick(&cfg, s, f, 1.0/60.0, neverRoll)
	}

	assert.Greater(t, w.Temperature.CurrentC, startTemp)
	assert.Less(t, w.WearLevel, startWear)
	assert.Greater(t, w.Pressure.HotPressurePSI, w.Pressure.ColdPressurePSI)
	assert.Greater(t, w.CurrentGrip, 0.0)
}

func TestWheel_TickCoolsTowardAmbientAtRest(t *testing.T) {
	w, cfg, s := newTestWheel(t)
	f := tire.DefaultWearFactors()

	w.Temperature.AddHeat(80.0, s.AmbientTempC)
	for i := 0; i < 1800; i++ {
		w.Tick(&cfg, s, f, 1.0/60.0, neverRoll)
	}

	assert.InDelta(t, s.AmbientTempC, w.Temperature.CurrentC, 10.0)
}

func TestWheel_LeakDrainsPressure(t *testing.T) {
	w, cfg, s := newTestWheel(t)
	f := tire.DefaultWearFactors()

	tire.ApplyDamage(w.Pressure, tire.LossSpikeStripPuncture, &cfg)
	start := w.Pressure.CurrentPressurePSI

	for i := 0; i < 300; i++ {
		w.Tick(&cfg, s, f, 1.0/60.0, neverRoll)
	}

	assert.Less(t, w.Pressure.CurrentPressurePSI, start)
	assert.True(t, w.Pressure.HasLeak)
}

func TestWheel_FlatTireConditionAndGrip(t *testing.T) {
	w, cfg, s := newTestWheel(t)
	f := tire.DefaultWearFactors()

	healthyGrip := w.CurrentGrip
	tire.ApplyDamage(w.Pressure, tire.LossBlowout, &cfg)
	w.Tick(&cfg, s, f, 1.0/60.0, neverRoll)

	assert.Equal(t, tire.ConditionPunctured, w.Condition)
	assert.Less(t, w.CurrentGrip, healthyGrip*0.3)
}

func TestWheel_RandomPuncture(t *testing.T) {
	w, cfg, s := newTestWheel(t)
	f := tire.DefaultWearFactors()
	cfg.EnableBlowoutSimulation = false

	res := w.Tick(&cfg, s, f, 1.0/60.0, alwaysRoll)

	assert.True(t, res.Punctured)
	assert.True(t, w.Pressure.HasLeak)
	assert.Equal(t, tire.LossSlowLeak, w.Pressure.LeakCause)
}

func TestWheel_PuncturesDisabled(t *testing.T) {
	w, cfg, s := newTestWheel(t)
	f := tire.DefaultWearFactors()
	cfg.EnableBlowoutSimulation = false
	s.AllowPunctures = false

	res := w.Tick(&cfg, s, f, 1.0/60.0, alwaysRoll)

	assert.False(t, res.Punctured)
	assert.False(t, w.Pressure.HasLeak)
}

func TestWheel_BlowoutUnderCriticalConditions(t *testing.T) {
	w, cfg, s := newTestWheel(t)
	f := tire.DefaultWearFactors()

	// Hot carcass and pressure well under the ratio threshold.
	w.Temperature.AddHeat(140.0, s.AmbientTempC)
	w.Pressure.CurrentPressurePSI = 10.0
	w.Pressure.UpdateEffects()
	w.SetInputs(WheelInputs{SpeedKPH: 180})
	s.SimulatePressure = false
	s.SimulateTemperature = false

	res := w.Tick(&cfg, s, f, 1.0/60.0, alwaysRoll)

	assert.True(t, res.Blowout)
	assert.True(t, w.Pressure.IsBlownOut)
	assert.Equal(t, tire.ConditionPunctured, w.Condition)
}

func TestWheel_SurfaceEffects(t *testing.T) {
	t.Run("gravel wears tread", func(t *testing.T) {
		w, cfg, s := newTestWheel(t)
		f := tire.DefaultWearFactors()
		w.SetInputs(WheelInputs{Surface: tire.SurfaceGravel})

		onRoad, _, _ := newTestWheel(t)
		onRoad.SetInputs(WheelInputs{Surface: tire.SurfaceAsphalt})

		for i := 0; i < 600; i++ {
			w.Tick(&cfg, s, f, 1.0/60.0, neverRoll)
			onRoad.Tick(&cfg, s, f, 1.0/60.0, neverRoll)
		}

		assert.Less(t, w.WearLevel, onRoad.WearLevel)
	})

	t.Run("standing water cools", func(t *testing.T) {
		w, cfg, s := newTestWheel(t)
		f := tire.DefaultWearFactors()
		w.Temperature.AddHeat(60.0, s.AmbientTempC)
		w.SetInputs(WheelInputs{Surface: tire.SurfacePuddle})

		dry, _, _ := newTestWheel(t)
		dry.Temperature.AddHeat(60.0, s.AmbientTempC)

		for i := 0; i < 60; i++ {
			w.Tick(&cfg, s, f, 1.0/60.0, neverRoll)
			dry.Tick(&cfg, s, f, 1.0/60.0, neverRoll)
		}

		assert.Less(t, w.Temperature.CurrentC, dry.Temperature.CurrentC)
	})
}

func TestWheel_Reset(t *testing.T) {
	w, cfg, s := newTestWheel(t)
	f := tire.DefaultWearFactors()

	tire.ApplyDamage(w.Pressure, tire.LossBlowout, &cfg)
	w.WearLevel = 0.1
	w.Tick(&cfg, s, f, 1.0/60.0, neverRoll)

	soft := tire.DefaultCompounds()[tire.CompoundSoft]
	w.reset(tire.CompoundSoft, soft, &cfg, s)

	assert.Equal(t, tire.CompoundSoft, w.Compound)
	assert.Equal(t, 1.0, w.WearLevel)
	assert.Equal(t, tire.ConditionOptimal, w.Condition)
	assert.False(t, w.Pressure.IsBlownOut)
	assert.Equal(t, cfg.DefaultColdPressurePSI, w.Pressure.CurrentPressurePSI)
	assert.Equal(t, 0.0, w.LapsOnTire)
}
