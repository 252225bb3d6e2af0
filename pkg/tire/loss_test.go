package tire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeakProgression(t *testing.T) {
	cfg := DefaultPressureConfig()
	cfg.EnableNaturalPressureLoss = false // isolate the damage leak

	s := NewPressureState(32.0, 32.0)
	ApplyDamage(s, LossSlowLeak, &cfg)

	require.True(t, s.HasLeak)
	require.Equal(t, LossSlowLeak, s.LeakCause)
	require.InDelta(t, 0.05, s.LeakRatePSIPerSecond, 1e-9)

	for i := 0; i < 100; i++ {
		AdvancePressure(s, &cfg, 1.0)
	}

	assert.InDelta(t, 27.0, s.CurrentPressurePSI, 1e-6)
	assert.InDelta(t, 5.0, s.TotalPressureLost, 1e-6)
	assert.InDelta(t, 100.0, s.LeakDuration, 1e-6)
	assert.False(t, s.IsFlat)
}

func TestLeakProgression_TimeScale(t *testing.T) {
	cfg := DefaultPressureConfig()
	cfg.EnableNaturalPressureLoss = false
	cfg.PressureSimulationTimeScale = 2.0

	s := NewPressureState(32.0, 32.0)
	ApplyDamage(s, LossSlowLeak, &cfg)

	for i := 0; i < 100; i++ {
		AdvancePressure(s, &cfg, 1.0)
	}

	// Double time scale drains twice as fast.
	assert.InDelta(t, 22.0, s.CurrentPressurePSI, 1e-6)
}

func TestLeakProgression_FlatTransition(t *testing.T) {
	cfg := DefaultPressureConfig()
	cfg.EnableNaturalPressureLoss = false

	s := NewPressureState(32.0, 32.0)
	ApplyDamage(s, LossBeadSeparation, &cfg) // 5 PSI/s

	for i := 0; i < 4; i++ {
		AdvancePressure(s, &cfg, 1.0)
	}

	// 32 - 20 = 12 PSI, at the functional floor.
	assert.True(t, s.IsFlat)
	assert.Equal(t, 0.15, s.PressureGripMultiplier)
}

func TestLeakProgression_ClampAtZero(t *testing.T) {
	cfg := DefaultPressureConfig()

	s := NewPressureState(32.0, 32.0)
	ApplyDamage(s, LossBeadSeparation, &cfg)

	for i := 0; i < 60; i++ {
		AdvancePressure(s, &cfg, 1.0)
	}

	assert.GreaterOrEqual(t, s.CurrentPressurePSI, 0.0)
	assert.LessOrEqual(t, s.TotalPressureLost, 32.0+1e-6)
}

func TestNaturalLeak(t *testing.T) {
	cfg := DefaultPressureConfig()

	s := NewPressureState(32.0, 32.0)
	AdvancePressure(s, &cfg, 3600.0) // one hour in a single step

	assert.InDelta(t, 32.0-cfg.NaturalLeakRatePSIPerHour, s.CurrentPressurePSI, 1e-9)

	cfg.EnableNaturalPressureLoss = false
	s.Reset(32.0, 32.0)
	AdvancePressure(s, &cfg, 3600.0)
	assert.Equal(t, 32.0, s.CurrentPressurePSI)
}

func TestBlowout_InstantLoss(t *testing.T) {
	cfg := DefaultPressureConfig()

	s := NewPressureState(32.0, 32.0)
	ApplyDamage(s, LossBlowout, &cfg)

	assert.InDelta(t, 2.0, s.CurrentPressurePSI, 1e-9)
	assert.True(t, s.IsBlownOut)
	assert.True(t, s.IsFlat)
	assert.Equal(t, 0.15, s.PressureGripMultiplier)
	assert.Equal(t, 1, s.DamageEventCount)
	assert.InDelta(t, 30.0, s.TotalPressureLost, 1e-9)
}

func TestBlowout_LowPressureLossAccounting(t *testing.T) {
	cfg := DefaultPressureConfig()

	// A tire holding less than the instant-loss figure can only lose what
	// it has; the lifetime counter must not overshoot.
	s := NewPressureState(12.0, 32.0)
	ApplyDamage(s, LossBlowout, &cfg)

	assert.Equal(t, 0.0, s.CurrentPressurePSI)
	assert.InDelta(t, 12.0, s.TotalPressureLost, 1e-9)
}

func TestBlowout_IgnoresFurtherDamage(t *testing.T) {
	cfg := DefaultPressureConfig()

	s := NewPressureState(32.0, 32.0)
	ApplyDamage(s, LossBlowout, &cfg)
	before := *s

	ApplyDamage(s, LossSpikeStripPuncture, &cfg)
	assert.Equal(t, before, *s, "blown-out tire must ignore new loss causes until repaired")

	AdvancePressure(s, &cfg, 10.0)
	assert.InDelta(t, before.CurrentPressurePSI, s.CurrentPressurePSI, 1e-9)
}

func TestHotPressure(t *testing.T) {
	cfg := DefaultPressureConfig()

	s := NewPressureState(32.0, 32.0)
	UpdateHotPressure(s, &cfg, 100.0)

	// 32 + (100-20)*0.12 = 41.6
	assert.InDelta(t, 41.6, s.HotPressurePSI, 1e-9)
	// Advisory only; the authoritative pressure is untouched.
	assert.Equal(t, 32.0, s.CurrentPressurePSI)

	cfg.EnableTemperaturePressureEffect = false
	UpdateHotPressure(s, &cfg, 100.0)
	assert.Equal(t, 32.0, s.HotPressurePSI)
}

func TestBlowoutProbability_Gating(t *testing.T) {
	cfg := DefaultPressureConfig()

	// Healthy pressure: no risk even when hot.
	s := NewPressureState(32.0, 32.0)
	assert.Zero(t, BlowoutProbability(s, &cfg, 200, 180))

	// Low pressure but cool: no risk.
	s = NewPressureState(12.0, 32.0)
	assert.Zero(t, BlowoutProbability(s, &cfg, 200, 100))

	// Low pressure and critically hot: risk scales with speed.
	slow := BlowoutProbability(s, &cfg, 50, 150)
	fast := BlowoutProbability(s, &cfg, 250, 150)
	require.Greater(t, slow, 0.0)
	assert.Greater(t, fast, slow)

	cfg.EnableBlowoutSimulation = false
	assert.Zero(t, BlowoutProbability(s, &cfg, 250, 150))
}

func TestRollBlowout(t *testing.T) {
	cfg := DefaultPressureConfig()
	s := NewPressureState(12.0, 32.0)

	p := BlowoutProbability(s, &cfg, 100, 160)
	require.Greater(t, p, 0.0)

	// Roll above the threshold: nothing happens.
	assert.False(t, RollBlowout(s, &cfg, 100, 160, 1.0, 0.999))
	assert.False(t, s.IsBlownOut)

	// Roll below: blowout applied.
	assert.True(t, RollBlowout(s, &cfg, 100, 160, 1.0, 0.0))
	assert.True(t, s.IsBlownOut)
}

func TestLeakRateFor(t *testing.T) {
	cfg := DefaultPressureConfig()

	tests := []struct {
		cause LossCause
		want  float64
	}{
		{LossNone, 0},
		{LossNaturalLeak, 0.02 / 3600.0},
		{LossSlowLeak, 0.05},
		{LossModerateLeakDamage, 0.3},
		{LossSpikeStripPuncture, 1.5},
		{LossValveStemDamage, 1.0},
		{LossBeadSeparation, 5.0},
		{LossBlowout, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, LeakRateFor(tt.cause, &cfg), 1e-12, tt.cause.String())
	}
}

func TestTimeAtCriticalPressure(t *testing.T) {
	cfg := DefaultPressureConfig()
	cfg.EnableNaturalPressureLoss = false

	s := NewPressureState(16.0, 32.0) // below the 18 PSI critical threshold
	for i := 0; i < 5; i++ {
		AdvancePressure(s, &cfg, 1.0)
	}
	assert.InDelta(t, 5.0, s.TimeAtCriticalPressure, 1e-9)
}
