package tire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperature_HeatsUnderSlip(t *testing.T) {
	profile := DefaultCompounds()[CompoundMedium]
	temp := NewTemperature(25.0)

	in := ThermalInputs{SlipRatio: 0.2, SlipAngle: 0.1, LoadN: 5000, AmbientC: 25.0}
	for i := 0; i < 100; i++ {
		temp.Advance(profile, in, 0.05)
	}

	assert.Greater(t, temp.CurrentC, 25.0)
	assert.Greater(t, temp.SurfaceC, temp.CurrentC)
	assert.LessOrEqual(t, temp.CurrentC, 200.0)
}

func TestTemperature_CoolsTowardAmbient(t *testing.T) {
	profile := DefaultCompounds()[CompoundMedium]
	temp := Temperature{CurrentC: 120.0, SurfaceC: 120.0, CoreC: 120.0}

	in := ThermalInputs{AmbientC: 25.0}
	for i := 0; i < 1000; i++ {
		temp.Advance(profile, in, 0.05)
	}

	assert.Less(t, temp.CurrentC, 120.0)
	assert.GreaterOrEqual(t, temp.CurrentC, 25.0)
}

func TestTemperature_ClampedAtAmbient(t *testing.T) {
	profile := DefaultCompounds()[CompoundHard]
	temp := NewTemperature(25.0)

	temp.Advance(profile, ThermalInputs{AmbientC: 25.0}, 1.0)
	assert.Equal(t, 25.0, temp.CurrentC)
}

func TestTemperature_PressureHeatMultiplier(t *testing.T) {
	profile := DefaultCompounds()[CompoundMedium]
	in := ThermalInputs{SlipRatio: 0.3, AmbientC: 25.0}

	normal := NewTemperature(25.0)
	normal.Advance(profile, in, 0.05)

	in.HeatMultiplier = 2.0
	underInflated := NewTemperature(25.0)
	underInflated.Advance(profile, in, 0.05)

	assert.Greater(t, underInflated.CurrentC, normal.CurrentC)
}

func TestAddHeat(t *testing.T) {
	temp := NewTemperature(25.0)
	temp.AddHeat(50.0, 25.0)
	assert.Equal(t, 75.0, temp.CurrentC)

	temp.AddHeat(-100.0, 25.0)
	assert.Equal(t, 25.0, temp.CurrentC)

	temp.AddHeat(500.0, 25.0)
	assert.Equal(t, 200.0, temp.CurrentC)
}

func TestGripFromTemperature(t *testing.T) {
	profile := DefaultCompounds()[CompoundMedium] // window 85-105, peak 95

	// Cold tire has reduced grip.
	cold := GripFromTemperature(40.0, profile)
	assert.Less(t, cold, 1.0)
	assert.GreaterOrEqual(t, cold, 0.7)

	// Peak temperature gives full grip.
	assert.InDelta(t, 1.0, GripFromTemperature(95.0, profile), 1e-9)

	// Inside the window but off peak loses a little.
	inWindow := GripFromTemperature(88.0, profile)
	assert.Less(t, inWindow, 1.0)
	assert.Greater(t, inWindow, 0.94)

	// Overheated fades, floored at -0.4.
	hot := GripFromTemperature(140.0, profile)
	assert.InDelta(t, 0.6, hot, 1e-9)
	assert.Equal(t, 0.6, GripFromTemperature(200.0, profile))
}

func TestTemperatureZones(t *testing.T) {
	profile := DefaultCompounds()[CompoundMedium]

	z := TemperatureZones(Temperature{CurrentC: 100.0}, profile)
	require.Equal(t, 100.0, z.MiddleC)
	assert.InDelta(t, 95.0, z.InnerC, 1e-9)
	assert.InDelta(t, 105.0, z.OuterC, 1e-9)
	assert.InDelta(t, 100.0, z.AverageC, 1e-9)
	assert.InDelta(t, 10.0, z.SpreadC, 1e-9)
	assert.False(t, z.Overheating)
	assert.False(t, z.Undercooled)

	z = TemperatureZones(Temperature{CurrentC: 130.0}, profile)
	assert.True(t, z.Overheating)

	z = TemperatureZones(Temperature{CurrentC: 40.0}, profile)
	assert.True(t, z.Undercooled)
}
