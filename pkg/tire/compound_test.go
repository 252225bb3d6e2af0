package tire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimalPressureFor(t *testing.T) {
	tests := []struct {
		class PressureClass
		want  float64
	}{
		{ClassStreet, 32.0},
		{ClassSport, 30.0},
		{ClassTrack, 28.0},
		{ClassDrift, 34.0},
		{ClassRain, 35.0},
		{ClassOffRoad, 26.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OptimalPressureFor(tt.class))
	}
}

func TestDefaultCompounds(t *testing.T) {
	db := DefaultCompounds()

	medium, ok := db[CompoundMedium]
	require.True(t, ok)
	assert.Equal(t, 1.0, medium.BaseGrip)
	assert.Equal(t, 95.0, medium.PeakGripTemperature)
	assert.Equal(t, 25, medium.ExpectedLaps)

	ultra, ok := db[CompoundUltraSoft]
	require.True(t, ok)
	assert.Greater(t, ultra.BaseGrip, medium.BaseGrip)
	assert.Greater(t, ultra.WearRate, medium.WearRate)
	assert.Less(t, ultra.ExpectedLaps, medium.ExpectedLaps)

	wet, ok := db[CompoundFullWet]
	require.True(t, ok)
	assert.True(t, wet.AllWeather)
	assert.Equal(t, 1.0, wet.WetPerformance)

	drift, ok := db[CompoundDrift]
	require.True(t, ok)
	assert.Less(t, drift.LateralGripMod, 1.0)
	assert.Greater(t, drift.LongitudinalGripMod, 1.0)

	for c, profile := range db {
		assert.Equal(t, c, profile.Compound)
		assert.Greater(t, profile.OptimalTempMax, profile.OptimalTempMin, c.String())
		assert.Greater(t, profile.OptimalPressure(), 0.0, c.String())
	}
}

func TestRecommendCompound(t *testing.T) {
	tests := []struct {
		trackTemp float64
		wet       bool
		want      Compound
	}{
		{10, true, CompoundFullWet},
		{20, true, CompoundIntermediate},
		{20, false, CompoundHard},
		{30, false, CompoundMedium},
		{40, false, CompoundSoft},
		{50, false, CompoundUltraSoft},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RecommendCompound(tt.trackTemp, tt.wet),
			"trackTemp=%.0f wet=%v", tt.trackTemp, tt.wet)
	}
}

func TestCompoundString(t *testing.T) {
	assert.Equal(t, "UltraSoft", CompoundUltraSoft.String())
	assert.Equal(t, "FullWet", CompoundFullWet.String())
	assert.Equal(t, "Unknown", Compound(200).String())
}
