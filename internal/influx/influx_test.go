package influx

import (
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnightgrind/tiresim/internal/util"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

func TestWheelStatePoint(t *testing.T) {
	s := &telemetry.WheelState{
		VehicleID:      7,
		Position:       telemetry.FrontLeft,
		Time:           time.Date(2026, 4, 12, 23, 30, 0, 0, time.UTC),
		PressurePSI:    32.5,
		TemperatureC:   85,
		WearLevel:      0.9,
		GripMultiplier: 0.97,
		Surface:        "asphalt",
		IsFlat:         false,
	}

	point := WheelStatePoint("Kanjo Midnight Run", s)
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)

	assert.Contains(t, line, "wheel_state")
	assert.Contains(t, line, "session=Kanjo\\ Midnight\\ Run")
	assert.Contains(t, line, "vehicle=7")
	assert.Contains(t, line, "corner=FL")
	assert.Contains(t, line, "surface=asphalt")
	assert.Contains(t, line, "pressure_psi=32.5")
	assert.Contains(t, line, "flat=false")
}

func TestProcessMetricData(t *testing.T) {
	data := []string{
		`"wheel_telemetry"`,
		`"lap_split"`,
		`"tag::vehicle::3"`,
		`"field::int::lap::5"`,
		`"field::float::split_s::42.7"`,
		`"field::string::sector::back_straight"`,
	}

	bucket, point, err := ProcessMetricData(data, util.FixEscapeQuotes, util.TrimQuotes)
	require.NoError(t, err)
	assert.Equal(t, "wheel_telemetry", bucket)

	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	assert.Contains(t, line, "lap_split")
	assert.Contains(t, line, "vehicle=3")
	assert.Contains(t, line, "lap=5i")
	assert.Contains(t, line, "split_s=42.7")
	assert.Contains(t, line, `sector="back_straight"`)
}

func TestProcessMetricDataBadInt(t *testing.T) {
	data := []string{
		`"wheel_telemetry"`,
		`"lap_split"`,
		`"field::int::lap::notanumber"`,
	}

	_, _, err := ProcessMetricData(data, util.FixEscapeQuotes, util.TrimQuotes)
	require.Error(t, err)
}
