package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/midnightgrind/tiresim/internal/model"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

func TestVehicleToTelemetry(t *testing.T) {
	join := time.Date(2026, 3, 1, 22, 15, 0, 0, time.UTC)
	v := model.Vehicle{
		SessionID:   3,
		ObjectID:    7,
		JoinTime:    join,
		JoinFrame:   120,
		ClassName:   "mg_coupe_rx",
		DisplayName: "Kaido RX",
		DriverName:  "ghost_11",
		Compound:    "Soft",
	}

	out := VehicleToTelemetry(v)

	assert.Equal(t, uint16(7), out.ID)
	assert.Equal(t, join, out.JoinTime)
	assert.Equal(t, uint(120), out.JoinFrame)
	assert.Equal(t, "mg_coupe_rx", out.ClassName)
	assert.Equal(t, "Kaido RX", out.DisplayName)
	assert.Equal(t, "ghost_11", out.DriverName)
	assert.Equal(t, "Soft", out.Compound)
}

func TestWheelStateToTelemetry(t *testing.T) {
	s := model.WheelState{
		VehicleObjectID: 7,
		Position:        "RL",
		CaptureFrame:    900,
		PressurePSI:     27.5,
		TemperatureC:    92.0,
		WearLevel:       0.8,
		Condition:       "Optimal",
		GripMultiplier:  1.04,
		Surface:         "Asphalt",
		HasLeak:         true,
	}

	out := WheelStateToTelemetry(s)

	assert.Equal(t, telemetry.RearLeft, out.Position)
	assert.Equal(t, uint16(7), out.VehicleID)
	assert.Equal(t, uint(900), out.CaptureFrame)
	assert.InDelta(t, 27.5, out.PressurePSI, 0.001)
	assert.InDelta(t, 1.04, out.GripMultiplier, 0.001)
	assert.Equal(t, "Asphalt", out.Surface)
	assert.True(t, out.HasLeak)
}

func TestDamageEventToTelemetry_ExtraData(t *testing.T) {
	e := model.DamageEvent{
		ID:              4,
		VehicleObjectID: 7,
		Position:        "FR",
		Cause:           "SpikeStripPuncture",
		Severity:        1.0,
		ImpactSpeed:     134.2,
		ExtraData:       datatypes.JSON(`{"source":"police_strip_03"}`),
	}

	out := DamageEventToTelemetry(e)

	assert.Equal(t, telemetry.FrontRight, out.Position)
	assert.Equal(t, "SpikeStripPuncture", out.Cause)
	assert.InDelta(t, 134.2, out.ImpactSpeed, 0.001)
	assert.Equal(t, "police_strip_03", out.ExtraData["source"])
}

func TestDamageEventToTelemetry_EmptyExtraData(t *testing.T) {
	e := model.DamageEvent{ExtraData: datatypes.JSON(`{}`)}
	out := DamageEventToTelemetry(e)
	assert.Nil(t, out.ExtraData)
}

func TestBlowoutEventToTelemetry(t *testing.T) {
	e := model.BlowoutEvent{
		VehicleObjectID: 2,
		Position:        "RR",
		SpeedKPH:        188.0,
		TemperatureC:    151.5,
		PressurePSI:     2.0,
	}

	out := BlowoutEventToTelemetry(e)

	assert.Equal(t, telemetry.RearRight, out.Position)
	assert.InDelta(t, 188.0, out.SpeedKPH, 0.001)
	assert.InDelta(t, 151.5, out.TemperatureC, 0.001)
	assert.InDelta(t, 2.0, out.PressurePSI, 0.001)
}

func TestLapTelemetryRoundTrip(t *testing.T) {
	in := telemetry.LapTelemetry{
		VehicleID:     9,
		Lap:           4,
		PeakTempFL:    96.5,
		PeakTempFR:    94.0,
		PeakTempRL:    101.2,
		PeakTempRR:    99.8,
		Lockups:       3,
		Wheelspin:     11,
		SlipDistanceM: 412.7,
		AverageWear:   0.71,
		AverageGrip:   0.98,
	}

	out := LapTelemetryToTelemetry(TelemetryToLapTelemetry(in))

	assert.Equal(t, in.VehicleID, out.VehicleID)
	assert.Equal(t, in.Lap, out.Lap)
	assert.Equal(t, in.Lockups, out.Lockups)
	assert.Equal(t, in.Wheelspin, out.Wheelspin)
	assert.InDelta(t, in.PeakTempRL, out.PeakTempRL, 0.001)
	assert.InDelta(t, in.SlipDistanceM, out.SlipDistanceM, 0.001)
	assert.InDelta(t, in.AverageGrip, out.AverageGrip, 0.001)
}

func TestSessionAndTrackRoundTrip(t *testing.T) {
	start := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	sess := telemetry.Session{
		SessionName:     "midnight-touge-01",
		GameMode:        "TimeAttack",
		ServerName:      "mg-na-west-2",
		StartTime:       start,
		TrackID:         5,
		TickRate:        60,
		SimTimeScale:    1,
		RecorderVersion: "1.0.0",
		Tag:             "Qualifying",
	}

	out := SessionToTelemetry(TelemetryToSession(sess))
	assert.Equal(t, sess.SessionName, out.SessionName)
	assert.Equal(t, sess.GameMode, out.GameMode)
	assert.Equal(t, sess.StartTime, out.StartTime)
	assert.Equal(t, sess.Tag, out.Tag)

	track := telemetry.Track{TrackName: "kanjo_loop", DisplayName: "Kanjo Loop", LengthKM: 6.4, TrackTempC: 28, Wet: true}
	outTrack := TrackToTelemetry(TelemetryToTrack(track))
	assert.Equal(t, track.TrackName, outTrack.TrackName)
	assert.InDelta(t, track.LengthKM, outTrack.LengthKM, 0.001)
	assert.True(t, outTrack.Wet)
}
