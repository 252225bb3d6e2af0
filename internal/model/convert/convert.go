package convert

import (
	"encoding/json"

	"github.com/midnightgrind/tiresim/internal/model"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// jsonToExtraData converts stored datatypes.JSON back to an event's extra data map.
func jsonToExtraData(data []byte) map[string]any {
	if len(data) == 0 {
		return nil
	}
	var extra map[string]any
	if err := json.Unmarshal(data, &extra); err != nil || len(extra) == 0 {
		return nil
	}
	return extra
}

// VehicleToTelemetry converts a GORM model.Vehicle to a telemetry.Vehicle.
// GORM Vehicle.ObjectID maps to telemetry Vehicle.ID.
func VehicleToTelemetry(v model.Vehicle) telemetry.Vehicle {
	return telemetry.Vehicle{
		ID:          v.ObjectID,
		JoinTime:    v.JoinTime,
		JoinFrame:   v.JoinFrame,
		ClassName:   v.ClassName,
		DisplayName: v.DisplayName,
		DriverName:  v.DriverName,
		Compound:    v.Compound,
	}
}

// WheelStateToTelemetry converts a GORM model.WheelState to a telemetry.WheelState.
func WheelStateToTelemetry(s model.WheelState) telemetry.WheelState {
	pos, _ := telemetry.ParsePosition(s.Position)
	return telemetry.WheelState{
		VehicleID:    s.VehicleObjectID,
		Position:     pos,
		Time:         s.Time,
		CaptureFrame: s.CaptureFrame,

		PressurePSI:    s.PressurePSI,
		HotPressurePSI: s.HotPressurePSI,
		TemperatureC:   s.TemperatureC,
		SurfaceTempC:   s.SurfaceTempC,
		CoreTempC:      s.CoreTempC,
		WearLevel:      s.WearLevel,
		Condition:      s.Condition,

		GripMultiplier:              s.GripMultiplier,
		WearMultiplier:              s.WearMultiplier,
		HeatMultiplier:              s.HeatMultiplier,
		ContactPatchMultiplier:      s.ContactPatchMultiplier,
		RollingResistanceMultiplier: s.RollingResistanceMultiplier,
		FuelEconomyMultiplier:       s.FuelEconomyMultiplier,

		SlipRatio: s.SlipRatio,
		SlipAngle: s.SlipAngle,
		LoadN:     s.LoadN,
		Surface:   s.Surface,

		HasLeak:        s.HasLeak,
		IsFlat:         s.IsFlat,
		IsBlownOut:     s.IsBlownOut,
		NeedsAttention: s.NeedsAttention,
		IsCritical:     s.IsCritical,
	}
}

// DamageEventToTelemetry converts a GORM model.DamageEvent to a telemetry.DamageEvent.
func DamageEventToTelemetry(e model.DamageEvent) telemetry.DamageEvent {
	pos, _ := telemetry.ParsePosition(e.Position)
	return telemetry.DamageEvent{
		ID:           e.ID,
		VehicleID:    e.VehicleObjectID,
		Position:     pos,
		Time:         e.Time,
		CaptureFrame: e.CaptureFrame,
		Cause:        e.Cause,
		Severity:     e.Severity,
		ImpactSpeed:  e.ImpactSpeed,
		ExtraData:    jsonToExtraData(e.ExtraData),
	}
}

// BlowoutEventToTelemetry converts a GORM model.BlowoutEvent to a telemetry.BlowoutEvent.
func BlowoutEventToTelemetry(e model.BlowoutEvent) telemetry.BlowoutEvent {
	pos, _ := telemetry.ParsePosition(e.Position)
	return telemetry.BlowoutEvent{
		ID:           e.ID,
		VehicleID:    e.VehicleObjectID,
		Position:     pos,
		Time:         e.Time,
		CaptureFrame: e.CaptureFrame,
		SpeedKPH:     e.SpeedKPH,
		TemperatureC: e.TemperatureC,
		PressurePSI:  e.PressurePSI,
	}
}

// LapTelemetryToTelemetry converts a GORM model.LapTelemetry to a telemetry.LapTelemetry.
func LapTelemetryToTelemetry(l model.LapTelemetry) telemetry.LapTelemetry {
	return telemetry.LapTelemetry{
		ID:            l.ID,
		VehicleID:     l.VehicleObjectID,
		Lap:           l.Lap,
		Time:          l.Time,
		PeakTempFL:    l.PeakTempFL,
		PeakTempFR:    l.PeakTempFR,
		PeakTempRL:    l.PeakTempRL,
		PeakTempRR:    l.PeakTempRR,
		Lockups:       l.Lockups,
		Wheelspin:     l.Wheelspin,
		SlipDistanceM: l.SlipDistanceM,
		AverageWear:   l.AverageWear,
		AverageGrip:   l.AverageGrip,
	}
}

// SessionToTelemetry converts a GORM model.Session to a telemetry.Session.
func SessionToTelemetry(s model.Session) telemetry.Session {
	return telemetry.Session{
		ID:              s.ID,
		SessionName:     s.SessionName,
		GameMode:        s.GameMode,
		ServerName:      s.ServerName,
		StartTime:       s.StartTime,
		TrackID:         s.TrackID,
		TickRate:        s.TickRate,
		SimTimeScale:    s.SimTimeScale,
		RecorderVersion: s.RecorderVersion,
		Tag:             s.Tag,
	}
}

// TrackToTelemetry converts a GORM model.Track to a telemetry.Track.
func TrackToTelemetry(t model.Track) telemetry.Track {
	return telemetry.Track{
		ID:           t.ID,
		TrackName:    t.TrackName,
		DisplayName:  t.DisplayName,
		Author:       t.Author,
		LengthKM:     t.LengthKM,
		AmbientTempC: t.AmbientTempC,
		TrackTempC:   t.TrackTempC,
		Wet:          t.Wet,
	}
}
