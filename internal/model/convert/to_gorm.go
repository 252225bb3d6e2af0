// Package convert provides functions to convert between GORM models and telemetry records
package convert

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/midnightgrind/tiresim/internal/model"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// extraDataToJSON converts an event's extra data map to datatypes.JSON for DB storage.
func extraDataToJSON(extra map[string]any) datatypes.JSON {
	if len(extra) == 0 {
		return datatypes.JSON("{}")
	}
	data, _ := json.Marshal(extra)
	return datatypes.JSON(data)
}

// TelemetryToVehicle converts a telemetry.Vehicle to a GORM model.Vehicle.
// telemetry.Vehicle.ID maps to GORM Vehicle.ObjectID.
func TelemetryToVehicle(v telemetry.Vehicle) model.Vehicle {
	return model.Vehicle{
		ObjectID:    v.ID,
		JoinTime:    v.JoinTime,
		JoinFrame:   v.JoinFrame,
		ClassName:   v.ClassName,
		DisplayName: v.DisplayName,
		DriverName:  v.DriverName,
		Compound:    v.Compound,
	}
}

// TelemetryToWheelState converts a telemetry.WheelState to a GORM model.WheelState.
func TelemetryToWheelState(s telemetry.WheelState) model.WheelState {
	return model.WheelState{
		Time:            s.Time,
		CaptureFrame:    s.CaptureFrame,
		VehicleObjectID: s.VehicleID,
		Position:        s.Position.String(),

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

// TelemetryToDamageEvent converts a telemetry.DamageEvent to a GORM model.DamageEvent.
func TelemetryToDamageEvent(e telemetry.DamageEvent) model.DamageEvent {
	return model.DamageEvent{
		Time:            e.Time,
		CaptureFrame:    e.CaptureFrame,
		VehicleObjectID: e.VehicleID,
		Position:        e.Position.String(),
		Cause:           e.Cause,
		Severity:        e.Severity,
		ImpactSpeed:     e.ImpactSpeed,
		ExtraData:       extraDataToJSON(e.ExtraData),
	}
}

// TelemetryToBlowoutEvent converts a telemetry.BlowoutEvent to a GORM model.BlowoutEvent.
func TelemetryToBlowoutEvent(e telemetry.BlowoutEvent) model.BlowoutEvent {
	return model.BlowoutEvent{
		Time:            e.Time,
		CaptureFrame:    e.CaptureFrame,
		VehicleObjectID: e.VehicleID,
		Position:        e.Position.String(),
		SpeedKPH:        e.SpeedKPH,
		TemperatureC:    e.TemperatureC,
		PressurePSI:     e.PressurePSI,
	}
}

// TelemetryToLapTelemetry converts a telemetry.LapTelemetry to a GORM model.LapTelemetry.
func TelemetryToLapTelemetry(l telemetry.LapTelemetry) model.LapTelemetry {
	return model.LapTelemetry{
		Time:            l.Time,
		VehicleObjectID: l.VehicleID,
		Lap:             l.Lap,
		PeakTempFL:      l.PeakTempFL,
		PeakTempFR:      l.PeakTempFR,
		PeakTempRL:      l.PeakTempRL,
		PeakTempRR:      l.PeakTempRR,
		Lockups:         l.Lockups,
		Wheelspin:       l.Wheelspin,
		SlipDistanceM:   l.SlipDistanceM,
		AverageWear:     l.AverageWear,
		AverageGrip:     l.AverageGrip,
	}
}

// TelemetryToTrack converts a telemetry.Track to a GORM model.Track.
func TelemetryToTrack(t telemetry.Track) model.Track {
	return model.Track{
		TrackName:    t.TrackName,
		DisplayName:  t.DisplayName,
		Author:       t.Author,
		LengthKM:     t.LengthKM,
		AmbientTempC: t.AmbientTempC,
		TrackTempC:   t.TrackTempC,
		Wet:          t.Wet,
	}
}

// TelemetryToSession converts a telemetry.Session to a GORM model.Session.
func TelemetryToSession(s telemetry.Session) model.Session {
	return model.Session{
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

// TelemetryToPerformance converts a telemetry.PerformanceSample to a GORM model.Performance.
func TelemetryToPerformance(p telemetry.PerformanceSample) model.Performance {
	return model.Performance{
		Time: p.Time,
		WriteQueueLengths: model.WriteQueueLengths{
			WheelStates:  p.WheelStateQueue,
			DamageEvents: p.DamageEventQueue,
			LapTelemetry: p.LapTelemetryQueue,
		},
		LastWriteDurationMs: p.LastWriteDurationMs,
	}
}
