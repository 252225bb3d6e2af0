package v1

import (
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// SessionData contains all the data needed to build an export
type SessionData struct {
	Session  *telemetry.Session
	Track    *telemetry.Track
	Vehicles map[uint16]*VehicleRecord

	DamageEvents  []telemetry.DamageEvent
	BlowoutEvents []telemetry.BlowoutEvent
	LapTelemetry  []telemetry.LapTelemetry
}

// VehicleRecord groups a vehicle with all its time-series data
type VehicleRecord struct {
	Vehicle telemetry.Vehicle
	States  []telemetry.WheelState
}

// Build creates an Export from the session data
func Build(data *SessionData) Export {
	export := Export{
		RecorderVersion: data.Session.RecorderVersion,
		SessionName:     data.Session.SessionName,
		GameMode:        data.Session.GameMode,
		TrackName:       data.Track.TrackName,
		TrackDisplay:    data.Track.DisplayName,
		AmbientTempC:    data.Track.AmbientTempC,
		TrackTempC:      data.Track.TrackTempC,
		Wet:             boolToInt(data.Track.Wet),
		TickRate:        data.Session.TickRate,
		Tags:            data.Session.Tag,
		Vehicles:        make([]Vehicle, 0),
		Events:          make([][]any, 0),
		Laps:            make([][]any, 0),
	}

	var maxFrame uint = 0

	// Find max vehicle ID to size the vehicles array correctly.
	// The JS frontend uses vehicles[id] to look up vehicles, so array index
	// must equal vehicle ID.
	var maxVehicleID uint16 = 0
	for _, record := range data.Vehicles {
		if record.Vehicle.ID > maxVehicleID {
			maxVehicleID = record.Vehicle.ID
		}
	}
	if len(data.Vehicles) > 0 {
		export.Vehicles = make([]Vehicle, maxVehicleID+1)
	}

	// Convert vehicles - place at index matching their ID
	for _, record := range data.Vehicles {
		vehicle := Vehicle{
			ID:            record.Vehicle.ID,
			Name:          record.Vehicle.DisplayName,
			Class:         record.Vehicle.ClassName,
			Driver:        record.Vehicle.DriverName,
			Compound:      record.Vehicle.Compound,
			StartFrameNum: record.Vehicle.JoinFrame,
			WheelStates:   make([][]any, 0, len(record.States)),
		}

		for _, state := range record.States {
			// Format: [frameNum, corner, pressure, hotPressure, tempC,
			// surfaceTempC, coreTempC, wear, condition, grip, slipRatio,
			// slipAngle, surface, [hasLeak, isFlat, isBlownOut]]
			row := []any{
				state.CaptureFrame,
				state.Position.String(),
				state.PressurePSI,
				state.HotPressurePSI,
				state.TemperatureC,
				state.SurfaceTempC,
				state.CoreTempC,
				state.WearLevel,
				state.Condition,
				state.GripMultiplier,
				state.SlipRatio,
				state.SlipAngle,
				state.Surface,
				[]int{boolToInt(state.HasLeak), boolToInt(state.IsFlat), boolToInt(state.IsBlownOut)},
			}
			vehicle.WheelStates = append(vehicle.WheelStates, row)
			if state.CaptureFrame > maxFrame {
				maxFrame = state.CaptureFrame
			}
		}

		export.Vehicles[record.Vehicle.ID] = vehicle
	}

	// Convert damage events
	// Format: [frameNum, "damage", vehicleId, corner, cause, severity, impactSpeed]
	for _, evt := range data.DamageEvents {
		export.Events = append(export.Events, []any{
			evt.CaptureFrame,
			"damage",
			evt.VehicleID,
			evt.Position.String(),
			evt.Cause,
			evt.Severity,
			evt.ImpactSpeed,
		})
		if evt.CaptureFrame > maxFrame {
			maxFrame = evt.CaptureFrame
		}
	}

	// Convert blowout events
	// Format: [frameNum, "blowout", vehicleId, corner, speedKph, tempC, pressurePsi]
	for _, evt := range data.BlowoutEvents {
		export.Events = append(export.Events, []any{
			evt.CaptureFrame,
			"blowout",
			evt.VehicleID,
			evt.Position.String(),
			evt.SpeedKPH,
			evt.TemperatureC,
			evt.PressurePSI,
		})
		if evt.CaptureFrame > maxFrame {
			maxFrame = evt.CaptureFrame
		}
	}

	export.EndFrame = maxFrame

	// Convert lap telemetry
	// Format: [vehicleId, lap, [peakFL, peakFR, peakRL, peakRR], lockups,
	// wheelspin, slipDistanceM, avgWear, avgGrip]
	for _, lap := range data.LapTelemetry {
		export.Laps = append(export.Laps, []any{
			lap.VehicleID,
			lap.Lap,
			[]float32{lap.PeakTempFL, lap.PeakTempFR, lap.PeakTempRL, lap.PeakTempRR},
			lap.Lockups,
			lap.Wheelspin,
			lap.SlipDistanceM,
			lap.AverageWear,
			lap.AverageGrip,
		})
	}

	return export
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
