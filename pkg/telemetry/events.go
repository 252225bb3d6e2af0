// pkg/telemetry/events.go
package telemetry

import "time"

// DamageEvent represents tire damage applied to one corner.
// VehicleID references the Vehicle's ID.
type DamageEvent struct {
	ID           uint
	VehicleID    uint16
	Position     WheelPosition
	Time         time.Time
	CaptureFrame uint
	Cause        string
	Severity     float32
	ImpactSpeed  float32
	ExtraData    map[string]any
}

// BlowoutEvent represents a catastrophic tire failure.
type BlowoutEvent struct {
	ID           uint
	VehicleID    uint16
	Position     WheelPosition
	Time         time.Time
	CaptureFrame uint
	SpeedKPH     float32
	TemperatureC float32
	PressurePSI  float32
}

// LapTelemetry aggregates one vehicle's tire data over one lap.
type LapTelemetry struct {
	ID            uint
	VehicleID     uint16
	Lap           int
	Time          time.Time
	PeakTempFL    float32
	PeakTempFR    float32
	PeakTempRL    float32
	PeakTempRR    float32
	Lockups       int
	Wheelspin     int
	SlipDistanceM float32
	AverageWear   float32
	AverageGrip   float32
}

// PerformanceSample records recorder health at a point in time: queue
// depths and the duration of the last storage write cycle.
type PerformanceSample struct {
	Time                time.Time
	WheelStateQueue     uint16
	DamageEventQueue    uint16
	LapTelemetryQueue   uint16
	LastWriteDurationMs float32
}

// ExportMetadata describes an exported session recording for upload.
type ExportMetadata struct {
	SessionName string
	TrackName   string
	StartTime   time.Time
	Tag         string
}
