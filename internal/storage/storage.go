// internal/storage/storage.go
package storage

import "github.com/midnightgrind/tiresim/pkg/telemetry"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(session *telemetry.Session, track *telemetry.Track) error
	EndSession() error

	// Entity registration (assigns ID to the passed pointer)
	AddVehicle(v *telemetry.Vehicle) error

	// State recording
	RecordWheelState(w *telemetry.WheelState) error

	// Event recording
	RecordDamageEvent(e *telemetry.DamageEvent) error
	RecordBlowoutEvent(e *telemetry.BlowoutEvent) error
	RecordLapTelemetry(l *telemetry.LapTelemetry) error
	RecordPerformance(p *telemetry.PerformanceSample) error
}

// Uploadable is an optional interface for storage backends that produce
// files suitable for upload to the telemetry review frontend.
type Uploadable interface {
	GetExportedFilePath() string
	GetExportMetadata() telemetry.ExportMetadata
}
