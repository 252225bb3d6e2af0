// pkg/telemetry/session.go
package telemetry

import "time"

// Track represents the circuit or route a session runs on.
type Track struct {
	ID           uint
	TrackName    string
	DisplayName  string
	Author       string
	LengthKM     float32
	AmbientTempC float32
	TrackTempC   float32
	Wet          bool
}

// Session represents one recorded tire telemetry session: a race, a time
// attack run, or a free-roam stint.
type Session struct {
	ID              uint
	SessionName     string
	GameMode        string
	ServerName      string
	StartTime       time.Time
	TrackID         uint
	TickRate        float32
	SimTimeScale    float32
	RecorderVersion string
	Tag             string
}
