package streaming

import (
	"encoding/json"

	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// Message type constants matching the live telemetry streaming protocol.
const (
	TypeStartSession = "start_session"
	TypeEndSession   = "end_session"
	TypeAddVehicle   = "add_vehicle"
	TypeWheelState   = "wheel_state"
	TypeDamageEvent  = "damage_event"
	TypeBlowoutEvent = "blowout_event"
	TypeLapTelemetry = "lap_telemetry"
	TypePerformance  = "performance"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartSessionPayload carries session and track data.
type StartSessionPayload struct {
	Session *telemetry.Session `json:"session"`
	Track   *telemetry.Track   `json:"track"`
}
