// pkg/telemetry/vehicle.go
package telemetry

import "time"

// WheelPosition identifies one corner of a vehicle.
type WheelPosition uint8

const (
	FrontLeft WheelPosition = iota
	FrontRight
	RearLeft
	RearRight
)

// String returns the corner abbreviation used in telemetry displays.
func (p WheelPosition) String() string {
	switch p {
	case FrontLeft:
		return "FL"
	case FrontRight:
		return "FR"
	case RearLeft:
		return "RL"
	case RearRight:
		return "RR"
	default:
		return "??"
	}
}

// Positions lists all four corners in registration order.
var Positions = [4]WheelPosition{FrontLeft, FrontRight, RearLeft, RearRight}

// ParsePosition converts a corner abbreviation back to a WheelPosition.
func ParsePosition(s string) (WheelPosition, bool) {
	switch s {
	case "FL":
		return FrontLeft, true
	case "FR":
		return FrontRight, true
	case "RL":
		return RearLeft, true
	case "RR":
		return RearRight, true
	default:
		return FrontLeft, false
	}
}

// Vehicle represents a registered vehicle.
// ID is the game's identifier for this entity.
type Vehicle struct {
	ID          uint16 // game identifier
	JoinTime    time.Time
	JoinFrame   uint
	ClassName   string
	DisplayName string
	DriverName  string
	Compound    string
}

// WheelState is a per-corner tire snapshot at a point in time.
// VehicleID references the Vehicle's ID.
type WheelState struct {
	VehicleID    uint16
	Position     WheelPosition
	Time         time.Time
	CaptureFrame uint

	PressurePSI    float32
	HotPressurePSI float32
	TemperatureC   float32
	SurfaceTempC   float32
	CoreTempC      float32
	WearLevel      float32
	Condition      string

	GripMultiplier              float32
	WearMultiplier              float32
	HeatMultiplier              float32
	ContactPatchMultiplier      float32
	RollingResistanceMultiplier float32
	FuelEconomyMultiplier       float32

	SlipRatio float32
	SlipAngle float32
	LoadN     float32
	Surface   string

	HasLeak        bool
	IsFlat         bool
	IsBlownOut     bool
	NeedsAttention bool
	IsCritical     bool
}
