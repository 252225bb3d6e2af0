package parser

import (
	"github.com/midnightgrind/tiresim/pkg/telemetry"
	"github.com/midnightgrind/tiresim/pkg/tire"
)

// WheelUpdate holds the per-tick physics inputs for one corner. The
// simulation layer turns these into full tire state; the parser only
// carries what the game runtime sent.
type WheelUpdate struct {
	VehicleID    uint16
	Position     telemetry.WheelPosition
	CaptureFrame uint
	SlipRatio    float64
	SlipAngle    float64
	LoadN        float64
	SpeedKPH     float64
	Surface      tire.Surface
	Locked       bool
	Braking      bool
}

// DamageUpdate holds a parsed damage event before the worker assigns the
// leak cause from the command that carried it.
type DamageUpdate struct {
	VehicleID    uint16
	Position     telemetry.WheelPosition
	CaptureFrame uint
	Severity     float64
	ImpactSpeed  float64
	ExtraData    map[string]any
}

// TireChange holds a parsed tire change request. Position is only
// meaningful when Scope is ChangeSingle.
type TireChange struct {
	VehicleID    uint16
	Position     telemetry.WheelPosition
	CaptureFrame uint
	Scope        ChangeScope
	Compound     tire.Compound
}

// ChangeScope selects which wheels a tire change applies to.
type ChangeScope uint8

const (
	ChangeAll ChangeScope = iota
	ChangeFront
	ChangeRear
	ChangeSingle
)
