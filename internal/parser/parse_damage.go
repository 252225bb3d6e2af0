package parser

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/midnightgrind/tiresim/internal/util"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
	"github.com/midnightgrind/tiresim/pkg/tire"
)

// ParseDamageUpdate parses damage event data. The leak cause is not part
// of the args; the worker assigns it from the command that carried the event.
//
// Args: [frameNo, vehicleId, position, severity, impactSpeed, extraDataJSON]
func (p *Parser) ParseDamageUpdate(data []string) (DamageUpdate, error) {
	var update DamageUpdate

	if len(data) < 6 {
		return update, fmt.Errorf("damage update expects 6 args, got %d", len(data))
	}

	// fix received data
	for i, v := range data {
		data[i] = util.FixEscapeQuotes(util.TrimQuotes(v))
	}

	// get frame
	capframe, err := strconv.ParseFloat(data[0], 64)
	if err != nil {
		return update, fmt.Errorf("error converting capture frame to int: %w", err)
	}
	update.CaptureFrame = uint(capframe)

	vehicleID, err := parseUintFromFloat(data[1])
	if err != nil {
		return update, fmt.Errorf("error converting vehicleId to uint: %w", err)
	}
	update.VehicleID = uint16(vehicleID)

	pos, ok := telemetry.ParsePosition(data[2])
	if !ok {
		return update, fmt.Errorf("unknown wheel position %q", data[2])
	}
	update.Position = pos

	severity, err := strconv.ParseFloat(data[3], 64)
	if err != nil {
		return update, fmt.Errorf("error converting severity to float: %w", err)
	}
	update.Severity = severity

	impactSpeed, err := strconv.ParseFloat(data[4], 64)
	if err != nil {
		return update, fmt.Errorf("error converting impactSpeed to float: %w", err)
	}
	update.ImpactSpeed = impactSpeed

	// extra data is optional JSON
	if data[5] != "" && data[5] != "{}" {
		extra := map[string]any{}
		if err := json.Unmarshal([]byte(data[5]), &extra); err != nil {
			p.logger.Error("Error unmarshalling damage extra data", "data", data[5], "error", err)
		} else {
			update.ExtraData = extra
		}
	}

	return update, nil
}

// ParseTireChange parses a tire change request.
//
// Args: [frameNo, vehicleId, scope, position, compound]
// scope is one of: all, front, rear, single. position is ignored unless
// scope is single.
func (p *Parser) ParseTireChange(data []string) (TireChange, error) {
	var change TireChange

	if len(data) < 5 {
		return change, fmt.Errorf("tire change expects 5 args, got %d", len(data))
	}

	// fix received data
	for i, v := range data {
		data[i] = util.FixEscapeQuotes(util.TrimQuotes(v))
	}

	// get frame
	capframe, err := strconv.ParseFloat(data[0], 64)
	if err != nil {
		return change, fmt.Errorf("error converting capture frame to int: %w", err)
	}
	change.CaptureFrame = uint(capframe)

	vehicleID, err := parseUintFromFloat(data[1])
	if err != nil {
		return change, fmt.Errorf("error converting vehicleId to uint: %w", err)
	}
	change.VehicleID = uint16(vehicleID)

	switch data[2] {
	case "all":
		change.Scope = ChangeAll
	case "front":
		change.Scope = ChangeFront
	case "rear":
		change.Scope = ChangeRear
	case "single":
		change.Scope = ChangeSingle
		pos, ok := telemetry.ParsePosition(data[3])
		if !ok {
			return change, fmt.Errorf("unknown wheel position %q", data[3])
		}
		change.Position = pos
	default:
		return change, fmt.Errorf("unknown tire change scope %q", data[2])
	}

	compound, ok := tire.ParseCompound(data[4])
	if !ok {
		return change, fmt.Errorf("unknown compound %q", data[4])
	}
	change.Compound = compound

	return change, nil
}
