package parser

import (
	"fmt"
	"strconv"

	"github.com/midnightgrind/tiresim/internal/util"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
	"github.com/midnightgrind/tiresim/pkg/tire"
)

// ParseWheelUpdate parses per-tick wheel physics data into a WheelUpdate.
// Sets VehicleID directly from the parsed id (worker validates against the registry).
//
// Args: [vehicleId, position, frameNo, "[slipRatio,slipAngle,loadN]", speedKPH, surface, locked, braking]
func (p *Parser) ParseWheelUpdate(data []string) (WheelUpdate, error) {
	var update WheelUpdate

	if len(data) < 8 {
		return update, fmt.Errorf("wheel update expects 8 args, got %d", len(data))
	}

	// fix received data
	for i, v := range data {
		data[i] = util.FixEscapeQuotes(util.TrimQuotes(v))
	}

	vehicleID, err := parseUintFromFloat(data[0])
	if err != nil {
		return update, fmt.Errorf("error converting vehicleId to uint: %w", err)
	}
	update.VehicleID = uint16(vehicleID)

	pos, ok := telemetry.ParsePosition(data[1])
	if !ok {
		return update, fmt.Errorf("unknown wheel position %q", data[1])
	}
	update.Position = pos

	// get frame
	capframe, err := strconv.ParseFloat(data[2], 64)
	if err != nil {
		return update, fmt.Errorf("error converting capture frame to int: %w", err)
	}
	update.CaptureFrame = uint(capframe)

	// slip array: [slipRatio, slipAngle, loadN]
	slip, err := util.ParseBracketedFloats(data[3])
	if err != nil {
		return update, fmt.Errorf("error parsing slip array: %w", err)
	}
	if len(slip) != 3 {
		return update, fmt.Errorf("slip array expects 3 elements, got %d", len(slip))
	}
	update.SlipRatio = slip[0]
	update.SlipAngle = slip[1]
	update.LoadN = slip[2]

	speed, err := strconv.ParseFloat(data[4], 64)
	if err != nil {
		return update, fmt.Errorf("error converting speedKPH to float: %w", err)
	}
	update.SpeedKPH = speed

	surface, ok := tire.ParseSurface(data[5])
	if !ok {
		p.logger.Debug("Unknown surface, defaulting to asphalt", "surface", data[5])
	}
	update.Surface = surface

	locked, err := strconv.ParseBool(data[6])
	if err != nil {
		return update, fmt.Errorf("error converting locked to bool: %w", err)
	}
	update.Locked = locked

	braking, err := strconv.ParseBool(data[7])
	if err != nil {
		return update, fmt.Errorf("error converting braking to bool: %w", err)
	}
	update.Braking = braking

	return update, nil
}
