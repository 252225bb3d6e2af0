package parser

import (
	"fmt"
	"strconv"
	"time"

	"github.com/midnightgrind/tiresim/internal/util"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// ParseVehicle parses vehicle registration data and returns a Vehicle record.
//
// Args: [frameNo, vehicleId, className, displayName, driverName, compound]
func (p *Parser) ParseVehicle(data []string) (telemetry.Vehicle, error) {
	var vehicle telemetry.Vehicle

	if len(data) < 6 {
		return vehicle, fmt.Errorf("vehicle registration expects 6 args, got %d", len(data))
	}

	// fix received data
	for i, v := range data {
		data[i] = util.FixEscapeQuotes(util.TrimQuotes(v))
	}

	// get frame
	capframe, err := strconv.ParseFloat(data[0], 64)
	if err != nil {
		return vehicle, fmt.Errorf("error converting capture frame to int: %w", err)
	}

	vehicle.JoinTime = time.Now()
	vehicle.JoinFrame = uint(capframe)

	vehicleID, err := parseUintFromFloat(data[1])
	if err != nil {
		return vehicle, fmt.Errorf("error converting vehicleId to uint: %w", err)
	}
	vehicle.ID = uint16(vehicleID)
	vehicle.ClassName = data[2]
	vehicle.DisplayName = data[3]
	vehicle.DriverName = data[4]
	vehicle.Compound = data[5]

	return vehicle, nil
}
