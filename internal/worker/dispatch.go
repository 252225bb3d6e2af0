package worker

import (
	"fmt"
	"strconv"
	"time"

	"github.com/midnightgrind/tiresim/internal/dispatcher"
	"github.com/midnightgrind/tiresim/internal/parser"
	"github.com/midnightgrind/tiresim/internal/simulation"
	"github.com/midnightgrind/tiresim/internal/util"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
	"github.com/midnightgrind/tiresim/pkg/tire"
)

// RegisterHandlers registers all event handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Session lifecycle - sync (everything else depends on it)
	d.Register(":SESSION:START:", m.handleSessionStart, dispatcher.Logged())
	d.Register(":SESSION:END:", m.handleSessionEnd, dispatcher.Logged())

	// Vehicle registration - sync (need to register before wheel states arrive)
	d.Register(":VEHICLE:REGISTER:", m.handleVehicleRegister, dispatcher.Logged())
	d.Register(":VEHICLE:UNREGISTER:", m.handleVehicleUnregister, dispatcher.Logged())

	// High-volume per-tick wheel updates - buffered
	d.Register(":WHEEL:STATE:", m.handleWheelState, dispatcher.Buffered(10000), dispatcher.Logged())

	// Damage events - buffered
	d.Register(":DAMAGE:PUNCTURE:", m.damageHandler(tire.LossSlowLeak), dispatcher.Buffered(1000), dispatcher.Logged())
	d.Register(":DAMAGE:SPIKESTRIP:", m.damageHandler(tire.LossSpikeStripPuncture), dispatcher.Buffered(1000), dispatcher.Logged())
	d.Register(":DAMAGE:COLLISION:", m.damageHandler(tire.LossModerateLeakDamage), dispatcher.Buffered(1000), dispatcher.Logged())
	d.Register(":DAMAGE:VALVE:", m.damageHandler(tire.LossValveStemDamage), dispatcher.Buffered(1000), dispatcher.Logged())
	d.Register(":DAMAGE:BEAD:", m.damageHandler(tire.LossBeadSeparation), dispatcher.Buffered(1000), dispatcher.Logged())

	// Pit actions - sync (the solver reads fresh tire state next tick)
	d.Register(":TIRE:CHANGE:", m.handleTireChange, dispatcher.Logged())
	d.Register(":TIRE:REPAIR:", m.handleTireRepair, dispatcher.Logged())

	// Lap telemetry - buffered
	d.Register(":TELEMETRY:", m.handleLapTelemetry, dispatcher.Buffered(1000), dispatcher.Logged())
}

func (m *Manager) handleSessionStart(e dispatcher.Event) (any, error) {
	session, track, err := m.deps.Parser.ParseSession(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	// session boundaries reset all per-session state
	m.deps.Registry.Reset()
	m.deps.VehicleCache.Reset()
	m.deps.Registry.SetAmbientTemperature(float64(track.AmbientTempC))
	m.deps.Registry.SetTrackTemperature(float64(track.TrackTempC))

	if m.hasBackend() {
		if err := m.backend.StartSession(&session, &track); err != nil {
			return nil, fmt.Errorf("failed to start session: %w", err)
		}
	}

	m.deps.Parser.SetSession(&session)
	return nil, nil
}

func (m *Manager) handleSessionEnd(e dispatcher.Event) (any, error) {
	if m.hasBackend() {
		if err := m.backend.EndSession(); err != nil {
			return nil, fmt.Errorf("failed to end session: %w", err)
		}
	}
	m.deps.Registry.Reset()
	m.deps.VehicleCache.Reset()
	return nil, nil
}

func (m *Manager) handleVehicleRegister(e dispatcher.Event) (any, error) {
	obj, err := m.deps.Parser.ParseVehicle(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to register vehicle: %w", err)
	}

	// Always cache for wheel state handler lookups
	m.deps.VehicleCache.Add(obj)

	compound, ok := tire.ParseCompound(obj.Compound)
	if !ok {
		m.deps.LogManager.Logger().Warn("Unknown compound on vehicle registration, using default",
			"vehicleId", obj.ID, "compound", obj.Compound)
	}
	m.deps.Registry.Register(obj.ID, compound)

	if m.hasBackend() {
		if err := m.backend.AddVehicle(&obj); err != nil {
			return nil, fmt.Errorf("failed to register vehicle: %w", err)
		}
	}
	return nil, nil
}

func (m *Manager) handleVehicleUnregister(e dispatcher.Event) (any, error) {
	vehicleID, err := parseVehicleID(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to unregister vehicle: %w", err)
	}
	m.deps.Registry.Unregister(vehicleID)
	return nil, nil
}

func (m *Manager) handleWheelState(e dispatcher.Event) (any, error) {
	obj, err := m.deps.Parser.ParseWheelUpdate(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to log wheel state: %w", err)
	}

	// Validate vehicle exists in cache
	if _, ok := m.deps.VehicleCache.Get(obj.VehicleID); !ok {
		return nil, ErrTooEarlyForStateAssociation
	}

	m.deps.Registry.SetInputs(obj.VehicleID, obj.Position, simulation.WheelInputs{
		SlipRatio: obj.SlipRatio,
		SlipAngle: obj.SlipAngle,
		LoadN:     obj.LoadN,
		SpeedKPH:  obj.SpeedKPH,
		Surface:   obj.Surface,
		Locked:    obj.Locked,
		Braking:   obj.Braking,
	})

	if m.hasBackend() {
		state, ok := m.deps.Registry.Snapshot(obj.VehicleID, obj.Position, obj.CaptureFrame)
		if !ok {
			return nil, ErrTooEarlyForStateAssociation
		}
		if err := m.backend.RecordWheelState(state); err != nil {
			return nil, fmt.Errorf("failed to log wheel state: %w", err)
		}
	}
	return nil, nil
}

// damageHandler builds the handler for one damage command. The leak cause
// is carried by the command itself, not the args.
func (m *Manager) damageHandler(cause tire.LossCause) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		obj, err := m.deps.Parser.ParseDamageUpdate(e.Args)
		if err != nil {
			return nil, fmt.Errorf("failed to log damage event: %w", err)
		}

		if !m.deps.Registry.ApplyDamage(obj.VehicleID, obj.Position, cause) {
			return nil, ErrTooEarlyForStateAssociation
		}

		if m.hasBackend() {
			ev := telemetry.DamageEvent{
				VehicleID:    obj.VehicleID,
				Position:     obj.Position,
				Time:         time.Now(),
				CaptureFrame: obj.CaptureFrame,
				Cause:        cause.String(),
				Severity:     float32(obj.Severity),
				ImpactSpeed:  float32(obj.ImpactSpeed),
				ExtraData:    obj.ExtraData,
			}
			if err := m.backend.RecordDamageEvent(&ev); err != nil {
				return nil, fmt.Errorf("failed to log damage event: %w", err)
			}
		}
		return nil, nil
	}
}

func (m *Manager) handleTireChange(e dispatcher.Event) (any, error) {
	obj, err := m.deps.Parser.ParseTireChange(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to change tires: %w", err)
	}

	var ok bool
	switch obj.Scope {
	case parser.ChangeAll:
		ok = m.deps.Registry.ChangeTires(obj.VehicleID, obj.Compound)
	case parser.ChangeFront:
		ok = m.deps.Registry.ChangeFrontTires(obj.VehicleID, obj.Compound)
	case parser.ChangeRear:
		ok = m.deps.Registry.ChangeRearTires(obj.VehicleID, obj.Compound)
	case parser.ChangeSingle:
		ok = m.deps.Registry.ChangeSingleTire(obj.VehicleID, obj.Position, obj.Compound)
	}
	if !ok {
		return nil, ErrTooEarlyForStateAssociation
	}
	return nil, nil
}

func (m *Manager) handleTireRepair(e dispatcher.Event) (any, error) {
	if len(e.Args) < 3 {
		return nil, fmt.Errorf("tire repair expects 3 args, got %d", len(e.Args))
	}

	vehicleID, err := parseVehicleID(e.Args[1:])
	if err != nil {
		return nil, fmt.Errorf("failed to repair tire: %w", err)
	}

	pos, ok := telemetry.ParsePosition(util.TrimQuotes(e.Args[2]))
	if !ok {
		return nil, fmt.Errorf("failed to repair tire: unknown wheel position %q", e.Args[2])
	}

	if !m.deps.Registry.PunctureRepair(vehicleID, pos) {
		return nil, ErrTooEarlyForStateAssociation
	}
	return nil, nil
}

// handleLapTelemetry records the per-lap aggregates for one vehicle and
// resets them for the next lap.
//
// Args: [frameNo, vehicleId, lap]
func (m *Manager) handleLapTelemetry(e dispatcher.Event) (any, error) {
	if len(e.Args) < 3 {
		return nil, fmt.Errorf("lap telemetry expects 3 args, got %d", len(e.Args))
	}

	vehicleID, err := parseVehicleID(e.Args[1:])
	if err != nil {
		return nil, fmt.Errorf("failed to log lap telemetry: %w", err)
	}

	lap, err := strconv.ParseFloat(util.TrimQuotes(e.Args[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to log lap telemetry: %w", err)
	}

	lt, ok := m.deps.Registry.LapTelemetry(vehicleID, int(lap))
	if !ok {
		return nil, ErrTooEarlyForStateAssociation
	}

	if m.hasBackend() {
		if err := m.backend.RecordLapTelemetry(lt); err != nil {
			return nil, fmt.Errorf("failed to log lap telemetry: %w", err)
		}
	}
	return nil, nil
}

// parseVehicleID reads a vehicle id from the first arg. The runtime sends
// ids as floats.
func parseVehicleID(args []string) (uint16, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing vehicle id")
	}
	f, err := strconv.ParseFloat(util.TrimQuotes(args[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("error converting vehicleId to uint: %w", err)
	}
	return uint16(f), nil
}

func blowoutEvent(b simulation.BlowoutNotice, frame uint) telemetry.BlowoutEvent {
	return telemetry.BlowoutEvent{
		VehicleID:    b.VehicleID,
		Position:     b.Position,
		Time:         time.Now(),
		CaptureFrame: frame,
		SpeedKPH:     float32(b.SpeedKPH),
		TemperatureC: float32(b.TemperatureC),
		PressurePSI:  float32(b.PressurePSI),
	}
}

func debrisPunctureEvent(p simulation.PunctureNotice, frame uint) telemetry.DamageEvent {
	return telemetry.DamageEvent{
		VehicleID:    p.VehicleID,
		Position:     p.Position,
		Time:         time.Now(),
		CaptureFrame: frame,
		Cause:        tire.LossSlowLeak.String(),
	}
}
