package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/midnightgrind/tiresim/internal/database"
	"github.com/midnightgrind/tiresim/internal/model"
	"github.com/midnightgrind/tiresim/internal/model/convert"
	v1 "github.com/midnightgrind/tiresim/internal/storage/memory/export/v1"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

var (
	cliConfigDir = flag.String("config", ".", "directory containing tiresim.cfg.json")
	cliVehicles  = flag.Int("vehicles", 4, "number of cars in the scripted session")
	cliDuration  = flag.Duration("duration", 2*time.Minute, "scripted session length")
	cliTickRate  = flag.Float64("tickrate", 0, "override the configured simulation tick rate")
)

func parseFlags() { flag.Parse() }

func flagConfigDir() string { return *cliConfigDir }

func flagVehicles() int { return *cliVehicles }

func flagDuration() time.Duration { return *cliDuration }

func flagTickRate() float64 { return *cliTickRate }

func flagArgs() []string { return flag.Args() }

// runExport writes recorded sessions from postgres to the same gzipped JSON
// format the memory backend produces, ready for the review frontend.
func runExport(sessionIDs []string) error {
	if len(sessionIDs) == 0 {
		fmt.Println("No session IDs provided.")
		return nil
	}

	if DB == nil {
		db, err := database.GetPostgresDBStandalone()
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		DB = db
	}

	for _, sessionID := range sessionIDs {
		idInt, err := strconv.Atoi(sessionID)
		if err != nil {
			return err
		}
		if err := exportSession(uint(idInt)); err != nil {
			return fmt.Errorf("export of session %d failed: %w", idInt, err)
		}
	}
	return nil
}

func exportSession(sessionID uint) error {
	txStart := time.Now()

	var dbSession model.Session
	if err := DB.Model(&model.Session{}).Where("id = ?", sessionID).First(&dbSession).Error; err != nil {
		return fmt.Errorf("error getting session: %w", err)
	}
	var dbTrack model.Track
	if err := DB.Model(&model.Track{}).Where("id = ?", dbSession.TrackID).First(&dbTrack).Error; err != nil {
		return fmt.Errorf("error getting track: %w", err)
	}

	coreSession := convert.SessionToTelemetry(dbSession)
	coreTrack := convert.TrackToTelemetry(dbTrack)

	// Bulk-fetch vehicles and all related data for this session
	dbVehicles := []model.Vehicle{}
	if err := DB.Model(&model.Vehicle{}).Where("session_id = ?", sessionID).Find(&dbVehicles).Error; err != nil {
		return fmt.Errorf("error getting vehicles: %w", err)
	}

	allWheelStates := []model.WheelState{}
	err := DB.Model(&model.WheelState{}).
		Where("session_id = ?", sessionID).
		Order("capture_frame ASC").
		Find(&allWheelStates).Error
	if err != nil {
		return fmt.Errorf("error getting wheel states: %w", err)
	}
	statesByVehicle := map[uint16][]model.WheelState{}
	for _, s := range allWheelStates {
		statesByVehicle[s.VehicleObjectID] = append(statesByVehicle[s.VehicleObjectID], s)
	}

	vehicles := make(map[uint16]*v1.VehicleRecord, len(dbVehicles))
	for _, dbVehicle := range dbVehicles {
		record := &v1.VehicleRecord{
			Vehicle: convert.VehicleToTelemetry(dbVehicle),
		}
		for _, s := range statesByVehicle[dbVehicle.ObjectID] {
			record.States = append(record.States, convert.WheelStateToTelemetry(s))
		}
		vehicles[dbVehicle.ObjectID] = record
	}

	dbDamage := []model.DamageEvent{}
	err = DB.Model(&model.DamageEvent{}).
		Where("session_id = ?", sessionID).
		Order("capture_frame ASC").
		Find(&dbDamage).Error
	if err != nil {
		return fmt.Errorf("error getting damage events: %w", err)
	}
	damageEvents := make([]telemetry.DamageEvent, 0, len(dbDamage))
	for _, e := range dbDamage {
		damageEvents = append(damageEvents, convert.DamageEventToTelemetry(e))
	}

	dbBlowouts := []model.BlowoutEvent{}
	err = DB.Model(&model.BlowoutEvent{}).
		Where("session_id = ?", sessionID).
		Order("capture_frame ASC").
		Find(&dbBlowouts).Error
	if err != nil {
		return fmt.Errorf("error getting blowout events: %w", err)
	}
	blowoutEvents := make([]telemetry.BlowoutEvent, 0, len(dbBlowouts))
	for _, e := range dbBlowouts {
		blowoutEvents = append(blowoutEvents, convert.BlowoutEventToTelemetry(e))
	}

	dbLaps := []model.LapTelemetry{}
	err = DB.Model(&model.LapTelemetry{}).
		Where("session_id = ?", sessionID).
		Order("lap ASC").
		Find(&dbLaps).Error
	if err != nil {
		return fmt.Errorf("error getting lap telemetry: %w", err)
	}
	laps := make([]telemetry.LapTelemetry, 0, len(dbLaps))
	for _, l := range dbLaps {
		laps = append(laps, convert.LapTelemetryToTelemetry(l))
	}

	export := v1.Build(&v1.SessionData{
		Session:       &coreSession,
		Track:         &coreTrack,
		Vehicles:      vehicles,
		DamageEvents:  damageEvents,
		BlowoutEvents: blowoutEvents,
		LapTelemetry:  laps,
	})

	fmt.Println("Got session data in ", time.Since(txStart))

	fileName := fmt.Sprintf("%s_%s.json.gz", dbSession.SessionName, dbSession.StartTime.Format("20060102_150405"))
	fileName = strings.ReplaceAll(fileName, " ", "_")
	fileName = strings.ReplaceAll(fileName, ":", "_")
	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer func() { _ = f.Close() }()

	gzWriter := gzip.NewWriter(f)
	defer func() { _ = gzWriter.Close() }()
	if err := json.NewEncoder(gzWriter).Encode(export); err != nil {
		return fmt.Errorf("error writing to gzip: %w", err)
	}

	fmt.Println("Wrote session data to ", fileName)
	return nil
}
