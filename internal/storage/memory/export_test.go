package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnightgrind/tiresim/internal/config"
	v1 "github.com/midnightgrind/tiresim/internal/storage/memory/export/v1"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

func recordTestData(t *testing.T, b *Backend) {
	t.Helper()
	require.NoError(t, b.AddVehicle(&telemetry.Vehicle{
		ID:          1,
		DisplayName: "Kaido RX",
		ClassName:   "mg_coupe_rx",
		Compound:    "Medium",
		JoinFrame:   10,
	}))
	require.NoError(t, b.RecordWheelState(&telemetry.WheelState{
		VehicleID:    1,
		Position:     telemetry.FrontLeft,
		CaptureFrame: 60,
		PressurePSI:  31.2,
		TemperatureC: 78.5,
		WearLevel:    0.97,
		Condition:    "Optimal",
		Surface:      "Asphalt",
	}))
	require.NoError(t, b.RecordDamageEvent(&telemetry.DamageEvent{
		VehicleID:    1,
		Position:     telemetry.RearRight,
		CaptureFrame: 120,
		Cause:        "SpikeStripPuncture",
		Severity:     1.0,
		ImpactSpeed:  95,
	}))
	require.NoError(t, b.RecordLapTelemetry(&telemetry.LapTelemetry{
		VehicleID: 1,
		Lap:       1,
		Lockups:   2,
	}))
}

func TestEndSession_ExportsJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: false})

	start := time.Date(2026, 4, 12, 23, 30, 0, 0, time.UTC)
	require.NoError(t, b.StartSession(
		&telemetry.Session{SessionName: "Kanjo Midnight Run", StartTime: start, TickRate: 60},
		&telemetry.Track{TrackName: "kanjo_loop", DisplayName: "Kanjo Loop"},
	))
	recordTestData(t, b)

	require.NoError(t, b.EndSession())

	wantPath := filepath.Join(dir, "Kanjo_Midnight_Run_20260412_233000.json")
	assert.Equal(t, wantPath, b.GetExportedFilePath())

	f, err := os.Open(wantPath)
	require.NoError(t, err)
	defer f.Close()

	var export v1.Export
	require.NoError(t, json.NewDecoder(f).Decode(&export))

	assert.Equal(t, "Kanjo Midnight Run", export.SessionName)
	assert.Equal(t, "kanjo_loop", export.TrackName)
	assert.Equal(t, uint(120), export.EndFrame)
	require.Len(t, export.Vehicles, 2, "vehicles array sized to max ID + 1")
	assert.Equal(t, "Kaido RX", export.Vehicles[1].Name)
	require.Len(t, export.Vehicles[1].WheelStates, 1)
	require.Len(t, export.Events, 1)
	require.Len(t, export.Laps, 1)
}

func TestEndSession_ExportsGzip(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})

	start := time.Date(2026, 4, 12, 23, 30, 0, 0, time.UTC)
	require.NoError(t, b.StartSession(
		&telemetry.Session{SessionName: "Touge: Night", StartTime: start},
		&telemetry.Track{TrackName: "mount_akaishi"},
	))
	recordTestData(t, b)

	require.NoError(t, b.EndSession())

	// Colons and spaces are sanitized out of the filename
	wantPath := filepath.Join(dir, "Touge__Night_20260412_233000.json.gz")
	assert.Equal(t, wantPath, b.GetExportedFilePath())

	f, err := os.Open(wantPath)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var export v1.Export
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	assert.Equal(t, "Touge: Night", export.SessionName)
	assert.Equal(t, "mount_akaishi", export.TrackName)
}

func TestExport_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "recordings")
	b := New(config.MemoryConfig{OutputDir: dir})

	require.NoError(t, b.StartSession(
		&telemetry.Session{SessionName: "S", StartTime: time.Now()},
		&telemetry.Track{TrackName: "t"},
	))
	require.NoError(t, b.EndSession())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
