// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/midnightgrind/tiresim/internal/storage/memory/export/v1"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// exportJSON writes the session data to a (optionally gzipped) JSON file.
// Caller must hold b.mu.
func (b *Backend) exportJSON() error {
	if b.session == nil || b.track == nil {
		return fmt.Errorf("no session in progress")
	}

	export := b.buildExport()

	// Build filename
	sessionName := strings.ReplaceAll(b.session.SessionName, " ", "_")
	sessionName = strings.ReplaceAll(sessionName, ":", "_")
	timestamp := b.session.StartTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", sessionName, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", sessionName, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() v1.Export {
	vehicles := make(map[uint16]*v1.VehicleRecord, len(b.vehicles))
	for id, record := range b.vehicles {
		vehicles[id] = &v1.VehicleRecord{
			Vehicle: record.Vehicle,
			States:  record.States,
		}
	}

	return v1.Build(&v1.SessionData{
		Session:       b.session,
		Track:         b.track,
		Vehicles:      vehicles,
		DamageEvents:  b.damageEvents,
		BlowoutEvents: b.blowoutEvents,
		LapTelemetry:  b.lapTelemetry,
	})
}

func (b *Backend) writeJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

// GetExportedFilePath returns the path of the last exported session file.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// GetExportMetadata describes the last recorded session for upload.
func (b *Backend) GetExportMetadata() telemetry.ExportMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()

	meta := telemetry.ExportMetadata{}
	if b.session != nil {
		meta.SessionName = b.session.SessionName
		meta.StartTime = b.session.StartTime
		meta.Tag = b.session.Tag
	}
	if b.track != nil {
		meta.TrackName = b.track.TrackName
	}
	return meta
}
