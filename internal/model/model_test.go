package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"RecorderInfo", &RecorderInfo{}, "recorder_infos"},
		{"Track", &Track{}, "tracks"},
		{"Session", &Session{}, "sessions"},
		{"Vehicle", &Vehicle{}, "vehicles"},
		{"WheelState", &WheelState{}, "wheel_states"},
		{"DamageEvent", &DamageEvent{}, "damage_events"},
		{"BlowoutEvent", &BlowoutEvent{}, "blowout_events"},
		{"LapTelemetry", &LapTelemetry{}, "lap_telemetries"},
		{"Performance", &Performance{}, "performances"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModelsCoverAllTables(t *testing.T) {
	assert.Len(t, DatabaseModels, 9)
	assert.Len(t, DatabaseModelsSQLite, len(DatabaseModels))
}
