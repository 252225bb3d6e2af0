package parser

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/midnightgrind/tiresim/internal/util"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// ParseSession parses session and track data from raw args.
// Returns parsed session + track. NO DB operations, NO registry resets, NO callbacks.
//
// Args: [trackJSON, sessionJSON]
func (p *Parser) ParseSession(data []string) (telemetry.Session, telemetry.Track, error) {
	var session telemetry.Session
	var track telemetry.Track

	if len(data) < 2 {
		return session, track, fmt.Errorf("session start expects 2 args, got %d", len(data))
	}

	// fix received data
	for i, v := range data {
		data[i] = util.FixEscapeQuotes(util.TrimQuotes(v))
	}

	// unmarshal data[0] -> track
	err := json.Unmarshal([]byte(data[0]), &track)
	if err != nil {
		return session, track, fmt.Errorf("error unmarshalling track data: %w", err)
	}

	// unmarshal data[1] -> session
	if err = json.Unmarshal([]byte(data[1]), &session); err != nil {
		return session, track, fmt.Errorf("error unmarshalling session data: %w", err)
	}

	session.StartTime = time.Now()
	session.RecorderVersion = p.recorderVersion
	if session.TickRate <= 0 {
		session.TickRate = 60
	}
	if session.SimTimeScale <= 0 {
		session.SimTimeScale = 1
	}

	p.logger.Debug("Parsed session data",
		"sessionName", session.SessionName,
		"trackName", track.TrackName)

	return session, track, nil
}
