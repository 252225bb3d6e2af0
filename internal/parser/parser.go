package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// parseUintFromFloat parses a string that may be an integer ("32") or float ("32.00") into uint64.
// The game's scripting layer has no integer type, so numbers may arrive serialized as floats.
func parseUintFromFloat(s string) (uint64, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(uint64(f)) {
		return 0, fmt.Errorf("parseUintFromFloat: %q is not a valid uint64", s)
	}
	return uint64(f), nil
}

// SessionContext holds the current session and track state
type SessionContext struct {
	mu      sync.RWMutex
	Session *telemetry.Session
	Track   *telemetry.Track
}

// NewSessionContext creates a new SessionContext with default values
func NewSessionContext() *SessionContext {
	return &SessionContext{
		Session: &telemetry.Session{SessionName: "No session loaded"},
		Track:   &telemetry.Track{TrackName: "No track loaded"},
	}
}

// GetSession returns the current session
func (sc *SessionContext) GetSession() *telemetry.Session {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.Session
}

// GetTrack returns the current track
func (sc *SessionContext) GetTrack() *telemetry.Track {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.Track
}

// SetSession sets the current session and track
func (sc *SessionContext) SetSession(session *telemetry.Session, track *telemetry.Track) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.Session = session
	sc.Track = track
}

// Parser provides pure []string -> typed struct conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger  *slog.Logger
	session atomic.Pointer[telemetry.Session]

	// Static config set at creation time
	recorderVersion string
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger, recorderVersion string) *Parser {
	return &Parser{
		logger:          logger,
		recorderVersion: recorderVersion,
	}
}

// SetSession sets the current session for SessionID lookups
func (p *Parser) SetSession(s *telemetry.Session) {
	p.session.Store(s)
}

func (p *Parser) getSessionID() uint {
	s := p.session.Load()
	if s == nil {
		return 0
	}
	return s.ID
}
