package session

import (
	"sync"

	"github.com/midnightgrind/tiresim/internal/model"
)

// Context holds the current session and track state
type Context struct {
	mu      sync.RWMutex
	Session *model.Session
	Track   *model.Track
}

// NewContext creates a new Context with default values
func NewContext() *Context {
	return &Context{
		Session: &model.Session{SessionName: "No session loaded"},
		Track:   &model.Track{TrackName: "No track loaded"},
	}
}

// GetSession returns the current session
func (sc *Context) GetSession() *model.Session {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.Session
}

// GetTrack returns the current track
func (sc *Context) GetTrack() *model.Track {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.Track
}

// SetSession sets the current session and track
func (sc *Context) SetSession(session *model.Session, track *model.Track) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.Session = session
	sc.Track = track
}
