// Package v1 contains the v1 export format for recorded tire sessions.
// This format is what the telemetry review frontend consumes.
package v1

// Export is the root JSON structure for the v1 format
type Export struct {
	RecorderVersion string    `json:"recorderVersion"`
	SessionName     string    `json:"sessionName"`
	GameMode        string    `json:"gameMode"`
	TrackName       string    `json:"trackName"`
	TrackDisplay    string    `json:"trackDisplay"`
	AmbientTempC    float32   `json:"ambientTempC"`
	TrackTempC      float32   `json:"trackTempC"`
	Wet             int       `json:"wet"`
	EndFrame        uint      `json:"endFrame"`
	TickRate        float32   `json:"tickRate"`
	Tags            string    `json:"tags"`
	Vehicles        []Vehicle `json:"vehicles"`
	Events          [][]any   `json:"events"`
	Laps            [][]any   `json:"laps"`
}

// Vehicle represents one registered vehicle with its wheel state history
type Vehicle struct {
	ID            uint16  `json:"id"`
	Name          string  `json:"name"`
	Class         string  `json:"class,omitempty"`
	Driver        string  `json:"driver,omitempty"`
	Compound      string  `json:"compound"`
	StartFrameNum uint    `json:"startFrameNum"`
	WheelStates   [][]any `json:"wheelStates"`
}
