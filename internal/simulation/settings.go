// internal/simulation/settings.go
package simulation

// Settings holds the session-wide simulation tuning shared by every
// registered vehicle. A copy is taken per tick; mutate through the
// registry setters.
type Settings struct {
	GlobalWearMultiplier float64 `json:"globalWearMultiplier"`
	GlobalGripMultiplier float64 `json:"globalGripMultiplier"`
	TemperatureSimSpeed  float64 `json:"temperatureSimSpeed"`
	AmbientTempC         float64 `json:"ambientTempC"`
	TrackTempC           float64 `json:"trackTempC"`

	SimulatePressure    bool `json:"simulatePressure"`
	SimulateTemperature bool `json:"simulateTemperature"`
	SimulateWear        bool `json:"simulateWear"`
	AllowPunctures      bool `json:"allowPunctures"`

	// PunctureChance is the per-second probability of a random debris
	// puncture on a healthy tire.
	PunctureChance float64 `json:"punctureChance"`
}

// DefaultSettings returns the shipped simulation tuning.
func DefaultSettings() Settings {
	return Settings{
		GlobalWearMultiplier: 1.0,
		GlobalGripMultiplier: 1.0,
		TemperatureSimSpeed:  1.0,
		AmbientTempC:         25.0,
		TrackTempC:           35.0,
		SimulatePressure:     true,
		SimulateTemperature:  true,
		SimulateWear:         true,
		AllowPunctures:       true,
		PunctureChance:       0.001,
	}
}
