// pkg/tire/compound.go
package tire

// PressureClass groups compounds by the cold pressure they are tuned for.
type PressureClass uint8

const (
	ClassStreet PressureClass = iota
	ClassSport
	ClassTrack
	ClassDrift
	ClassRain
	ClassOffRoad
)

// OptimalPressureFor returns the optimal cold pressure in PSI for a
// pressure class. Track tires run lower for maximum contact patch, rain
// tires higher to resist hydroplaning.
func OptimalPressureFor(class PressureClass) float64 {
	switch class {
	case ClassStreet:
		return 32.0
	case ClassSport:
		return 30.0
	case ClassTrack:
		return 28.0
	case ClassDrift:
		return 34.0
	case ClassRain:
		return 35.0
	case ClassOffRoad:
		return 26.0
	default:
		return 32.0
	}
}

// Compound identifies a tire compound.
type Compound uint8

const (
	CompoundUltraSoft Compound = iota
	CompoundSoft
	CompoundMedium
	CompoundHard
	CompoundIntermediate
	CompoundFullWet
	CompoundAllSeason
	CompoundDrift
	CompoundOffRoad
	CompoundRally
	CompoundSlick
	CompoundVintage
)

// String returns the compound ID used in telemetry and config files.
func (c Compound) String() string {
	switch c {
	case CompoundUltraSoft:
		return "UltraSoft"
	case CompoundSoft:
		return "Soft"
	case CompoundMedium:
		return "Medium"
	case CompoundHard:
		return "Hard"
	case CompoundIntermediate:
		return "Intermediate"
	case CompoundFullWet:
		return "FullWet"
	case CompoundAllSeason:
		return "AllSeason"
	case CompoundDrift:
		return "Drift"
	case CompoundOffRoad:
		return "OffRoad"
	case CompoundRally:
		return "Rally"
	case CompoundSlick:
		return "Slick"
	case CompoundVintage:
		return "Vintage"
	default:
		return "Unknown"
	}
}

// ParseCompound converts a compound ID back to a Compound. Unknown IDs
// fall back to Medium.
func ParseCompound(s string) (Compound, bool) {
	for c := CompoundUltraSoft; c <= CompoundVintage; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return CompoundMedium, false
}

// CompoundProfile holds the per-compound characteristics read by the
// thermal, wear and grip models. Profiles are loaded once at vehicle
// configuration time and are read-only afterward.
type CompoundProfile struct {
	Compound    Compound `json:"compound"`
	DisplayName string   `json:"displayName"`

	BaseGrip            float64 `json:"baseGrip"`
	PeakGripTemperature float64 `json:"peakGripTemperature"`
	OptimalTempMin      float64 `json:"optimalTempMin"`
	OptimalTempMax      float64 `json:"optimalTempMax"`

	WearRate     float64 `json:"wearRate"`
	HeatUpRate   float64 `json:"heatUpRate"`
	CoolDownRate float64 `json:"coolDownRate"`

	WetPerformance      float64 `json:"wetPerformance"`
	DurabilityFactor    float64 `json:"durabilityFactor"`
	LateralGripMod      float64 `json:"lateralGripMod"`
	LongitudinalGripMod float64 `json:"longitudinalGripMod"`

	ExpectedLaps int  `json:"expectedLaps"`
	AllWeather   bool `json:"allWeather"`
	Studded      bool `json:"studded"`

	PressureClass PressureClass `json:"pressureClass"`
}

// OptimalPressure returns the optimal cold pressure for this profile.
func (p CompoundProfile) OptimalPressure() float64 {
	return OptimalPressureFor(p.PressureClass)
}

// DefaultCompounds returns the shipped compound database.
func DefaultCompounds() map[Compound]CompoundProfile {
	return map[Compound]CompoundProfile{
		CompoundUltraSoft: {
			Compound:            CompoundUltraSoft,
			DisplayName:         "Ultra Soft",
			BaseGrip:            1.25,
			PeakGripTemperature: 85.0,
			OptimalTempMin:      75.0,
			OptimalTempMax:      95.0,
			WearRate:            2.0,
			HeatUpRate:          1.5,
			CoolDownRate:        0.8,
			WetPerformance:      0.3,
			DurabilityFactor:    1.0,
			LateralGripMod:      1.0,
			LongitudinalGripMod: 1.0,
			ExpectedLaps:        10,
			PressureClass:       ClassTrack,
		},
		CompoundSoft: {
			Compound:            CompoundSoft,
			DisplayName:         "Soft",
			BaseGrip:            1.15,
			PeakGripTemperature: 90.0,
			OptimalTempMin:      80.0,
			OptimalTempMax:      100.0,
			WearRate:            1.5,
			HeatUpRate:          1.3,
			CoolDownRate:        0.9,
			WetPerformance:      0.4,
			DurabilityFactor:    1.0,
			LateralGripMod:      1.0,
			LongitudinalGripMod: 1.0,
			ExpectedLaps:        15,
			PressureClass:       ClassTrack,
		},
		CompoundMedium: {
			Compound:            CompoundMedium,
			DisplayName:         "Medium",
			BaseGrip:            1.0,
			PeakGripTemperature: 95.0,
			OptimalTempMin:      85.0,
			OptimalTempMax:      105.0,
			WearRate:            1.0,
			HeatUpRate:          1.0,
			CoolDownRate:        1.0,
			WetPerformance:      0.5,
			DurabilityFactor:    1.0,
			LateralGripMod:      1.0,
			LongitudinalGripMod: 1.0,
			ExpectedLaps:        25,
			PressureClass:       ClassSport,
		},
		CompoundHard: {
			Compound:            CompoundHard,
			DisplayName:         "Hard",
			BaseGrip:            0.9,
			PeakGripTemperature: 100.0,
			OptimalTempMin:      90.0,
			OptimalTempMax:      115.0,
			WearRate:            0.6,
			HeatUpRate:          0.7,
			CoolDownRate:        1.2,
			WetPerformance:      0.45,
			DurabilityFactor:    1.0,
			LateralGripMod:      1.0,
			LongitudinalGripMod: 1.0,
			ExpectedLaps:        40,
			PressureClass:       ClassSport,
		},
		CompoundIntermediate: {
			Compound:            CompoundIntermediate,
			DisplayName:         "Intermediate",
			BaseGrip:            0.85,
			PeakGripTemperature: 70.0,
			OptimalTempMin:      50.0,
			OptimalTempMax:      90.0,
			WearRate:            1.2,
			HeatUpRate:          0.8,
			CoolDownRate:        0.6,
			WetPerformance:      0.9,
			DurabilityFactor:    1.0,
			LateralGripMod:      1.0,
			LongitudinalGripMod: 1.0,
			ExpectedLaps:        20,
			AllWeather:          true,
			PressureClass:       ClassRain,
		},
		CompoundFullWet: {
			Compound:            CompoundFullWet,
			DisplayName:         "Full Wet",
			BaseGrip:            0.7,
			PeakGripTemperature: 60.0,
			OptimalTempMin:      40.0,
			OptimalTempMax:      80.0,
			WearRate:            1.5,
			HeatUpRate:          0.6,
			CoolDownRate:        0.5,
			WetPerformance:      1.0,
			DurabilityFactor:    1.0,
			LateralGripMod:      1.0,
			LongitudinalGripMod: 1.0,
			ExpectedLaps:        15,
			AllWeather:          true,
			PressureClass:       ClassRain,
		},
		CompoundDrift: {
			Compound:            CompoundDrift,
			DisplayName:         "Drift",
			BaseGrip:            0.8,
			PeakGripTemperature: 90.0,
			OptimalTempMin:      60.0,
			OptimalTempMax:      120.0,
			WearRate:            0.8,
			HeatUpRate:          1.5,
			CoolDownRate:        1.0,
			WetPerformance:      0.5,
			DurabilityFactor:    1.0,
			LateralGripMod:      0.7,
			LongitudinalGripMod: 1.1,
			ExpectedLaps:        30,
			PressureClass:       ClassDrift,
		},
		CompoundSlick: {
			Compound:            CompoundSlick,
			DisplayName:         "Slick",
			BaseGrip:            1.3,
			PeakGripTemperature: 100.0,
			OptimalTempMin:      90.0,
			OptimalTempMax:      110.0,
			WearRate:            1.8,
			HeatUpRate:          1.4,
			CoolDownRate:        1.0,
			WetPerformance:      0.2,
			DurabilityFactor:    1.0,
			LateralGripMod:      1.0,
			LongitudinalGripMod: 1.0,
			ExpectedLaps:        12,
			PressureClass:       ClassTrack,
		},
	}
}

// RecommendCompound picks a compound for the given track temperature and
// wetness, matching the pit-wall logic from the race engineer HUD.
func RecommendCompound(trackTempC float64, wet bool) Compound {
	if wet {
		if trackTempC < 15.0 {
			return CompoundFullWet
		}
		return CompoundIntermediate
	}

	switch {
	case trackTempC < 25.0:
		return CompoundHard
	case trackTempC < 35.0:
		return CompoundMedium
	case trackTempC < 45.0:
		return CompoundSoft
	default:
		return CompoundUltraSoft
	}
}
