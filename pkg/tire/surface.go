// pkg/tire/surface.go
package tire

// Surface identifies the track surface under a wheel.
type Surface uint8

const (
	SurfaceAsphalt Surface = iota
	SurfaceConcrete
	SurfaceGravel
	SurfaceDirt
	SurfaceGrass
	SurfaceSand
	SurfaceSnow
	SurfaceIce
	SurfaceWet
	SurfacePuddle
	SurfaceOil
)

// String returns the surface name used in telemetry.
func (s Surface) String() string {
	switch s {
	case SurfaceAsphalt:
		return "Asphalt"
	case SurfaceConcrete:
		return "Concrete"
	case SurfaceGravel:
		return "Gravel"
	case SurfaceDirt:
		return "Dirt"
	case SurfaceGrass:
		return "Grass"
	case SurfaceSand:
		return "Sand"
	case SurfaceSnow:
		return "Snow"
	case SurfaceIce:
		return "Ice"
	case SurfaceWet:
		return "Wet"
	case SurfacePuddle:
		return "Puddle"
	case SurfaceOil:
		return "Oil"
	default:
		return "Unknown"
	}
}

// ParseSurface converts a surface name back to a Surface. Unknown names
// fall back to asphalt.
func ParseSurface(s string) (Surface, bool) {
	for sf := SurfaceAsphalt; sf <= SurfaceOil; sf++ {
		if sf.String() == s {
			return sf, true
		}
	}
	return SurfaceAsphalt, false
}

// SurfaceGripMultiplier returns the grip factor for a compound on a
// surface. Studded compounds recover some grip on snow and ice; wet
// surfaces use the compound's wet performance rating.
func SurfaceGripMultiplier(surface Surface, profile CompoundProfile) float64 {
	switch surface {
	case SurfaceAsphalt, SurfaceConcrete:
		return 1.0
	case SurfaceGravel:
		return 0.6
	case SurfaceDirt:
		return 0.5
	case SurfaceGrass:
		return 0.4
	case SurfaceSand:
		return 0.3
	case SurfaceSnow:
		if profile.Studded {
			return 0.6
		}
		return 0.2
	case SurfaceIce:
		if profile.Studded {
			return 0.4
		}
		return 0.1
	case SurfaceWet:
		return profile.WetPerformance
	case SurfacePuddle:
		return profile.WetPerformance * 0.7
	case SurfaceOil:
		return 0.15
	default:
		return 1.0
	}
}
