// internal/simulation/prediction.go
package simulation

import "math"

// criticalWearThreshold is the wear level below which a tire is considered
// done for race-strategy purposes.
const criticalWearThreshold = 0.2

// LapsRemaining estimates how many laps the vehicle's most worn tire has
// left before reaching the critical threshold, based on the compound's
// expected lap life. Returns 0 for unknown vehicles or spent tires.
func (r *Registry) LapsRemaining(vehicleID uint16) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return 0
	}

	minWear := set.Wheels[0].WearLevel
	for _, w := range set.Wheels[1:] {
		minWear = math.Min(minWear, w.WearLevel)
	}

	wearPerLap := r.wearPerLap(set)
	if wearPerLap <= 0 {
		return 0
	}

	wearToGo := minWear - criticalWearThreshold
	if wearToGo <= 0 {
		return 0
	}
	return int(math.Floor(wearToGo / wearPerLap))
}

// WearAfterLaps projects the set-wide average wear after the given number
// of laps. Returns 0 for unknown vehicles.
func (r *Registry) WearAfterLaps(vehicleID uint16, laps int) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.vehicles[vehicleID]
	if !ok {
		return 0
	}
	return math.Max(set.AverageWear-r.wearPerLap(set)*float64(laps), 0)
}

// ShouldChangeTires reports whether the current set will not last the
// remaining laps.
func (r *Registry) ShouldChangeTires(vehicleID uint16, remainingLaps int) bool {
	return r.LapsRemaining(vehicleID) < remainingLaps
}

// wearPerLap estimates per-lap wear from the front-left compound's
// expected life. Caller holds the lock.
func (r *Registry) wearPerLap(set *TireSet) float64 {
	expected := set.Wheels[0].Profile.ExpectedLaps
	if expected <= 0 {
		return 0
	}
	return 1.0 / float64(expected)
}
