package cache

import (
	"sync"

	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// VehicleCache caches vehicles when they are registered to avoid subsequent
// db reads. Latency in these calls is critical to quickly process incoming
// data.
type VehicleCache struct {
	m        sync.Mutex
	Vehicles map[uint16]telemetry.Vehicle
}

func NewVehicleCache() *VehicleCache {
	return &VehicleCache{
		m:        sync.Mutex{},
		Vehicles: make(map[uint16]telemetry.Vehicle),
	}
}

func (c *VehicleCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.Vehicles = make(map[uint16]telemetry.Vehicle)
}

func (c *VehicleCache) Get(id uint16) (telemetry.Vehicle, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if v, ok := c.Vehicles[id]; ok {
		return v, true
	}
	return telemetry.Vehicle{}, false
}

func (c *VehicleCache) Add(v telemetry.Vehicle) {
	c.m.Lock()
	defer c.m.Unlock()
	c.Vehicles[v.ID] = v
}

func (c *VehicleCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.Vehicles)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
