package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&RecorderInfo{},
	&Track{},
	&Session{},
	&Vehicle{},
	&WheelState{},
	&DamageEvent{},
	&BlowoutEvent{},
	&LapTelemetry{},
	&Performance{},
}

var DatabaseModelsSQLite = []interface{}{
	&RecorderInfo{},
	&Track{},
	&Session{},
	&Vehicle{},
	&WheelState{},
	&DamageEvent{},
	&BlowoutEvent{},
	&LapTelemetry{},
	&Performance{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// RecorderInfo contains information about the recording instance
type RecorderInfo struct {
	gorm.Model
	ServerName      string `json:"serverName" gorm:"size:127"`
	ServerRegion    string `json:"serverRegion" gorm:"size:64"`
	RecorderVersion string `json:"recorderVersion" gorm:"size:64"`
}

func (*RecorderInfo) TableName() string {
	return "recorder_infos"
}

// Performance is the model for recorder performance metrics
type Performance struct {
	Time                time.Time         `json:"time" gorm:"index:idx_time"`
	SessionID           uint              `json:"sessionId" gorm:"index:idx_performance_session_id"`
	Session             Session           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	BufferLengths       BufferLengths     `json:"bufferLengths" gorm:"embedded;embeddedPrefix:buffer_"`
	WriteQueueLengths   WriteQueueLengths `json:"writeQueueLengths" gorm:"embedded;embeddedPrefix:writequeue_"`
	LastWriteDurationMs float32           `json:"lastWriteDurationMs"`
}

func (*Performance) TableName() string {
	return "performances"
}

// BufferLengths is the model for the dispatcher buffer lengths
type BufferLengths struct {
	Vehicles      uint16 `json:"vehicles"`
	WheelStates   uint16 `json:"wheelStates"`
	DamageEvents  uint16 `json:"damageEvents"`
	BlowoutEvents uint16 `json:"blowoutEvents"`
	LapTelemetry  uint16 `json:"lapTelemetry"`
}

// WriteQueueLengths is the model for the storage write queue lengths
type WriteQueueLengths struct {
	Vehicles      uint16 `json:"vehicles"`
	WheelStates   uint16 `json:"wheelStates"`
	DamageEvents  uint16 `json:"damageEvents"`
	BlowoutEvents uint16 `json:"blowoutEvents"`
	LapTelemetry  uint16 `json:"lapTelemetry"`
}

////////////////////////
// RECORDING MODELS
////////////////////////

// Track is the main model for a track
type Track struct {
	gorm.Model
	TrackName    string  `json:"trackName" gorm:"size:127"`
	DisplayName  string  `json:"displayName" gorm:"size:127"`
	Author       string  `json:"author" gorm:"size:64"`
	LengthKM     float32 `json:"lengthKm"`
	AmbientTempC float32 `json:"ambientTempC"`
	TrackTempC   float32 `json:"trackTempC"`
	Wet          bool    `json:"wet" gorm:"default:false"`
	Sessions     []Session
}

func (*Track) TableName() string {
	return "tracks"
}

func (t *Track) GetOrInsert(db *gorm.DB) (
	created bool,
	err error,
) {
	var existingTrack Track
	err = db.Where("track_name = ?", t.TrackName).First(&existingTrack).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// insert
			err = db.Create(t).Error
			return true, err
		}
		return false, err
	}
	// overwrite with db record if found
	*t = existingTrack
	return false, nil
}

// Session is the main model for a recorded session
type Session struct {
	gorm.Model
	SessionName     string    `json:"sessionName" gorm:"size:200"`
	GameMode        string    `json:"gameMode" gorm:"size:64"`
	ServerName      string    `json:"serverName" gorm:"size:200"`
	StartTime       time.Time `json:"sessionStart" gorm:"index:idx_session_start"`
	TrackID         uint
	Track           Track   `gorm:"foreignkey:TrackID"`
	TickRate        float32 `json:"tickRate" gorm:"default:60.0"`
	SimTimeScale    float32 `json:"simTimeScale" gorm:"default:1.0"`
	RecorderVersion string  `json:"recorderVersion" gorm:"size:64;default:1.0.0"`
	Tag             string  `json:"tag" gorm:"size:127"`

	WheelStates   []WheelState
	DamageEvents  []DamageEvent
	BlowoutEvents []BlowoutEvent
	LapTelemetry  []LapTelemetry
}

func (*Session) TableName() string {
	return "sessions"
}

// Vehicle is a registered vehicle
// Uses composite primary key (SessionID, ObjectID) - ObjectID is the game-assigned sequential ID
//
// Command: :VEHICLE:REGISTER:
// Args: [frameNo, vehicleId, className, displayName, driverName, compound]
type Vehicle struct {
	SessionID   uint           `json:"sessionId" gorm:"primaryKey;autoIncrement:false"`
	ObjectID    uint16         `json:"vehicleId" gorm:"primaryKey;autoIncrement:false"` // game-assigned sequential ID
	Session     Session        `gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"deletedAt" gorm:"index"`
	JoinTime    time.Time      `json:"joinTime" gorm:"NOT NULL;index:idx_vehicle_join_time"` // Server time when vehicle was registered
	JoinFrame   uint           `json:"joinFrame"`                                                             // Tick number when vehicle was first seen
	ClassName   string         `json:"className" gorm:"size:64"`                                              // Config class name
	DisplayName string         `json:"displayName" gorm:"size:64"`                                            // Display name from config
	DriverName  string         `json:"driverName" gorm:"size:64"`                                             // Current driver (player or AI name)
	Compound    string         `json:"compound" gorm:"size:32"`                                               // Fitted tire compound at registration
}

func (*Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) Get(db *gorm.DB) (err error) {
	err = db.Where(&v).Order(
		"join_time DESC",
	).First(&v).Error
	return err
}

// WheelState tracks one corner's tire state at a point in time
// References Vehicle by (SessionID, VehicleObjectID) composite FK
//
// Command: :WHEEL:STATE:
// Args: [vehicleId, position, frameNo, pressure, hotPressure, tempC, surfaceTempC,
//
//	coreTempC, wearLevel, condition, grip, wearMult, heatMult, contactPatch,
//	rollingRes, fuelEcon, slipRatio, slipAngle, loadN, surface, flags]
type WheelState struct {
	ID              uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time            time.Time `json:"time"` // Server time when state was recorded
	SessionID       uint      `json:"sessionId" gorm:"index:idx_wheelstate_session_id"`
	Session         Session   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	CaptureFrame    uint      `json:"captureFrame" gorm:"index:idx_wheelstate_capture_frame"` // Tick number in recording timeline
	VehicleObjectID uint16    `json:"vehicleId" gorm:"index:idx_wheelstate_vehicle_object_id"`
	Vehicle         Vehicle   `gorm:"foreignkey:SessionID,VehicleObjectID;references:SessionID,ObjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Position        string    `json:"position" gorm:"size:2"` // Corner: FL, FR, RL, RR

	PressurePSI    float32 `json:"pressurePsi"`    // Current absolute pressure
	HotPressurePSI float32 `json:"hotPressurePsi"` // Temperature-adjusted advisory pressure
	TemperatureC   float32 `json:"temperatureC"`   // Bulk tire temperature
	SurfaceTempC   float32 `json:"surfaceTempC"`   // Tread surface temperature
	CoreTempC      float32 `json:"coreTempC"`      // Carcass core temperature
	WearLevel      float32 `json:"wearLevel"`      // 0.0 (worn out) to 1.0 (fresh)
	Condition      string  `json:"condition" gorm:"size:16"`

	GripMultiplier              float32 `json:"gripMultiplier"`
	WearMultiplier              float32 `json:"wearMultiplier"`
	HeatMultiplier              float32 `json:"heatMultiplier"`
	ContactPatchMultiplier      float32 `json:"contactPatchMultiplier"`
	RollingResistanceMultiplier float32 `json:"rollingResistanceMultiplier"`
	FuelEconomyMultiplier       float32 `json:"fuelEconomyMultiplier"`

	SlipRatio float32 `json:"slipRatio"`
	SlipAngle float32 `json:"slipAngle"`
	LoadN     float32 `json:"loadN"`
	Surface   string  `json:"surface" gorm:"size:32"`

	HasLeak        bool `json:"hasLeak" gorm:"default:false"`
	IsFlat         bool `json:"isFlat" gorm:"default:false"`
	IsBlownOut     bool `json:"isBlownOut" gorm:"default:false"`
	NeedsAttention bool `json:"needsAttention" gorm:"default:false"`
	IsCritical     bool `json:"isCritical" gorm:"default:false"`
}

func (*WheelState) TableName() string {
	return "wheel_states"
}

// DamageEvent represents tire damage applied to one corner
//
// Commands: :DAMAGE:PUNCTURE:, :DAMAGE:SPIKESTRIP:, :DAMAGE:COLLISION:,
// :DAMAGE:VALVE:, :DAMAGE:BEAD:
// Args: [frameNo, vehicleId, position, severity, impactSpeed, extraDataJSON]
type DamageEvent struct {
	ID              uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time            time.Time `json:"time"` // Server time when damage occurred
	SessionID       uint      `json:"sessionId" gorm:"index:idx_damageevent_session_id"`
	Session         Session   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	CaptureFrame    uint      `json:"captureFrame" gorm:"index:idx_damageevent_capture_frame;"` // Tick number when damage occurred
	VehicleObjectID uint16    `json:"vehicleId" gorm:"index:idx_damageevent_vehicle_object_id"`
	Vehicle         Vehicle   `gorm:"foreignkey:SessionID,VehicleObjectID;references:SessionID,ObjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Position        string    `json:"position" gorm:"size:2"` // Corner: FL, FR, RL, RR

	Cause       string         `json:"cause" gorm:"size:32"`                     // Leak cause: SlowLeak, SpikeStripPuncture, Blowout, etc.
	Severity    float32        `json:"severity"`                                 // Normalized damage severity (0.0-1.0)
	ImpactSpeed float32        `json:"impactSpeed"`                              // Vehicle speed at impact in km/h
	ExtraData   datatypes.JSON `json:"extraData" gorm:"type:jsonb;default:'{}'"` // Additional JSON data (e.g., collision source)
}

func (*DamageEvent) TableName() string {
	return "damage_events"
}

// BlowoutEvent represents a catastrophic tire failure
//
// Recorded by the simulation, not a game command.
type BlowoutEvent struct {
	ID              uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time            time.Time `json:"time"` // Server time when blowout occurred
	SessionID       uint      `json:"sessionId" gorm:"index:idx_blowoutevent_session_id"`
	Session         Session   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	CaptureFrame    uint      `json:"captureFrame" gorm:"index:idx_blowoutevent_capture_frame;"` // Tick number when blowout occurred
	VehicleObjectID uint16    `json:"vehicleId" gorm:"index:idx_blowoutevent_vehicle_object_id"`
	Vehicle         Vehicle   `gorm:"foreignkey:SessionID,VehicleObjectID;references:SessionID,ObjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Position        string    `json:"position" gorm:"size:2"` // Corner: FL, FR, RL, RR

	SpeedKPH     float32 `json:"speedKph"`     // Vehicle speed when the tire let go
	TemperatureC float32 `json:"temperatureC"` // Tire temperature at failure
	PressurePSI  float32 `json:"pressurePsi"`  // Pressure remaining after instant loss
}

func (*BlowoutEvent) TableName() string {
	return "blowout_events"
}

// LapTelemetry aggregates one vehicle's tire data over one lap
type LapTelemetry struct {
	ID              uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time            time.Time `json:"time"` // Server time at lap completion
	SessionID       uint      `json:"sessionId" gorm:"index:idx_laptelemetry_session_id"`
	Session         Session   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	VehicleObjectID uint16    `json:"vehicleId" gorm:"index:idx_laptelemetry_vehicle_object_id"`
	Vehicle         Vehicle   `gorm:"foreignkey:SessionID,VehicleObjectID;references:SessionID,ObjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Lap             int       `json:"lap"`

	PeakTempFL    float32 `json:"peakTempFl"` // Peak bulk temperature per corner over the lap
	PeakTempFR    float32 `json:"peakTempFr"`
	PeakTempRL    float32 `json:"peakTempRl"`
	PeakTempRR    float32 `json:"peakTempRr"`
	Lockups       int     `json:"lockups"`       // Brake lockup count
	Wheelspin     int     `json:"wheelspin"`     // Wheelspin event count
	SlipDistanceM float32 `json:"slipDistanceM"` // Total distance covered while sliding
	AverageWear   float32 `json:"averageWear"`   // Mean wear level across corners at lap end
	AverageGrip   float32 `json:"averageGrip"`   // Mean grip multiplier across corners at lap end
}

func (*LapTelemetry) TableName() string {
	return "lap_telemetries"
}
