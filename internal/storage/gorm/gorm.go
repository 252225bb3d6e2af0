// Package gormstorage implements the shared GORM storage core used by the
// postgres and sqlite backends: internal queues drained by a background
// DB writer goroutine.
package gormstorage

import (
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/midnightgrind/tiresim/internal/cache"
	"github.com/midnightgrind/tiresim/internal/logging"
	"github.com/midnightgrind/tiresim/internal/model"
	"github.com/midnightgrind/tiresim/internal/model/convert"
	"github.com/midnightgrind/tiresim/internal/queue"
	"github.com/midnightgrind/tiresim/internal/session"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// Dependencies holds all dependencies for the GORM storage core.
type Dependencies struct {
	DB             *gorm.DB
	VehicleCache   *cache.VehicleCache
	LogManager     *logging.SlogManager
	SessionContext *session.Context

	IsDatabaseValid func() bool
	ShouldSaveLocal func() bool
	DBInsertsPaused func() bool
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Vehicles      *queue.Queue[model.Vehicle]
	WheelStates   *queue.Queue[model.WheelState]
	DamageEvents  *queue.Queue[model.DamageEvent]
	BlowoutEvents *queue.Queue[model.BlowoutEvent]
	LapTelemetry  *queue.Queue[model.LapTelemetry]
	Performances  *queue.Queue[model.Performance]
}

func newQueues() *queues {
	return &queues{
		Vehicles:      queue.New[model.Vehicle](),
		WheelStates:   queue.New[model.WheelState](),
		DamageEvents:  queue.New[model.DamageEvent](),
		BlowoutEvents: queue.New[model.BlowoutEvent](),
		LapTelemetry:  queue.New[model.LapTelemetry](),
		Performances:  queue.New[model.Performance](),
	}
}

// Backend implements storage.Backend on top of GORM with queue-based batch writes.
type Backend struct {
	deps      Dependencies
	queues    *queues
	sessionID atomic.Uint64
	stopChan  chan struct{}

	lastDBWriteDuration time.Duration
}

// New creates a new GORM storage core.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
	}
}

// Init creates internal queues and starts the DB writer goroutine.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})
	b.startDBWriters()
	return nil
}

// Close stops the DB writer goroutine.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
	}
	return nil
}

// StartSession performs track get-or-insert and session create in the DB.
func (b *Backend) StartSession(coreSession *telemetry.Session, coreTrack *telemetry.Track) error {
	if b.deps.DB == nil {
		return nil
	}

	db := b.deps.DB
	log := b.deps.LogManager

	gormSession := convert.TelemetryToSession(*coreSession)
	gormTrack := convert.TelemetryToTrack(*coreTrack)

	// Track get-or-insert
	created, err := gormTrack.GetOrInsert(db)
	if err != nil {
		log.WriteLog("StartSession", fmt.Sprintf("Failed to get or insert track: %v", err), "ERROR")
		return fmt.Errorf("failed to get or insert track %s: %w", gormTrack.TrackName, err)
	}
	if created {
		log.WriteLog("StartSession", fmt.Sprintf("Created track record %s", gormTrack.TrackName), "INFO")
	}

	// Session create
	gormSession.Track = gormTrack
	gormSession.TrackID = gormTrack.ID
	if err := db.Create(&gormSession).Error; err != nil {
		return fmt.Errorf("failed to insert new session: %w", err)
	}

	// Assign DB-generated IDs back to telemetry types
	coreSession.ID = gormSession.ID
	coreSession.TrackID = gormTrack.ID
	coreTrack.ID = gormTrack.ID

	// Store session ID for the DB writer goroutine
	b.sessionID.Store(uint64(gormSession.ID))

	if b.deps.SessionContext != nil {
		b.deps.SessionContext.SetSession(&gormSession, &gormTrack)
	}

	return nil
}

// SetSessionID sets the current session ID for the DB writer (used by CLI tools).
func (b *Backend) SetSessionID(id uint) {
	b.sessionID.Store(uint64(id))
}

// EndSession is a no-op — session lifecycle is managed by the recorder entrypoint.
func (b *Backend) EndSession() error {
	return nil
}

// AddVehicle converts a telemetry vehicle to GORM and pushes to the write queue.
func (b *Backend) AddVehicle(v *telemetry.Vehicle) error {
	gormObj := convert.TelemetryToVehicle(*v)
	b.queues.Vehicles.Push(gormObj)
	return nil
}

// RecordWheelState converts and queues a wheel state.
func (b *Backend) RecordWheelState(w *telemetry.WheelState) error {
	gormObj := convert.TelemetryToWheelState(*w)
	b.queues.WheelStates.Push(gormObj)
	return nil
}

// RecordDamageEvent converts and queues a damage event.
func (b *Backend) RecordDamageEvent(e *telemetry.DamageEvent) error {
	gormObj := convert.TelemetryToDamageEvent(*e)
	b.queues.DamageEvents.Push(gormObj)
	return nil
}

// RecordBlowoutEvent converts and queues a blowout event.
func (b *Backend) RecordBlowoutEvent(e *telemetry.BlowoutEvent) error {
	gormObj := convert.TelemetryToBlowoutEvent(*e)
	b.queues.BlowoutEvents.Push(gormObj)
	return nil
}

// RecordLapTelemetry converts and queues a lap telemetry record.
func (b *Backend) RecordLapTelemetry(l *telemetry.LapTelemetry) error {
	gormObj := convert.TelemetryToLapTelemetry(*l)
	b.queues.LapTelemetry.Push(gormObj)
	return nil
}

// RecordPerformance converts and queues a recorder performance sample.
// Skipped in local SQLite mode to keep the dump files small.
func (b *Backend) RecordPerformance(p *telemetry.PerformanceSample) error {
	if b.deps.ShouldSaveLocal != nil && b.deps.ShouldSaveLocal() {
		return nil
	}
	gormObj := convert.TelemetryToPerformance(*p)
	b.queues.Performances.Push(gormObj)
	return nil
}

// GetVehicleByObjectID returns a registered vehicle from the cache.
func (b *Backend) GetVehicleByObjectID(id uint16) (telemetry.Vehicle, bool) {
	return b.deps.VehicleCache.Get(id)
}

// GetLastDBWriteDuration returns the duration of the most recent write cycle.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	return b.lastDBWriteDuration
}

// QueueLengths reports the current depth of each write queue.
func (b *Backend) QueueLengths() model.WriteQueueLengths {
	return model.WriteQueueLengths{
		Vehicles:      uint16(b.queues.Vehicles.Len()),
		WheelStates:   uint16(b.queues.WheelStates.Len()),
		DamageEvents:  uint16(b.queues.DamageEvents.Len()),
		BlowoutEvents: uint16(b.queues.BlowoutEvents.Len()),
		LapTelemetry:  uint16(b.queues.LapTelemetry.Len()),
	}
}

// writeQueue writes all items from a queue to the database in a transaction.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log func(string, string, string), prepare func([]T), onSuccess func([]T)) {
	if q.Empty() {
		return
	}

	tx := db.Begin()
	items := q.GetAndEmpty()
	if prepare != nil {
		prepare(items)
	}
	if err := tx.Create(&items).Error; err != nil {
		log(":DB:WRITER:", fmt.Sprintf("Error creating %s: %v", name, err), "ERROR")
		tx.Rollback()
		q.Push(items...)
		return
	}

	tx.Commit()
	if onSuccess != nil {
		onSuccess(items)
	}
}

// startDBWriters starts the background goroutine that periodically drains queues into the DB.
func (b *Backend) startDBWriters() {
	log := b.deps.LogManager.WriteLog

	go func() {
		for {
			select {
			case <-b.stopChan:
				return
			default:
			}

			if b.deps.DB == nil || (b.deps.IsDatabaseValid != nil && !b.deps.IsDatabaseValid()) {
				time.Sleep(1 * time.Second)
				continue
			}

			if b.deps.DBInsertsPaused != nil && b.deps.DBInsertsPaused() {
				time.Sleep(1 * time.Second)
				continue
			}

			// Read sessionID once per write cycle
			sessionID := uint(b.sessionID.Load())

			// stampSessionID helpers
			stampVehicles := func(items []model.Vehicle) {
				for i := range items {
					items[i].SessionID = sessionID
				}
			}
			stampWheelStates := func(items []model.WheelState) {
				for i := range items {
					items[i].SessionID = sessionID
				}
			}
			stampDamageEvents := func(items []model.DamageEvent) {
				for i := range items {
					items[i].SessionID = sessionID
				}
			}
			stampBlowoutEvents := func(items []model.BlowoutEvent) {
				for i := range items {
					items[i].SessionID = sessionID
				}
			}
			stampLapTelemetry := func(items []model.LapTelemetry) {
				for i := range items {
					items[i].SessionID = sessionID
				}
			}
			stampPerformances := func(items []model.Performance) {
				for i := range items {
					items[i].SessionID = sessionID
				}
			}

			start := time.Now()

			// Entities (cache already populated by worker at parse time)
			writeQueue(b.deps.DB, b.queues.Vehicles, "vehicles", log, stampVehicles, nil)

			// State updates
			writeQueue(b.deps.DB, b.queues.WheelStates, "wheel states", log, stampWheelStates, nil)

			// Events
			writeQueue(b.deps.DB, b.queues.DamageEvents, "damage events", log, stampDamageEvents, nil)
			writeQueue(b.deps.DB, b.queues.BlowoutEvents, "blowout events", log, stampBlowoutEvents, nil)
			writeQueue(b.deps.DB, b.queues.LapTelemetry, "lap telemetry", log, stampLapTelemetry, nil)
			writeQueue(b.deps.DB, b.queues.Performances, "performances", log, stampPerformances, nil)

			b.lastDBWriteDuration = time.Since(start)

			time.Sleep(2 * time.Second)
		}
	}()
}
