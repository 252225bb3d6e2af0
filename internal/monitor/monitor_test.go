package monitor

import (
	"testing"
	"time"

	"github.com/midnightgrind/tiresim/internal/cache"
	"github.com/midnightgrind/tiresim/internal/logging"
	"github.com/midnightgrind/tiresim/internal/model"
	"github.com/midnightgrind/tiresim/internal/parser"
	"github.com/midnightgrind/tiresim/internal/session"
	"github.com/midnightgrind/tiresim/internal/simulation"
	"github.com/midnightgrind/tiresim/internal/worker"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
	"github.com/midnightgrind/tiresim/pkg/tire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queueBackend is a storage.Backend stub exposing fixed queue depths.
type queueBackend struct {
	lengths model.WriteQueueLengths
	perf    []*telemetry.PerformanceSample
}

func (b *queueBackend) Init() error  { return nil }
func (b *queueBackend) Close() error { return nil }
func (b *queueBackend) StartSession(session *telemetry.Session, track *telemetry.Track) error {
	return nil
}
func (b *queueBackend) EndSession() error                              { return nil }
func (b *queueBackend) AddVehicle(v *telemetry.Vehicle) error          { return nil }
func (b *queueBackend) RecordWheelState(w *telemetry.WheelState) error { return nil }
func (b *queueBackend) RecordDamageEvent(e *telemetry.DamageEvent) error {
	return nil
}
func (b *queueBackend) RecordBlowoutEvent(e *telemetry.BlowoutEvent) error {
	return nil
}
func (b *queueBackend) RecordLapTelemetry(l *telemetry.LapTelemetry) error {
	return nil
}
func (b *queueBackend) RecordPerformance(p *telemetry.PerformanceSample) error {
	b.perf = append(b.perf, p)
	return nil
}
func (b *queueBackend) QueueLengths() model.WriteQueueLengths { return b.lengths }
func (b *queueBackend) GetLastDBWriteDuration() time.Duration { return 7 * time.Millisecond }

func newTestService(backend *queueBackend) *Service {
	logManager := logging.NewSlogManager()
	workerManager := worker.NewManager(worker.Dependencies{
		VehicleCache: cache.NewVehicleCache(),
		LogManager:   logManager,
		Parser:       parser.NewParser(logManager.Logger(), "test"),
		Registry:     simulation.NewRegistry(tire.DefaultPressureConfig(), simulation.DefaultSettings()),
	}, backend)

	return NewService(Dependencies{
		LogManager:      logManager,
		SessionContext:  session.NewContext(),
		WorkerManager:   workerManager,
		Backend:         backend,
		IsDatabaseValid: func() bool { return false },
	})
}

func TestGetProgramStatus(t *testing.T) {
	backend := &queueBackend{lengths: model.WriteQueueLengths{
		WheelStates:   42,
		DamageEvents:  3,
		BlowoutEvents: 1,
		LapTelemetry:  5,
	}}
	svc := newTestService(backend)

	output, perf := svc.GetProgramStatus(true, true)

	require.Len(t, output, 2)
	assert.Contains(t, output[0], `"wheelStates": 42`)
	assert.Equal(t, uint16(42), perf.WriteQueueLengths.WheelStates)
	assert.Equal(t, float32(7), perf.LastWriteDurationMs)
}

func TestSample(t *testing.T) {
	backend := &queueBackend{lengths: model.WriteQueueLengths{
		WheelStates:  10,
		DamageEvents: 2,
		LapTelemetry: 4,
	}}
	svc := newTestService(backend)

	sample := svc.Sample()

	assert.Equal(t, uint16(10), sample.WheelStateQueue)
	assert.Equal(t, uint16(2), sample.DamageEventQueue)
	assert.Equal(t, uint16(4), sample.LapTelemetryQueue)
	assert.Equal(t, float32(7), sample.LastWriteDurationMs)
	assert.False(t, sample.Time.IsZero())
}

func TestStartStop(t *testing.T) {
	svc := newTestService(&queueBackend{})
	svc.deps.StatusDir = t.TempDir()

	require.NoError(t, svc.Start())
	assert.True(t, svc.IsRunning())

	// starting twice is a no-op
	require.NoError(t, svc.Start())

	svc.Stop()
	assert.Eventually(t, func() bool { return !svc.IsRunning() }, 5*time.Second, 50*time.Millisecond)
}
