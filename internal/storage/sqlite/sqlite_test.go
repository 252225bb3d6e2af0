package sqlitestorage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnightgrind/tiresim/internal/cache"
	"github.com/midnightgrind/tiresim/internal/logging"
	"github.com/midnightgrind/tiresim/internal/session"
	"github.com/midnightgrind/tiresim/internal/storage"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

func newTestBackend(t *testing.T, cfg Config) *Backend {
	t.Helper()
	b, err := New(cfg, cache.NewVehicleCache(), logging.NewSlogManager(), session.NewContext())
	require.NoError(t, err)
	return b
}

func TestInitClose(t *testing.T) {
	b := newTestBackend(t, Config{})

	require.NoError(t, b.Init())
	require.NoError(t, b.Close())
}

func TestStartSession_CreatesRecords(t *testing.T) {
	b := newTestBackend(t, Config{})
	require.NoError(t, b.Init())
	defer func() { require.NoError(t, b.Close()) }()

	sess := &telemetry.Session{SessionName: "Touge Run", GameMode: "FreeRoam", StartTime: time.Now()}
	track := &telemetry.Track{TrackName: "mount_akaishi", DisplayName: "Mount Akaishi"}

	require.NoError(t, b.StartSession(sess, track))
	assert.NotZero(t, sess.ID)
	assert.NotZero(t, track.ID)
}

func TestRecordPerformance_SkippedInLocalMode(t *testing.T) {
	b := newTestBackend(t, Config{})
	require.NoError(t, b.Init())
	defer func() { require.NoError(t, b.Close()) }()

	// ShouldSaveLocal is fixed true for the sqlite backend
	require.NoError(t, b.RecordPerformance(&telemetry.PerformanceSample{Time: time.Now()}))
}

func TestDumpLoop_WritesFile(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "session.db")
	b := newTestBackend(t, Config{
		DumpInterval: 50 * time.Millisecond,
		DumpPath:     dumpPath,
	})
	require.NoError(t, b.Init())
	defer func() { require.NoError(t, b.Close()) }()

	require.Eventually(t, func() bool {
		info, err := os.Stat(dumpPath)
		return err == nil && info.Size() > 0
	}, 5*time.Second, 50*time.Millisecond, "dump file should be written")
}
