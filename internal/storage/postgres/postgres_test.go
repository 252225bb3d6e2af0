package postgres

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/midnightgrind/tiresim/internal/cache"
	"github.com/midnightgrind/tiresim/internal/logging"
	"github.com/midnightgrind/tiresim/internal/model"
	"github.com/midnightgrind/tiresim/internal/session"
	"github.com/midnightgrind/tiresim/internal/storage"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

// newRawDB creates an in-memory SQLite DB without prior migration.
// MaxOpenConns=1 ensures all operations use the same connection (in-memory
// SQLite databases are per-connection, so multiple connections would each
// see an empty database).
func newRawDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	return New(Dependencies{
		DB:             newRawDB(t),
		VehicleCache:   cache.NewVehicleCache(),
		LogManager:     logging.NewSlogManager(),
		SessionContext: session.NewContext(),
	})
}

func TestNew(t *testing.T) {
	b := newTestBackend(t)
	require.NotNil(t, b)
}

func TestInitClose(t *testing.T) {
	b := newTestBackend(t)

	err := b.Init()
	require.NoError(t, err)

	err = b.Close()
	require.NoError(t, err)
}

func TestSetupDB_CreatesRecorderInfo(t *testing.T) {
	rawDB := newRawDB(t)

	b := New(Dependencies{
		DB:             rawDB,
		VehicleCache:   cache.NewVehicleCache(),
		LogManager:     logging.NewSlogManager(),
		SessionContext: session.NewContext(),
	})

	// Init calls setupDB
	err := b.Init()
	require.NoError(t, err)
	defer func() { require.NoError(t, b.Close()) }()

	var info model.RecorderInfo
	require.NoError(t, rawDB.First(&info).Error)
	assert.Equal(t, "MidnightGrind", info.ServerName)

	// Verify full schema was migrated
	assert.True(t, rawDB.Migrator().HasTable(&model.Session{}))
	assert.True(t, rawDB.Migrator().HasTable(&model.WheelState{}))
}

func TestInit_IsIdempotentOnRecorderInfo(t *testing.T) {
	rawDB := newRawDB(t)

	b := New(Dependencies{
		DB:             rawDB,
		VehicleCache:   cache.NewVehicleCache(),
		LogManager:     logging.NewSlogManager(),
		SessionContext: session.NewContext(),
	})
	require.NoError(t, b.Init())
	require.NoError(t, b.Close())

	b2 := New(Dependencies{
		DB:             rawDB,
		VehicleCache:   cache.NewVehicleCache(),
		LogManager:     logging.NewSlogManager(),
		SessionContext: session.NewContext(),
	})
	require.NoError(t, b2.Init())
	defer func() { require.NoError(t, b2.Close()) }()

	var count int64
	rawDB.Model(&model.RecorderInfo{}).Count(&count)
	assert.Equal(t, int64(1), count, "recorder info row should not be duplicated")
}

func TestStartSession_WritesSessionAndTrack(t *testing.T) {
	rawDB := newRawDB(t)

	b := New(Dependencies{
		DB:             rawDB,
		VehicleCache:   cache.NewVehicleCache(),
		LogManager:     logging.NewSlogManager(),
		SessionContext: session.NewContext(),
	})
	require.NoError(t, b.Init())
	defer func() { require.NoError(t, b.Close()) }()

	sess := &telemetry.Session{SessionName: "Kanjo Midnight Run", GameMode: "TimeAttack"}
	track := &telemetry.Track{TrackName: "kanjo_loop", DisplayName: "Kanjo Loop"}

	err := b.StartSession(sess, track)
	require.NoError(t, err)

	assert.NotZero(t, sess.ID, "session should get DB-assigned ID")
	assert.NotZero(t, track.ID, "track should get DB-assigned ID")

	var sessionCount, trackCount int64
	rawDB.Model(&model.Session{}).Count(&sessionCount)
	rawDB.Model(&model.Track{}).Count(&trackCount)
	assert.Equal(t, int64(1), sessionCount)
	assert.Equal(t, int64(1), trackCount)

	// Second session on the same track should reuse it (get-or-insert)
	sess2 := &telemetry.Session{SessionName: "Kanjo Rematch", GameMode: "Race"}
	err = b.StartSession(sess2, track)
	require.NoError(t, err)

	rawDB.Model(&model.Track{}).Count(&trackCount)
	assert.Equal(t, int64(1), trackCount, "tracks should be reused, not duplicated")
}
