// Package postgres implements the storage.Backend interface using GORM/PostgreSQL.
// It wraps the GORM core via composition. The only postgres-specific concerns are
// creating the connection from config and the schema migration with seed row.
package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/midnightgrind/tiresim/internal/cache"
	"github.com/midnightgrind/tiresim/internal/database"
	"github.com/midnightgrind/tiresim/internal/logging"
	"github.com/midnightgrind/tiresim/internal/model"
	"github.com/midnightgrind/tiresim/internal/session"
	gormstorage "github.com/midnightgrind/tiresim/internal/storage/gorm"
)

// Dependencies holds all dependencies for the postgres storage backend.
type Dependencies struct {
	DB             *gorm.DB // optional; created from viper config when nil
	VehicleCache   *cache.VehicleCache
	LogManager     *logging.SlogManager
	SessionContext *session.Context
}

// Backend wraps the GORM core with a postgres connection.
type Backend struct {
	*gormstorage.Backend
	deps Dependencies
}

// New creates a new postgres storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
	}
}

// Init connects to postgres if no DB was injected, migrates the schema,
// and starts the embedded GORM core.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		db, err := database.GetPostgresDBStandalone()
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
	}

	if err := b.setupDB(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:              b.deps.DB,
		VehicleCache:    b.deps.VehicleCache,
		LogManager:      b.deps.LogManager,
		SessionContext:  b.deps.SessionContext,
		IsDatabaseValid: func() bool { return true },
		ShouldSaveLocal: func() bool { return false },
	})
	return b.Backend.Init()
}

// setupDB migrates tables and creates the recorder info row if it doesn't exist.
func (b *Backend) setupDB() error {
	db := b.deps.DB
	log := b.deps.LogManager

	if !db.Migrator().HasTable(&model.RecorderInfo{}) {
		if err := db.AutoMigrate(&model.RecorderInfo{}); err != nil {
			log.WriteLog("setupDB", fmt.Sprintf("Failed to create recorder_infos table: %s", err), "ERROR")
			return fmt.Errorf("failed to auto-migrate RecorderInfo: %w", err)
		}
		if err := db.Create(&model.RecorderInfo{
			ServerName:      "MidnightGrind",
			ServerRegion:    "local",
			RecorderVersion: "1.0.0",
		}).Error; err != nil {
			return fmt.Errorf("failed to create recorder_infos entry: %w", err)
		}
	}

	log.WriteLog("setupDB", "Migrating schema", "INFO")
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.WriteLog("setupDB", "Database setup complete", "INFO")
	return nil
}

// Close stops the embedded GORM core.
func (b *Backend) Close() error {
	if b.Backend != nil {
		return b.Backend.Close()
	}
	return nil
}
