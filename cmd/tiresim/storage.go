package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/midnightgrind/tiresim/internal/config"
	"github.com/midnightgrind/tiresim/internal/database"
	"github.com/midnightgrind/tiresim/internal/monitor"
	"github.com/midnightgrind/tiresim/internal/storage"
	"github.com/midnightgrind/tiresim/internal/storage/memory"
	pgstorage "github.com/midnightgrind/tiresim/internal/storage/postgres"
	sqlitestorage "github.com/midnightgrind/tiresim/internal/storage/sqlite"
	wsstorage "github.com/midnightgrind/tiresim/internal/storage/websocket"
	"github.com/midnightgrind/tiresim/internal/worker"
	"github.com/spf13/viper"
)

func initStorage() error {
	storageCfg := config.GetStorageConfig()

	backend, err := createStorageBackend(storageCfg)
	if err != nil {
		Logger.Error("Failed to create storage backend", "error", err)
		return err
	}
	storageBackend = backend
	if err := storageBackend.Init(); err != nil {
		Logger.Error("Failed to initialize storage backend", "error", err)
		return err
	}

	// Initialize worker manager
	workerManager = worker.NewManager(worker.Dependencies{
		VehicleCache: VehicleCache,
		LogManager:   SlogManager,
		Parser:       parserService,
		Registry:     registry,
	}, storageBackend)

	// Register worker handlers with the dispatcher
	Logger.Debug("Registering worker handlers with dispatcher")
	workerManager.RegisterHandlers(eventDispatcher)
	Logger.Info("Worker handlers registered with dispatcher", "backend", storageCfg.Type)

	return nil
}

func createStorageBackend(storageCfg config.StorageConfig) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		db, err := database.GetPostgresDBStandalone()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		DB = db

		Logger.Info("Postgres storage backend initialized")
		return pgstorage.New(pgstorage.Dependencies{
			DB:             DB,
			VehicleCache:   VehicleCache,
			LogManager:     SlogManager,
			SessionContext: SessionContext,
		}), nil

	case "sqlite":
		sqliteDBFilePath := filepath.Join(viper.GetString("logsDir"), fmt.Sprintf("%s_%s.db", AppName, SessionStartTime.Format("20060102_150405")))
		backend, err := sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: storageCfg.SQLite.DumpInterval,
			DumpPath:     sqliteDBFilePath,
		}, VehicleCache, SlogManager, SessionContext)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		Logger.Info("SQLite storage backend initialized")
		return backend, nil

	case "websocket":
		wsURL := httpToWS(viper.GetString("api.serverUrl")) + "/telemetry"
		secret := viper.GetString("api.apiKey")
		Logger.Info("WebSocket storage backend initialized", "url", wsURL)
		return wsstorage.New(wsstorage.Config{
			URL:    wsURL,
			Secret: secret,
		}), nil

	default:
		Logger.Info("Memory storage backend initialized")
		return memory.New(storageCfg.Memory), nil
	}
}

// validateHypertables runs the TimescaleDB setup for postgres deployments.
// Safe to skip on plain postgres, the monitor logs and moves on.
func validateHypertables(svc *monitor.Service) {
	tables := map[string][]string{
		"wheel_states":  {"time", "session_id", "vehicle_object_id"},
		"damage_events": {"time", "session_id", "vehicle_object_id"},
		"performances":  {"time"},
	}
	if err := svc.ValidateHypertables(tables); err != nil {
		Logger.Warn("Hypertable validation skipped", "error", err)
	}
}

// httpToWS converts an HTTP(S) URL to a WebSocket URL.
func httpToWS(httpURL string) string {
	s := strings.TrimRight(httpURL, "/")
	s = strings.Replace(s, "https://", "wss://", 1)
	s = strings.Replace(s, "http://", "ws://", 1)
	return s
}
