// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/midnightgrind/tiresim/internal/config"
	"github.com/midnightgrind/tiresim/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration.
// Backends that need database or cache dependencies (postgres, sqlite,
// websocket) are constructed by the recorder entrypoint instead.
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return nil, fmt.Errorf("postgres backend requires database dependencies")
	case "sqlite":
		return nil, fmt.Errorf("sqlite backend requires database dependencies")
	case "websocket":
		return nil, fmt.Errorf("websocket backend requires server credentials")
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
