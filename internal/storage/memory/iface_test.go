package memory_test

import (
	"github.com/midnightgrind/tiresim/internal/storage"
	"github.com/midnightgrind/tiresim/internal/storage/memory"
)

// Compile-time interface checks
var (
	_ storage.Backend    = (*memory.Backend)(nil)
	_ storage.Uploadable = (*memory.Backend)(nil)
)
