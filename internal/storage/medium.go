package storage

import (
	"fmt"
	"sync"
)

// Medium is the key/value contract every storage backend satisfies.
// Get reports ok=false when the key has never been written.
type Medium interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	FilePath      string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open returns the medium named by opts.Backend.
func Open(opts Options) (Medium, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileMedium(opts.FilePath)
	case BackendSQLite:
		return NewSQLiteMedium(opts.SQLitePath)
	case BackendRedis:
		return NewRedisMedium(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	case BackendMemory:
		return NewMemoryMedium(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// MemoryMedium keeps values in a map.
type MemoryMedium struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{values: make(map[string]string)}
}

func (m *MemoryMedium) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryMedium) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryMedium) Close() error {
	return nil
}
