package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"duetoday/internal/logger"
)

// FileMedium stores all keys in one JSON object on disk. Every Set rewrites
// the whole file.
type FileMedium struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// DefaultDataDir is <user config dir>/duetoday.
func DefaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "duetoday"), nil
}

func NewFileMedium(path string) (*FileMedium, error) {
	if path == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "store.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	f := &FileMedium{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &f.values); err != nil {
			f.values = make(map[string]string)
			f.quarantine(err)
		}
	}
	return f, nil
}

// quarantine moves an unparsable store aside so the next Set starts clean
// and the old bytes stay recoverable.
func (f *FileMedium) quarantine(parseErr error) {
	aside := f.path + ".corrupt"
	logger.Error("store file is malformed, starting empty", "path", f.path, "error", parseErr)
	if err := os.Rename(f.path, aside); err != nil {
		logger.Warn("could not move malformed store aside", "path", f.path, "error", err)
		return
	}
	logger.Info("malformed store kept for inspection", "path", aside)
}

func (f *FileMedium) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FileMedium) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.values[key]
	f.values[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *FileMedium) flush() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

func (f *FileMedium) Close() error {
	return nil
}
