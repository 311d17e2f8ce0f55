package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"duetoday/internal/logger"
	"duetoday/internal/model"
)

// Keys used in the medium.
const (
	TasksKey    = "tasks"
	LastOpenKey = "lastOpen"
)

// Store reads and writes the task list and the last-open marker.
type Store struct {
	medium Medium
	log    *slog.Logger
}

func NewStore(medium Medium, log *slog.Logger) *Store {
	if log == nil {
		log = logger.Get()
	}
	return &Store{medium: medium, log: log}
}

// Load returns the persisted list. Missing or blank content is an empty list;
// unreadable or malformed content is logged and also yields an empty list.
func (s *Store) Load() []model.Task {
	raw, ok, err := s.medium.Get(TasksKey)
	if err != nil {
		s.log.Error("reading tasks failed, starting empty", "error", err)
		return []model.Task{}
	}
	if !ok {
		return []model.Task{}
	}

	tasks, err := Decode(raw)
	if err != nil {
		s.log.Error("stored tasks are malformed, starting empty", "error", err, "bytes", len(raw))
		return []model.Task{}
	}
	return tasks
}

// Save overwrites the persisted list with tasks.
func (s *Store) Save(tasks []model.Task) error {
	raw, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := s.medium.Set(TasksKey, raw); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// LastOpenDate returns the stored marker, "" when none was written yet.
// A read error is returned so callers can tell it from a missing marker.
func (s *Store) LastOpenDate() (string, error) {
	v, _, err := s.medium.Get(LastOpenKey)
	if err != nil {
		return "", fmt.Errorf("read last open date: %w", err)
	}
	return v, nil
}

func (s *Store) SetLastOpenDate(date string) error {
	if err := s.medium.Set(LastOpenKey, date); err != nil {
		return fmt.Errorf("save last open date: %w", err)
	}
	return nil
}

// Decode parses a stored task list. Blank input is an empty list.
func Decode(raw string) ([]model.Task, error) {
	if strings.TrimSpace(raw) == "" {
		return []model.Task{}, nil
	}
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Encode serializes tasks in order; nil encodes as [].
func Encode(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}
