// Package store keeps the in-memory task list and mirrors every change to
// the persistence layer as a full snapshot.
package store

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"duetoday/internal/logger"
	"duetoday/internal/metrics"
	"duetoday/internal/model"
)

// ErrInvalidInput marks rejected user input. Callers treat it as a no-op.
var ErrInvalidInput = errors.New("invalid input")

// Persister is the slice of storage.Store the task store needs.
type Persister interface {
	Load() []model.Task
	Save(tasks []model.Task) error
}

type Store struct {
	tasks   []model.Task
	persist Persister
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func New(p Persister, opts ...Option) *Store {
	s := &Store{persist: p, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// Hydrate replaces the in-memory list with the persisted one.
func (s *Store) Hydrate() {
	s.tasks = s.persist.Load()
}

// Tasks returns a copy of the list in insertion order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Get(id string) (model.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

func (s *Store) Len() int {
	return len(s.tasks)
}

// Create validates input and builds a pending task. It does not add it.
func (s *Store) Create(text, deadline string) (model.Task, error) {
	text = strings.TrimSpace(text)
	deadline = strings.TrimSpace(deadline)
	if text == "" || deadline == "" {
		return model.Task{}, ErrInvalidInput
	}
	if _, _, err := model.ParseDeadline(deadline); err != nil {
		return model.Task{}, ErrInvalidInput
	}

	t := model.New(text, deadline, s.now())
	// same-millisecond adds get the next free id
	for s.index(t.ID) >= 0 {
		n, _ := strconv.ParseInt(t.ID, 10, 64)
		t.ID = strconv.FormatInt(n+1, 10)
	}
	return t, nil
}

func (s *Store) Add(t model.Task) error {
	s.tasks = append(s.tasks, t)
	s.metrics.TasksAdded.Inc()
	s.metrics.TaskTextLength.Observe(float64(len(t.Text)))
	return s.save()
}

// Edit replaces the text of id. It reports false when id is unknown.
func (s *Store) Edit(id, text string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		s.metrics.TasksEdited.WithLabelValues("missing").Inc()
		return false, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.metrics.TasksEdited.WithLabelValues("rejected").Inc()
		return false, ErrInvalidInput
	}

	s.tasks[i].Text = text
	s.metrics.TasksEdited.WithLabelValues("success").Inc()
	return true, s.save()
}

// Toggle flips completion of id and returns the updated task.
func (s *Store) Toggle(id string) (model.Task, bool, error) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false, nil
	}

	s.tasks[i].Completed = !s.tasks[i].Completed
	to := "pending"
	if s.tasks[i].Completed {
		to = "completed"
	}
	s.metrics.TasksToggled.WithLabelValues(to).Inc()
	return s.tasks[i], true, s.save()
}

// Remove drops id. Removing an unknown id still rewrites the snapshot.
func (s *Store) Remove(id string) error {
	kept := s.tasks[:0]
	removed := false
	for _, t := range s.tasks {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	if removed {
		s.metrics.TasksRemoved.Inc()
	}
	return s.save()
}

func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) save() error {
	startTime := time.Now()
	defer func() {
		s.metrics.SaveDuration.Observe(time.Since(startTime).Seconds())
	}()

	if err := s.persist.Save(s.Tasks()); err != nil {
		s.metrics.SaveErrors.Inc()
		s.log.Error("saving tasks failed", "error", err)
		return err
	}
	return nil
}
