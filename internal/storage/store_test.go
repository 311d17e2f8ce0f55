package storage

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"duetoday/internal/logger"
	"duetoday/internal/model"
)

type brokenMedium struct{}

func (brokenMedium) Get(string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func (brokenMedium) Set(string, string) error {
	return errors.New("disk on fire")
}

func (brokenMedium) Close() error {
	return nil
}

func sampleTasks() []model.Task {
	base := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: "1", Text: "Pay rent", Deadline: "09:00", CreatedAt: base, Completed: false},
		{ID: "2", Text: "Call mom", Deadline: "18:30", CreatedAt: base.Add(time.Minute), Completed: true},
		{ID: "3", Text: "Gym", Deadline: "20:00", CreatedAt: base.Add(2 * time.Minute), Completed: false},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	medium := NewMemoryMedium()
	s := NewStore(medium, slog.Default())

	if err := s.Save(sampleTasks()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first, _, _ := medium.Get(TasksKey)

	loaded := s.Load()
	if len(loaded) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(loaded))
	}
	for i, want := range sampleTasks() {
		got := loaded[i]
		if got.ID != want.ID || got.Text != want.Text || got.Deadline != want.Deadline ||
			got.Completed != want.Completed || !got.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("task %d: got %+v, want %+v", i, got, want)
		}
	}

	// save(load()) must leave the persisted bytes untouched
	if err := s.Save(loaded); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, _, _ := medium.Get(TasksKey)
	if first != second {
		t.Errorf("content changed after save(load()):\n%s\n%s", first, second)
	}
}

func TestLoadEmptyCases(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *MemoryMedium)
	}{
		{"missing key", func(m *MemoryMedium) {}},
		{"empty string", func(m *MemoryMedium) { m.Set(TasksKey, "") }},
		{"whitespace", func(m *MemoryMedium) { m.Set(TasksKey, "  \n") }},
		{"empty array", func(m *MemoryMedium) { m.Set(TasksKey, "[]") }},
		{"null", func(m *MemoryMedium) { m.Set(TasksKey, "null") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemoryMedium()
			tt.setup(m)
			got := NewStore(m, slog.Default()).Load()
			if got == nil || len(got) != 0 {
				t.Errorf("expected empty non-nil list, got %#v", got)
			}
		})
	}
}

func TestLoadMalformedLogsAndDegrades(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	m := NewMemoryMedium()
	m.Set(TasksKey, `[{"id": "1", "text": `)

	got := NewStore(m, log).Load()
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d tasks", len(got))
	}
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("expected an error log, got %q", buf.String())
	}
}

func TestLoadReadFailureDegrades(t *testing.T) {
	var buf bytes.Buffer
	s := NewStore(brokenMedium{}, slog.New(slog.NewTextHandler(&buf, nil)))

	if got := s.Load(); len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
	if !strings.Contains(buf.String(), "disk on fire") {
		t.Errorf("expected read error logged, got %q", buf.String())
	}
	if err := s.Save(sampleTasks()); err == nil {
		t.Error("expected Save to surface the medium error")
	}
}

func TestEncodeNil(t *testing.T) {
	raw, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if raw != "[]" {
		t.Errorf("expected [], got %s", raw)
	}
}

func TestLastOpenDate(t *testing.T) {
	s := NewStore(NewMemoryMedium(), slog.Default())

	if got, err := s.LastOpenDate(); got != "" || err != nil {
		t.Errorf("expected empty marker, got %q (err %v)", got, err)
	}
	if err := s.SetLastOpenDate("Sun Oct 18 2026"); err != nil {
		t.Fatalf("SetLastOpenDate: %v", err)
	}
	if got, _ := s.LastOpenDate(); got != "Sun Oct 18 2026" {
		t.Errorf("unexpected marker %q", got)
	}

	broken := NewStore(brokenMedium{}, slog.Default())
	if _, err := broken.LastOpenDate(); err == nil {
		t.Error("read failure should be reported")
	}
}

func TestNewStoreFallsBackToGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.Init("info", false, &buf)
	defer logger.Init("info", false, nil)

	medium := NewMemoryMedium()
	medium.Set(TasksKey, "{broken")
	if tasks := NewStore(medium, nil).Load(); len(tasks) != 0 {
		t.Fatalf("expected empty list, got %v", tasks)
	}
	if !strings.Contains(buf.String(), "stored tasks are malformed") {
		t.Errorf("malformed content not logged through the global logger: %s", buf.String())
	}
}
