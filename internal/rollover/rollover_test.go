package rollover

import (
	"errors"
	"testing"
	"time"

	"duetoday/internal/logger"
	"duetoday/internal/model"
	"duetoday/internal/storage"
)

func seed(t *testing.T, marker string, tasks []model.Task) *storage.Store {
	t.Helper()
	s := storage.NewStore(storage.NewMemoryMedium(), logger.Discard())
	if err := s.Save(tasks); err != nil {
		t.Fatal(err)
	}
	if marker != "" {
		if err := s.SetLastOpenDate(marker); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestRolloverResetsCompletionNotCreation(t *testing.T) {
	today := time.Date(2026, 10, 18, 8, 0, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)
	created := yesterday.Add(3 * time.Hour).UTC().Truncate(time.Millisecond)

	s := seed(t, model.DayMarker(yesterday), []model.Task{
		{ID: "1", Text: "Gym", Deadline: "07:00", CreatedAt: created, Completed: true},
		{ID: "2", Text: "Read", Deadline: "22:00", CreatedAt: created, Completed: false},
	})

	rolled, err := Run(s, today, logger.Discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rolled {
		t.Fatal("expected rollover on a new day")
	}

	tasks := s.Load()
	for _, task := range tasks {
		if task.Completed {
			t.Errorf("task %s still completed", task.ID)
		}
		if !task.CreatedAt.Equal(created) {
			t.Errorf("task %s createdAt changed to %v", task.ID, task.CreatedAt)
		}
	}
	if got, _ := s.LastOpenDate(); got != model.DayMarker(today) {
		t.Errorf("marker = %q", got)
	}
}

func TestNoRolloverSameDay(t *testing.T) {
	today := time.Date(2026, 10, 18, 8, 0, 0, 0, time.Local)
	s := seed(t, model.DayMarker(today), []model.Task{
		{ID: "1", Text: "Gym", Deadline: "07:00", CreatedAt: today.UTC(), Completed: true},
	})

	rolled, err := Run(s, today.Add(5*time.Hour), logger.Discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rolled {
		t.Error("unexpected rollover")
	}
	if !s.Load()[0].Completed {
		t.Error("completion reset on the same day")
	}
}

func TestFirstRunWritesMarker(t *testing.T) {
	now := time.Date(2026, 10, 18, 8, 0, 0, 0, time.Local)
	s := storage.NewStore(storage.NewMemoryMedium(), logger.Discard())

	rolled, err := Run(s, now, logger.Discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rolled {
		t.Error("missing marker counts as a new day")
	}
	if got, _ := s.LastOpenDate(); got != model.DayMarker(now) {
		t.Errorf("marker = %q", got)
	}
	if len(s.Load()) != 0 {
		t.Error("expected empty list")
	}
}

// unreadableMarker fails marker reads the way a timed-out redis GET does.
type unreadableMarker struct {
	*storage.Store
	saves int
}

func (u *unreadableMarker) LastOpenDate() (string, error) {
	return "", errors.New("i/o timeout")
}

func (u *unreadableMarker) Save(tasks []model.Task) error {
	u.saves++
	return u.Store.Save(tasks)
}

func TestMarkerReadErrorLeavesListAlone(t *testing.T) {
	today := time.Date(2026, 10, 18, 8, 0, 0, 0, time.Local)
	s := seed(t, model.DayMarker(today.AddDate(0, 0, -1)), []model.Task{
		{ID: "1", Text: "Gym", Deadline: "07:00", CreatedAt: today.UTC(), Completed: true},
	})
	p := &unreadableMarker{Store: s}

	rolled, err := Run(p, today, logger.Discard())
	if err == nil {
		t.Fatal("expected marker read error")
	}
	if rolled || p.saves != 0 {
		t.Errorf("rolled=%v saves=%d, want no rewrite", rolled, p.saves)
	}
	if tasks := s.Load(); len(tasks) != 1 || !tasks[0].Completed {
		t.Errorf("list changed: %+v", tasks)
	}
	if got, _ := s.LastOpenDate(); got != model.DayMarker(today.AddDate(0, 0, -1)) {
		t.Errorf("marker overwritten: %q", got)
	}
}
