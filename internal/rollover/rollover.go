package rollover

import (
	"fmt"
	"log/slog"
	"time"

	"duetoday/internal/model"
)

// Persistence is what the job reads and rewrites.
type Persistence interface {
	Load() []model.Task
	Save(tasks []model.Task) error
	LastOpenDate() (string, error)
	SetLastOpenDate(date string) error
}

// Run resets every task to pending when today differs from the last-open
// marker, then records today. createdAt is left alone, so elapsed time keeps
// counting from when the task was created.
func Run(p Persistence, now time.Time, log *slog.Logger) (bool, error) {
	today := model.DayMarker(now)
	last, err := p.LastOpenDate()
	if err != nil {
		// an unreadable marker says nothing about the day; leave the list alone
		return false, fmt.Errorf("rollover marker: %w", err)
	}

	rolled := false
	if last != today {
		tasks := p.Load()
		for i := range tasks {
			tasks[i].Completed = false
		}
		if err := p.Save(tasks); err != nil {
			return false, fmt.Errorf("rollover save: %w", err)
		}
		rolled = true
		log.Info("new day, completion reset", "previous", last, "today", today, "tasks", len(tasks))
	}

	if err := p.SetLastOpenDate(today); err != nil {
		return rolled, fmt.Errorf("rollover marker: %w", err)
	}
	return rolled, nil
}
