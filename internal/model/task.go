package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ISOLayout matches the millisecond ISO-8601 form stored in createdAt.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// DateLayout is the day marker format used for rollover detection.
const DateLayout = "Mon Jan 02 2006"

var ErrBadDeadline = errors.New("deadline must be HH:MM")

// Task is the only persisted entity.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Deadline  string    `json:"deadline"`
	CreatedAt time.Time `json:"createdAt"`
	Completed bool      `json:"completed"`
}

type taskJSON struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Deadline  string `json:"deadline"`
	CreatedAt string `json:"createdAt"`
	Completed bool   `json:"completed"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskJSON{
		ID:        t.ID,
		Text:      t.Text,
		Deadline:  t.Deadline,
		CreatedAt: FormatISO(t.CreatedAt),
		Completed: t.Completed,
	})
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	created, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		return fmt.Errorf("task %s: createdAt: %w", raw.ID, err)
	}
	*t = Task{
		ID:        raw.ID,
		Text:      raw.Text,
		Deadline:  raw.Deadline,
		CreatedAt: created,
		Completed: raw.Completed,
	}
	return nil
}

// FormatISO renders t in UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// NewID derives an id from the creation instant.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// New builds a pending task created at now. Text and deadline are taken as given.
func New(text, deadline string, now time.Time) Task {
	return Task{
		ID:        NewID(now),
		Text:      text,
		Deadline:  deadline,
		CreatedAt: now.Truncate(time.Millisecond),
		Completed: false,
	}
}

// ParseDeadline splits an "HH:MM" string into hour and minute.
func ParseDeadline(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, ErrBadDeadline
	}
	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrBadDeadline
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrBadDeadline
	}
	return hour, minute, nil
}

// DeadlineOn anchors the task's time-of-day deadline to the local date of day.
func (t Task) DeadlineOn(day time.Time) (time.Time, error) {
	hour, minute, err := ParseDeadline(t.Deadline)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location()), nil
}

// DayMarker is the local calendar day of now as stored under lastOpen.
func DayMarker(now time.Time) string {
	return now.Format(DateLayout)
}
