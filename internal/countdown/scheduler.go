package countdown

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"duetoday/internal/model"
)

// TickMsg is delivered once per TickInterval for an armed row.
type TickMsg struct {
	ID  string
	Gen uint64
}

// Ticker schedules fn after d. tea.Tick in production.
type Ticker func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

type timer struct {
	gen       uint64
	createdAt time.Time
	deadline  time.Time
	phase     Phase
	alerted   bool
	reading   Reading
	ticked    bool
}

// Outcome reports what a tick did.
type Outcome struct {
	ID      string
	Stale   bool
	Reading Reading
	// Expired is set on the tick that entered the Expired phase.
	Expired bool
	// Alert is set at most once per armed timer.
	Alert bool
	Next  tea.Cmd
}

// Scheduler owns one timer per pending row, keyed by task id.
type Scheduler struct {
	timers map[string]*timer
	gen    uint64
	now    func() time.Time
	tick   Ticker
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithTicker(t Ticker) Option {
	return func(s *Scheduler) { s.tick = t }
}

func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		timers: make(map[string]*timer),
		now:    time.Now,
		tick:   tea.Tick,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Arm replaces any timer for t with a fresh one and returns its first tick.
// Completed tasks and tasks without a usable deadline are not armed.
func (s *Scheduler) Arm(t model.Task) tea.Cmd {
	s.Cancel(t.ID)
	if t.Completed {
		return nil
	}
	deadline, err := t.DeadlineOn(s.now())
	if err != nil {
		return nil
	}

	s.gen++
	s.timers[t.ID] = &timer{
		gen:       s.gen,
		createdAt: t.CreatedAt,
		deadline:  deadline,
		phase:     Counting,
	}
	return s.next(t.ID, s.gen)
}

func (s *Scheduler) next(id string, gen uint64) tea.Cmd {
	return s.tick(TickInterval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, Gen: gen}
	})
}

// Handle advances the timer addressed by msg. Ticks for cancelled or
// superseded timers come back Stale and schedule nothing.
func (s *Scheduler) Handle(msg TickMsg) Outcome {
	out := Outcome{ID: msg.ID}

	tm, ok := s.timers[msg.ID]
	if !ok || tm.gen != msg.Gen || tm.phase == Expired {
		out.Stale = true
		return out
	}

	tm.reading = Evaluate(s.now(), tm.createdAt, tm.deadline)
	tm.ticked = true
	out.Reading = tm.reading

	if tm.reading.Phase == Expired {
		tm.phase = Expired
		out.Expired = true
		if !tm.alerted {
			tm.alerted = true
			out.Alert = true
		}
		return out
	}

	out.Next = s.next(msg.ID, tm.gen)
	return out
}

// Cancel tears down the timer for id. It reports whether one was active.
func (s *Scheduler) Cancel(id string) bool {
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	return true
}

func (s *Scheduler) CancelAll() {
	clear(s.timers)
}

// Active is the number of armed timers, expired ones included.
func (s *Scheduler) Active() int {
	return len(s.timers)
}

func (s *Scheduler) Armed(id string) bool {
	_, ok := s.timers[id]
	return ok
}

func (s *Scheduler) Phase(id string) (Phase, bool) {
	tm, ok := s.timers[id]
	if !ok {
		return Counting, false
	}
	return tm.phase, true
}

// Reading returns the last reading for id; ok is false before the first tick.
func (s *Scheduler) Reading(id string) (Reading, bool) {
	tm, ok := s.timers[id]
	if !ok || !tm.ticked {
		return Reading{}, false
	}
	return tm.reading, true
}

// Alerted reports whether the current timer for id has fired its alert.
func (s *Scheduler) Alerted(id string) bool {
	tm, ok := s.timers[id]
	return ok && tm.alerted
}
