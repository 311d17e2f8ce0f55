package countdown

import (
	"fmt"
	"time"
)

const (
	TickInterval = time.Second

	// GraceWindow keeps a task with an already-past deadline from expiring
	// the moment it is created.
	GraceWindow = 5 * time.Second
)

type Phase int

const (
	Counting Phase = iota
	Expired
)

func (p Phase) String() string {
	switch p {
	case Counting:
		return "counting"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Reading is one evaluation of a row's countdown.
type Reading struct {
	Elapsed   time.Duration
	Remaining time.Duration
	Phase     Phase
}

// Evaluate computes elapsed and remaining time. The row is Expired once the
// deadline has passed and more than GraceWindow whole seconds have elapsed
// since creation.
func Evaluate(now, createdAt, deadline time.Time) Reading {
	r := Reading{
		Elapsed:   now.Sub(createdAt),
		Remaining: deadline.Sub(now),
		Phase:     Counting,
	}
	if r.Remaining <= 0 && r.Elapsed.Truncate(time.Second) > GraceWindow {
		r.Phase = Expired
	}
	return r
}

func (r Reading) String() string {
	if r.Phase == Expired {
		return "⚠️ Time's up!"
	}

	elapsed := int(r.Elapsed / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	text := fmt.Sprintf("⏱️ Added %dm %ds ago", elapsed/60, elapsed%60)

	if r.Remaining > 0 {
		mins := int(r.Remaining / time.Minute)
		secs := int((r.Remaining % time.Minute) / time.Second)
		text += fmt.Sprintf(" | ⌛ Time left: %dm %ds", mins, secs)
	}
	return text
}
