package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"duetoday/internal/logger"
	"duetoday/internal/metrics"
)

type countingPlayer struct {
	plays int
	err   error
}

func (p *countingPlayer) Play() error {
	p.plays++
	return p.err
}

type panickyPlayer struct{}

func (panickyPlayer) Play() error {
	panic("no audio device")
}

func TestNotifyShowsPrompt(t *testing.T) {
	player := &countingPlayer{}
	n := New(player, metrics.New(), logger.Discard())
	n.MarkInteraction()

	n.Notify("42", "Pay rent")

	p := n.Prompt()
	if !p.Visible || p.TaskID != "42" {
		t.Fatalf("unexpected prompt %+v", p)
	}
	if p.Message != `⏰ "Pay rent" time's up!` {
		t.Errorf("message = %q", p.Message)
	}
	if player.plays != 1 {
		t.Errorf("plays = %d", player.plays)
	}
}

func TestSoundFailureIsSwallowed(t *testing.T) {
	tests := []struct {
		name     string
		player   Player
		interact bool
	}{
		{"player error", &countingPlayer{err: errors.New("device busy")}, true},
		{"player panic", panickyPlayer{}, true},
		{"before interaction", &countingPlayer{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			n := New(tt.player, m, logger.Discard())
			if tt.interact {
				n.MarkInteraction()
			}

			n.Notify("1", "Gym")

			if !n.Prompt().Visible {
				t.Error("prompt must appear even when sound fails")
			}
			if got := testutil.ToFloat64(m.SoundFailures); got != 1 {
				t.Errorf("sound failures = %v", got)
			}
		})
	}
}

func TestLaterExpiryReplacesTrackedTask(t *testing.T) {
	n := New(nil, nil, logger.Discard())

	n.Notify("1", "first")
	n.Notify("2", "second")

	id, ok := n.Confirm()
	if !ok || id != "2" {
		t.Fatalf("Confirm = %q, %v", id, ok)
	}
	if n.Prompt().Visible {
		t.Error("prompt still visible after confirm")
	}
	if _, ok := n.Confirm(); ok {
		t.Error("second confirm should have nothing to target")
	}
}

func TestDismiss(t *testing.T) {
	m := metrics.New()
	n := New(nil, m, logger.Discard())

	n.Notify("7", "Read")
	n.Dismiss()

	if n.Prompt().Visible || n.Prompt().TaskID != "" {
		t.Errorf("prompt not cleared: %+v", n.Prompt())
	}
	if got := testutil.ToFloat64(m.ExpiryAlerts); got != 1 {
		t.Errorf("alerts = %v", got)
	}
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	if err := (Bell{W: &buf}).Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if buf.String() != "\a" {
		t.Errorf("wrote %q", buf.String())
	}
	if err := (Bell{}).Play(); err == nil {
		t.Error("bell without writer should fail")
	}
}

func TestCommandPlayer(t *testing.T) {
	if err := (Command{}).Play(); err == nil {
		t.Error("empty command should fail")
	}
	err := (Command{Line: "/definitely/not/a/player --quiet"}).Play()
	if err == nil || !strings.Contains(err.Error(), "start") {
		t.Errorf("expected start error, got %v", err)
	}
}
