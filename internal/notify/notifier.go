// Package notify raises the expiry prompt. Only one prompt is tracked at a
// time: an expiry that arrives while a prompt is open replaces the tracked
// task, and the earlier task is not prompted again.
package notify

import (
	"errors"
	"fmt"
	"log/slog"

	"duetoday/internal/logger"
	"duetoday/internal/metrics"
)

// ErrAudioBlocked is reported before the user has pressed any key.
var ErrAudioBlocked = errors.New("audio blocked until first interaction")

// Prompt is the confirmation shown when a task runs out of time.
type Prompt struct {
	Visible bool
	TaskID  string
	Message string
}

type Notifier struct {
	player     Player
	prompt     Prompt
	interacted bool
	metrics    *metrics.Metrics
	log        *slog.Logger
}

func New(player Player, m *metrics.Metrics, log *slog.Logger) *Notifier {
	if player == nil {
		player = Silent{}
	}
	if m == nil {
		m = metrics.New()
	}
	if log == nil {
		log = logger.Get()
	}
	return &Notifier{player: player, metrics: m, log: log}
}

// MarkInteraction unlocks sound playback.
func (n *Notifier) MarkInteraction() {
	n.interacted = true
}

// Notify plays the alert sound, then shows the prompt for the task.
func (n *Notifier) Notify(taskID, text string) {
	n.metrics.ExpiryAlerts.Inc()

	if err := n.play(); err != nil {
		n.metrics.SoundFailures.Inc()
		n.log.Warn("alert sound not played", "task", taskID, "error", err)
	}

	if n.prompt.Visible && n.prompt.TaskID != taskID {
		n.log.Debug("prompt replaced", "previous", n.prompt.TaskID, "task", taskID)
	}
	n.prompt = Prompt{
		Visible: true,
		TaskID:  taskID,
		Message: fmt.Sprintf("⏰ \"%s\" time's up!", text),
	}
}

func (n *Notifier) play() (err error) {
	if !n.interacted {
		return ErrAudioBlocked
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("player panicked: %v", r)
		}
	}()
	return n.player.Play()
}

// Confirm hides the prompt and hands back the tracked task id.
func (n *Notifier) Confirm() (string, bool) {
	if !n.prompt.Visible {
		return "", false
	}
	id := n.prompt.TaskID
	n.prompt = Prompt{}
	return id, id != ""
}

// Dismiss hides the prompt without touching the task.
func (n *Notifier) Dismiss() {
	n.prompt = Prompt{}
}

func (n *Notifier) Prompt() Prompt {
	return n.prompt
}
