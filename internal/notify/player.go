package notify

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Player makes a fire-and-forget alert sound. Play may fail; callers swallow it.
type Player interface {
	Play() error
}

// Bell rings the terminal bell.
type Bell struct {
	W io.Writer
}

func (b Bell) Play() error {
	if b.W == nil {
		return errors.New("bell has no output")
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Command starts an external audio player and does not wait for it.
type Command struct {
	Line string
}

func (c Command) Play() error {
	fields := strings.Fields(c.Line)
	if len(fields) == 0 {
		return errors.New("empty sound command")
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", fields[0], err)
	}
	go cmd.Wait()
	return nil
}

type Silent struct{}

func (Silent) Play() error {
	return nil
}
