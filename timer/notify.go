package timer

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/tasktimer/ledger"
)

// Notifier announces completed countdowns.
type Notifier struct {
	player Player
	// Sounds maps the mode that just finished to the sound to play.
	Sounds map[ledger.Mode]string
	// Messages maps the mode about to start to the notification body.
	Messages map[ledger.Mode]string
	// Icon is an optional path to a notification icon.
	Icon string
	// Cmd is run after every completed countdown.
	Cmd     string
	Desktop bool

	notify func(title, message, icon string) error
}

// NewNotifier returns a notifier that plays sounds through p. A nil player
// disables sounds.
func NewNotifier(p Player) *Notifier {
	if p == nil {
		p = NopPlayer()
	}

	return &Notifier{
		player:   p,
		Sounds:   make(map[ledger.Mode]string),
		Messages: make(map[ledger.Mode]string),
		notify:   beeep.Notify,
	}
}

// Completed sends a desktop notification, plays the configured sound and runs
// the configured command for a finished countdown. Every step is attempted
// and the first failure is returned.
func (n *Notifier) Completed(ctx context.Context, res TickResult) error {
	if !res.Done() {
		return nil
	}

	var first error

	keep := func(err error) {
		if first == nil {
			first = err
		}
	}

	if n.Desktop {
		title := displayName(res.Completed) + " is finished"

		msg := n.Messages[res.Next]
		if msg == "" && res.Next == "" {
			msg = "Timer stopped"
		}

		if err := n.notify(title, msg, n.Icon); err != nil {
			keep(fmt.Errorf("unable to display notification: %w", err))
		}
	}

	if err := n.player.Play(n.Sounds[res.Completed]); err != nil {
		keep(fmt.Errorf("unable to play sound: %w", err))
	}

	if err := runSessionCmd(ctx, n.Cmd); err != nil {
		keep(err)
	}

	return first
}

// runSessionCmd executes the specified command.
func runSessionCmd(ctx context.Context, sessionCmd string) error {
	if sessionCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return fmt.Errorf("unable to parse session_cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, cmdSlice[0], cmdSlice[1:]...)

	return cmd.Run()
}

// displayName returns a human friendly name for mode.
func displayName(mode ledger.Mode) string {
	switch mode {
	case ledger.Focus:
		return "Focus session"
	case ledger.Break:
		return "Break"
	default:
		return string(mode)
	}
}
