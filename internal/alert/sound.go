package alert

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"time"
)

// playTimeout bounds a single playback so a wedged player can't pile
// up processes across repeated alerts.
const playTimeout = 10 * time.Second

// Player plays the alert sound file through an external player command.
type Player struct {
	command string
	file    string
}

// NewPlayer creates a Player for the given sound file. command may be
// empty to select the platform default player.
func NewPlayer(command, file string) *Player {
	if command == "" {
		command = defaultPlayerCommand()
	}
	return &Player{
		command: command,
		file:    file,
	}
}

// Play plays the configured sound file once, blocking until playback
// finishes or the timeout elapses. Callers wanting a non-blocking cue
// run it in a goroutine.
func (p *Player) Play() error {
	if p.file == "" {
		return errors.New("no sound file configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.command, p.file)
	return cmd.Run()
}

func defaultPlayerCommand() string {
	if runtime.GOOS == "darwin" {
		return "afplay"
	}
	return "aplay"
}
