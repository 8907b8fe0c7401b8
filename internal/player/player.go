// Package player opens the camera in an external media player. The player is
// fire-and-forget: it owns its window and is only polled for exit.
package player

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"camwatch/internal/capture"
	"camwatch/internal/config"
)

// ErrAlreadyRunning is returned by Start while a player window is open.
var ErrAlreadyRunning = errors.New("player already running")

// Config configures a Player. Zero values fall back to defaults.
type Config struct {
	Bin string
	// PollInterval is how often Wait checks whether the player exited.
	PollInterval time.Duration
	LookPath     func(string) (string, error)
	// Command builds the process; tests swap it for a helper.
	Command func(bin string, args ...string) *exec.Cmd
	Logger  zerolog.Logger
}

const (
	defaultBin          = "ffplay"
	defaultPollInterval = time.Second
)

// Player launches and tracks one media player process at a time.
type Player struct {
	cfg Config

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

// New applies defaults to cfg and returns a Player.
func New(cfg Config) *Player {
	if cfg.Bin == "" {
		cfg.Bin = defaultBin
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.LookPath == nil {
		cfg.LookPath = exec.LookPath
	}
	if cfg.Command == nil {
		cfg.Command = exec.Command
	}
	return &Player{cfg: cfg}
}

// Args returns the player argv for rawURL.
func Args(rawURL string) []string {
	return []string{"-noborder", "-autoexit", rawURL}
}

// Start resolves the player executable and launches it for src with its
// output discarded. A missing executable is a capture.LaunchError.
func (p *Player) Start(src config.CameraSource) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil && !closed(p.done) {
		return ErrAlreadyRunning
	}
	path, err := p.cfg.LookPath(p.cfg.Bin)
	if err != nil {
		return capture.LaunchError{Bin: p.cfg.Bin, Err: err}
	}
	cmd := p.cfg.Command(path, Args(capture.SourceURL(src).String())...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan struct{})
	p.cmd, p.done, p.err = cmd, done, nil
	p.cfg.Logger.Info().Int("pid", cmd.Process.Pid).Str("url", capture.Redacted(src)).Msg("player started")
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(done)
	}()
	return nil
}

// Running reports whether the player process is still alive.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done != nil && !closed(p.done)
}

// Wait polls until the player exits or ctx ends. It returns the player's exit
// status, or ctx.Err() after stopping the player.
func (p *Player) Wait(ctx context.Context) error {
	t := time.NewTicker(p.cfg.PollInterval)
	defer t.Stop()
	for {
		if !p.Running() {
			p.mu.Lock()
			err := p.err
			p.mu.Unlock()
			p.cfg.Logger.Info().Msg("player closed")
			return err
		}
		select {
		case <-ctx.Done():
			p.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Stop kills the player if it is running and waits for it to exit.
func (p *Player) Stop() {
	p.mu.Lock()
	cmd, done := p.cmd, p.done
	p.mu.Unlock()
	if cmd == nil || done == nil || closed(done) {
		return
	}
	_ = cmd.Process.Kill()
	<-done
}

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
