// Package sound makes detection alerts audible. Builds with the audio tag
// play a WAV clip or a synthesized beep through the system mixer; other
// builds ring the terminal bell.
package sound

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Output format of every clip handed to a backend.
const (
	SampleRate   = 44100
	ChannelCount = 2
)

// Options configures a Notifier.
type Options struct {
	// File is an optional WAV clip; empty selects the built-in beep.
	File string
	// Volume in percent, 0-100.
	Volume int
	// Out receives the bell in builds without audio output.
	Out    io.Writer
	Logger zerolog.Logger
}

type backend interface {
	Play(pcm []byte) error
	Close() error
}

// Notifier plays the alert clip. Overlapping calls are dropped while a
// clip is still playing.
type Notifier struct {
	pcm     []byte
	backend backend
	busy    atomic.Bool
	log     zerolog.Logger
}

// New prepares the clip and opens the output.
func New(opts Options) (*Notifier, error) {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	pcm, err := loadClip(opts.File)
	if err != nil {
		return nil, err
	}
	pcm = ApplyVolume(pcm, opts.Volume)
	b, err := newBackend(opts)
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	return &Notifier{pcm: pcm, backend: b, log: opts.Logger}, nil
}

func loadClip(path string) ([]byte, error) {
	if path == "" {
		return Beep(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("alert sound: %w", err)
	}
	clip, err := DecodeWAV(data)
	if err != nil {
		return nil, fmt.Errorf("alert sound %s: %w", path, err)
	}
	return clip, nil
}

// Notify plays the clip and returns when it has finished.
func (n *Notifier) Notify() {
	if !n.busy.CompareAndSwap(false, true) {
		return
	}
	defer n.busy.Store(false)
	if err := n.backend.Play(n.pcm); err != nil {
		n.log.Warn().Err(err).Msg("alert sound failed")
	}
}

// Close releases the output.
func (n *Notifier) Close() error { return n.backend.Close() }
