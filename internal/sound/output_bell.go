//go:build !audio

package sound

import (
	"io"
	"sync"
)

// AudioEnabled reports whether this build plays through the system mixer.
const AudioEnabled = false

// bellBackend rings the terminal bell instead of playing the clip.
type bellBackend struct {
	mu  sync.Mutex
	out io.Writer
}

func newBackend(opts Options) (backend, error) {
	return &bellBackend{out: opts.Out}, nil
}

func (b *bellBackend) Play([]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.out, "\a")
	return err
}

func (b *bellBackend) Close() error { return nil }
