//go:build audio

package sound

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// AudioEnabled reports whether this build plays through the system mixer.
const AudioEnabled = true

// oto allows a single context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func sharedContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: ChannelCount,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

type otoBackend struct {
	ctx *oto.Context
}

func newBackend(Options) (backend, error) {
	ctx, err := sharedContext()
	if err != nil {
		return nil, err
	}
	return &otoBackend{ctx: ctx}, nil
}

func (b *otoBackend) Play(pcm []byte) error {
	p := b.ctx.NewPlayer(bytes.NewReader(pcm))
	defer p.Close()
	p.Play()
	for p.IsPlaying() {
		time.Sleep(20 * time.Millisecond)
	}
	return p.Err()
}

func (b *otoBackend) Close() error { return nil }
