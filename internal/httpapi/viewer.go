package httpapi

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"sync"
	"time"

	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"

	"camwatch/internal/frame"
	"camwatch/internal/sink"
)

// ViewerConfig configures a Viewer. Zero values fall back to defaults.
type ViewerConfig struct {
	Slot     *sink.Slot
	Interval time.Duration
	Width    int
	Height   int
	Quality  int
	Logger   zerolog.Logger
}

const (
	defaultRefresh = 100 * time.Millisecond
	defaultWidth   = 640
	defaultHeight  = 360
	defaultQuality = 80
)

// Viewer is the refresh cycle of the preview: it polls the slot on a fixed
// tick, never blocking, and keeps the latest frame scaled and JPEG-encoded.
type Viewer struct {
	cfg ViewerConfig

	mu      sync.Mutex
	jpeg    []byte
	seq     uint64
	changed chan struct{}
}

// NewViewer applies defaults to cfg and returns a Viewer.
func NewViewer(cfg ViewerConfig) *Viewer {
	if cfg.Slot == nil {
		cfg.Slot = sink.NewSlot()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultRefresh
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = defaultQuality
	}
	return &Viewer{cfg: cfg, changed: make(chan struct{})}
}

// Run ticks until ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) {
	t := time.NewTicker(v.cfg.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			v.Refresh()
		}
	}
}

// Refresh takes a pending frame from the slot, if any, and renders it.
// It reports whether a new view was produced.
func (v *Viewer) Refresh() bool {
	f := v.cfg.Slot.TryConsume()
	if f == nil {
		return false
	}
	b, err := v.render(f)
	if err != nil {
		v.cfg.Logger.Warn().Err(err).Uint64("seq", f.Seq).Msg("encode frame")
		return false
	}
	viewerFrames.Inc()
	v.mu.Lock()
	v.jpeg = b
	v.seq++
	close(v.changed)
	v.changed = make(chan struct{})
	v.mu.Unlock()
	return true
}

func (v *Viewer) render(f *frame.Frame) ([]byte, error) {
	src := f.RGBA()
	var img image.Image = src
	if f.Width != v.cfg.Width || f.Height != v.cfg.Height {
		dst := image.NewRGBA(image.Rect(0, 0, v.cfg.Width, v.cfg.Height))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		img = dst
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: v.cfg.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Latest returns the current JPEG view and its sequence number; nil before
// the first frame.
func (v *Viewer) Latest() ([]byte, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.jpeg, v.seq
}

// Next blocks until a view newer than seq exists or ctx ends.
func (v *Viewer) Next(ctx context.Context, seq uint64) ([]byte, uint64, error) {
	for {
		v.mu.Lock()
		if v.seq > seq && v.jpeg != nil {
			b, s := v.jpeg, v.seq
			v.mu.Unlock()
			return b, s, nil
		}
		ch := v.changed
		v.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, seq, ctx.Err()
		case <-ch:
		}
	}
}
