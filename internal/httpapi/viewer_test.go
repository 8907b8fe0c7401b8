package httpapi

import (
	"bytes"
	"context"
	"image/jpeg"
	"testing"
	"time"

	"camwatch/internal/frame"
	"camwatch/internal/sink"
)

func TestViewer_RefreshScalesToDisplay(t *testing.T) {
	slot := sink.NewSlot()
	v := NewViewer(ViewerConfig{Slot: slot, Width: 64, Height: 36})

	if v.Refresh() {
		t.Fatalf("refresh with an empty slot should do nothing")
	}
	if img, seq := v.Latest(); img != nil || seq != 0 {
		t.Fatalf("latest before first frame: %d bytes seq=%d", len(img), seq)
	}

	slot.Publish(frame.New(320, 240))
	if !v.Refresh() {
		t.Fatalf("refresh did not consume the frame")
	}
	if slot.Len() != 0 {
		t.Fatalf("slot not drained")
	}
	img, seq := v.Latest()
	if seq != 1 {
		t.Fatalf("seq=%d", seq)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 36 {
		t.Fatalf("encoded %dx%d, want 64x36", cfg.Width, cfg.Height)
	}
}

func TestViewer_NextWaitsForNewFrame(t *testing.T) {
	slot := sink.NewSlot()
	v := NewViewer(ViewerConfig{Slot: slot, Width: 16, Height: 16})

	got := make(chan uint64, 1)
	go func() {
		_, seq, err := v.Next(context.Background(), 0)
		if err == nil {
			got <- seq
		}
	}()
	time.Sleep(20 * time.Millisecond)
	slot.Publish(frame.New(16, 16))
	v.Refresh()
	select {
	case seq := <-got:
		if seq != 1 {
			t.Fatalf("seq=%d", seq)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Next did not wake up")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := v.Next(ctx, 1); err == nil {
		t.Fatalf("Next should fail on a cancelled context")
	}
}

func TestViewer_RunPollsSlot(t *testing.T) {
	slot := sink.NewSlot()
	v := NewViewer(ViewerConfig{Slot: slot, Interval: 5 * time.Millisecond, Width: 16, Height: 16})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { v.Run(ctx); close(done) }()

	slot.Publish(frame.New(16, 16))
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, seq := v.Latest(); seq > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
	if _, seq := v.Latest(); seq != 1 {
		t.Fatalf("seq=%d", seq)
	}
}
