// Package sink hands analyzed frames to the presentation side and gates
// audible alerts behind a cooldown.
package sink

import (
	"sync/atomic"

	"camwatch/internal/frame"
)

// Slot is a single-frame mailbox between one producer and one consumer.
// Publish never blocks; a newer frame replaces an unconsumed one.
type Slot struct {
	ch    chan *frame.Frame
	drops atomic.Uint64
}

// NewSlot returns an empty Slot.
func NewSlot() *Slot {
	return &Slot{ch: make(chan *frame.Frame, 1)}
}

// Publish leaves f as the only frame in the slot.
func (s *Slot) Publish(f *frame.Frame) {
	for {
		select {
		case s.ch <- f:
			return
		default:
		}
		// Full: drop the stale frame. The consumer may take it first, in
		// which case the next send succeeds.
		select {
		case <-s.ch:
			s.drops.Add(1)
		default:
		}
	}
}

// TryConsume returns the pending frame, or nil without blocking.
func (s *Slot) TryConsume() *frame.Frame {
	select {
	case f := <-s.ch:
		return f
	default:
		return nil
	}
}

// Len is 0 or 1.
func (s *Slot) Len() int { return len(s.ch) }

// Drops counts frames replaced before they were consumed.
func (s *Slot) Drops() uint64 { return s.drops.Load() }
