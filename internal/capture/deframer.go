package capture

import (
	"io"
	"time"

	"camwatch/internal/frame"
)

// Deframer cuts a raw BGR byte stream into fixed-size frames.
type Deframer struct {
	r    io.Reader
	dims Dimensions
	size int
	seq  uint64
	now  func() time.Time
}

// NewDeframer reads frames of dims from r.
func NewDeframer(r io.Reader, dims Dimensions) *Deframer {
	return &Deframer{r: r, dims: dims, size: dims.FrameSize(), now: time.Now}
}

// FrameSize is the number of bytes consumed per frame.
func (d *Deframer) FrameSize() int { return d.size }

// Dimensions returns the frame size in pixels.
func (d *Deframer) Dimensions() Dimensions { return d.dims }

// ReadFrame blocks until a whole frame is read. Anything less is a
// StreamError; a partial frame is never returned.
func (d *Deframer) ReadFrame() (*frame.Frame, error) {
	buf := make([]byte, d.size)
	n, err := io.ReadFull(d.r, buf)
	if err != nil {
		return nil, StreamError{Want: d.size, Got: n, Err: err}
	}
	d.seq++
	return &frame.Frame{
		Width:    d.dims.Width,
		Height:   d.dims.Height,
		Pix:      buf,
		Seq:      d.seq,
		Captured: d.now(),
	}, nil
}

// SkipFrame consumes one frame without keeping it.
func (d *Deframer) SkipFrame() error {
	n, err := io.CopyN(io.Discard, d.r, int64(d.size))
	if err != nil {
		if err == io.EOF && n > 0 {
			err = io.ErrUnexpectedEOF
		}
		return StreamError{Want: d.size, Got: int(n), Err: err}
	}
	d.seq++
	return nil
}
