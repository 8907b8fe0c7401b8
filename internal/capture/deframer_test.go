package capture

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestDeframer_ExactFrames(t *testing.T) {
	d := Dimensions{Width: 4, Height: 2}
	data := make([]byte, 2*d.FrameSize())
	for i := range data {
		data[i] = byte(i)
	}
	df := NewDeframer(bytes.NewReader(data), d)
	if df.FrameSize() != 24 {
		t.Fatalf("frame size = %d", df.FrameSize())
	}
	for i := 0; i < 2; i++ {
		f, err := df.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if len(f.Pix) != 24 || f.Width != 4 || f.Height != 2 || f.Seq != uint64(i+1) {
			t.Fatalf("frame %d: %+v", i, f)
		}
		if f.Pix[0] != byte(i*24) {
			t.Fatalf("frame %d starts at %d", i, f.Pix[0])
		}
	}
	if _, err := df.ReadFrame(); !IsStreamError(err) || !errors.Is(err, io.EOF) {
		t.Fatalf("expected StreamError wrapping EOF, got %v", err)
	}
}

func TestDeframer_ShortReadIsStreamError(t *testing.T) {
	d := Dimensions{Width: 320, Height: 240}
	df := NewDeframer(bytes.NewReader(make([]byte, d.FrameSize()-1)), d)
	f, err := df.ReadFrame()
	if f != nil {
		t.Fatalf("short read returned a frame")
	}
	var se StreamError
	if !errors.As(err, &se) {
		t.Fatalf("expected StreamError, got %v", err)
	}
	if se.Want != d.FrameSize() || se.Got != d.FrameSize()-1 {
		t.Fatalf("want/got = %d/%d", se.Want, se.Got)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF cause, got %v", se.Err)
	}
}

func TestDeframer_SkipFrame(t *testing.T) {
	d := Dimensions{Width: 2, Height: 2}
	data := append(bytes.Repeat([]byte{1}, 12), bytes.Repeat([]byte{2}, 12)...)
	data = append(data, 3, 3)
	df := NewDeframer(bytes.NewReader(data), d)
	if err := df.SkipFrame(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	f, err := df.ReadFrame()
	if err != nil || f.Pix[0] != 2 || f.Seq != 2 {
		t.Fatalf("read after skip: %+v %v", f, err)
	}
	err = df.SkipFrame()
	var se StreamError
	if !errors.As(err, &se) || se.Got != 2 || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected short skip StreamError, got %v", err)
	}
}
