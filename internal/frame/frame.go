// Package frame holds decoded camera images in the packed BGR layout the
// transcoder emits.
package frame

import (
	"image"
	"image/color"
	"time"
)

// Channels is the number of bytes per pixel (B, G, R).
const Channels = 3

// Frame is one W×H image, row-major, 3 bytes per pixel in B,G,R order.
// It implements draw.Image so overlays can draw on it in place.
type Frame struct {
	Width    int
	Height   int
	Pix      []byte
	Seq      uint64
	Captured time.Time
}

// Size returns the byte length of a W×H BGR frame.
func Size(w, h int) int { return w * h * Channels }

// New allocates a black frame.
func New(w, h int) *Frame {
	return &Frame{Width: w, Height: h, Pix: make([]byte, Size(w, h))}
}

func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

func (f *Frame) offset(x, y int) int { return (y*f.Width + x) * Channels }

func (f *Frame) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(f.Bounds())) {
		return color.RGBA{}
	}
	i := f.offset(x, y)
	return color.RGBA{R: f.Pix[i+2], G: f.Pix[i+1], B: f.Pix[i], A: 0xff}
}

// Set writes c at (x, y); out-of-range points are ignored.
func (f *Frame) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(f.Bounds())) {
		return
	}
	r, g, b, _ := c.RGBA()
	i := f.offset(x, y)
	f.Pix[i] = uint8(b >> 8)
	f.Pix[i+1] = uint8(g >> 8)
	f.Pix[i+2] = uint8(r >> 8)
}

// RGBA converts the frame to an image.RGBA for encoding.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	for p, q := 0, 0; p+2 < len(f.Pix); p, q = p+Channels, q+4 {
		img.Pix[q] = f.Pix[p+2]
		img.Pix[q+1] = f.Pix[p+1]
		img.Pix[q+2] = f.Pix[p]
		img.Pix[q+3] = 0xff
	}
	return img
}
