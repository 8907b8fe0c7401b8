// Package overlay draws detection boxes and labels onto frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"camwatch/internal/detect"
)

// Green is the box and label color.
var Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// Thickness of the box outline in pixels.
const Thickness = 2

// labelOffset is the distance between the box top and the label baseline.
const labelOffset = 15

// Caption formats a detection as "Person: 91.23%".
func Caption(d detect.Detection) string {
	label := d.Label
	if r, n := utf8.DecodeRuneInString(label); n > 0 {
		label = string(unicode.ToUpper(r)) + label[n:]
	}
	return fmt.Sprintf("%s: %.2f%%", label, d.Confidence*100)
}

// LabelOrigin returns the baseline position of the caption for box: above
// the box, or just inside it when the box touches the top of the frame.
func LabelOrigin(box image.Rectangle) image.Point {
	y := box.Min.Y - labelOffset
	if y <= labelOffset {
		y = box.Min.Y + labelOffset
	}
	return image.Pt(box.Min.X, y)
}

// Annotate draws every detection onto img in place.
func Annotate(img draw.Image, dets []detect.Detection) {
	for _, d := range dets {
		Box(img, d.Box, Green, Thickness)
		Label(img, LabelOrigin(d.Box), Caption(d), Green)
	}
}

// Box outlines r with the given thickness, growing inward. Pixels outside
// img are skipped.
func Box(img draw.Image, r image.Rectangle, c color.Color, thickness int) {
	r = r.Canon()
	if r.Empty() || thickness <= 0 {
		return
	}
	b := img.Bounds()
	set := func(x, y int) {
		if (image.Point{X: x, Y: y}).In(b) {
			img.Set(x, y, c)
		}
	}
	for t := 0; t < thickness; t++ {
		top, bottom := r.Min.Y+t, r.Max.Y-1-t
		left, right := r.Min.X+t, r.Max.X-1-t
		for x := r.Min.X; x < r.Max.X; x++ {
			set(x, top)
			set(x, bottom)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			set(left, y)
			set(right, y)
		}
	}
}

// Label draws text with its baseline at p.
func Label(img draw.Image, p image.Point, text string, c color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(p.X), Y: fixed.I(p.Y)},
	}
	d.DrawString(text)
}
