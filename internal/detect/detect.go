// Package detect runs the MobileNet-SSD person detector over frames and
// turns its raw output into pixel-space detections.
package detect

import (
	"fmt"
	"image"

	"camwatch/internal/frame"
)

// Preprocessing expected by the bundled Caffe MobileNet-SSD model.
const (
	InputSize   = 300
	ScaleFactor = 1 / 127.5
	Mean        = 127.5
)

// RowSize is the number of floats per output row:
// batch, class, confidence, x1, y1, x2, y2.
const RowSize = 7

// PersonClass is the index of "person" in VOCLabels.
const PersonClass = 15

// AnyClass in Options.ClassID accepts every non-background class.
const AnyClass = -1

// VOCLabels are the PASCAL VOC classes the model was trained on.
var VOCLabels = [...]string{
	"background", "aeroplane", "bicycle", "bird", "boat",
	"bottle", "bus", "car", "cat", "chair", "cow", "diningtable",
	"dog", "horse", "motorbike", "person", "pottedplant", "sheep",
	"sofa", "train", "tvmonitor",
}

// Label returns the VOC label for class, or "class N" when out of range.
func Label(class int) string {
	if class >= 0 && class < len(VOCLabels) {
		return VOCLabels[class]
	}
	return fmt.Sprintf("class %d", class)
}

// Detection is one accepted box in frame pixel coordinates.
type Detection struct {
	ClassID    int
	Label      string
	Confidence float32
	Box        image.Rectangle
}

// Options filters network output.
type Options struct {
	// Threshold is exclusive: a row must score strictly above it.
	Threshold float32
	ClassID   int
}

// DefaultOptions keeps persons scoring above 0.5.
func DefaultOptions() Options { return Options{Threshold: 0.5, ClassID: PersonClass} }

// Network is a loaded detector. Forward returns the flattened output
// tensor, RowSize floats per candidate, coordinates normalized to [0,1].
type Network interface {
	Forward(f *frame.Frame) ([]float32, error)
	Close() error
}

// Interpret filters raw output rows and scales boxes to a w×h frame.
// Coordinates are truncated toward zero, not rounded.
func Interpret(out []float32, w, h int, opts Options) []Detection {
	var dets []Detection
	for i := 0; i+RowSize <= len(out); i += RowSize {
		row := out[i : i+RowSize]
		class := int(row[1])
		conf := row[2]
		if conf <= opts.Threshold {
			continue
		}
		if opts.ClassID == AnyClass {
			if class <= 0 {
				continue
			}
		} else if class != opts.ClassID {
			continue
		}
		fw, fh := float32(w), float32(h)
		dets = append(dets, Detection{
			ClassID:    class,
			Label:      Label(class),
			Confidence: conf,
			Box:        image.Rect(int(row[3]*fw), int(row[4]*fh), int(row[5]*fw), int(row[6]*fh)),
		})
	}
	return dets
}

// Detector applies a Network and Options to frames. It holds no state
// between calls.
type Detector struct {
	net  Network
	opts Options
}

// New wraps net. Threshold <= 0 and ClassID 0 (background, never a useful
// target) take the DefaultOptions values, so a threshold of exactly zero is
// not representable. AnyClass is kept as given.
func New(net Network, opts Options) *Detector {
	def := DefaultOptions()
	if opts.Threshold <= 0 {
		opts.Threshold = def.Threshold
	}
	if opts.ClassID == 0 {
		opts.ClassID = def.ClassID
	}
	return &Detector{net: net, opts: opts}
}

// Detect runs one forward pass over f.
func (d *Detector) Detect(f *frame.Frame) ([]Detection, error) {
	if f == nil || len(f.Pix) != frame.Size(f.Width, f.Height) {
		return nil, fmt.Errorf("detect: malformed frame")
	}
	out, err := d.net.Forward(f)
	if err != nil {
		return nil, err
	}
	return Interpret(out, f.Width, f.Height, d.opts), nil
}

// Options returns the active filter.
func (d *Detector) Options() Options { return d.opts }

// Close releases the network.
func (d *Detector) Close() error { return d.net.Close() }
