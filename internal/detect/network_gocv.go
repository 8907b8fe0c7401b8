//go:build gocv

package detect

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"camwatch/internal/frame"
)

// OpenCVEnabled reports whether this build can run the network.
const OpenCVEnabled = true

type caffeNetwork struct {
	mu  sync.Mutex
	net gocv.Net
}

func openNetwork(prototxt, weights string) (Network, error) {
	net := gocv.ReadNetFromCaffe(prototxt, weights)
	if net.Empty() {
		return nil, ModelLoadError{Err: fmt.Errorf("opencv could not read %s / %s", prototxt, weights)}
	}
	return &caffeNetwork{net: net}, nil
}

func (c *caffeNetwork) Forward(f *frame.Frame) ([]float32, error) {
	img, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Pix)
	if err != nil {
		return nil, fmt.Errorf("wrap frame: %w", err)
	}
	defer img.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	size := image.Pt(InputSize, InputSize)
	gocv.Resize(img, &resized, size, 0, 0, gocv.InterpolationLinear)

	blob := gocv.BlobFromImage(resized, ScaleFactor, size, gocv.NewScalar(Mean, Mean, Mean, 0), false, false)
	defer blob.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.net.SetInput(blob, "")
	out := c.net.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	// The Mat owns data; copy before it is closed.
	return append([]float32(nil), data...), nil
}

func (c *caffeNetwork) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.net.Close()
}
