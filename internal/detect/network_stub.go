//go:build !gocv

package detect

// OpenCVEnabled reports whether this build can run the network.
const OpenCVEnabled = false

func openNetwork(prototxt, weights string) (Network, error) {
	return nil, ErrDependencyUnavailable("opencv support not compiled in; rebuild with -tags gocv")
}
