package detect

import (
	"camwatch/internal/common/fsutil"
)

// Open loads the Caffe network from its two model files. Missing files are
// a ModelLoadError; a build without OpenCV fails with a dependency error.
func Open(prototxt, weights string) (Network, error) {
	var missing []string
	for _, p := range []string{prototxt, weights} {
		if !fsutil.FileExists(p) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return nil, ModelLoadError{Missing: missing}
	}
	return openNetwork(prototxt, weights)
}
