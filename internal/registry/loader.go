package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"camwatch/internal/common/fsutil"
	"camwatch/pkg/types"
)

const (
	prototxtExt = ".prototxt"
	weightsExt  = ".caffemodel"
)

// LoadDir scans a directory for Caffe model pairs: a .prototxt and a
// .caffemodel sharing the same stem. Paths are absolute; pairs are sorted
// by stem.
func LoadDir(dir string) ([]types.ModelFiles, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	protos := map[string]string{}
	weights := map[string]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		switch ext {
		case prototxtExt:
			protos[stem] = filepath.Join(abs, name)
		case weightsExt:
			weights[stem] = filepath.Join(abs, name)
		}
	}
	stems := make([]string, 0, len(protos))
	for s := range protos {
		if _, ok := weights[s]; ok {
			stems = append(stems, s)
		}
	}
	sort.Strings(stems)
	pairs := make([]types.ModelFiles, 0, len(stems))
	for _, s := range stems {
		pairs = append(pairs, types.ModelFiles{Prototxt: protos[s], Weights: weights[s]})
	}
	return pairs, nil
}

// Resolve locates the model files. Relative names are taken against dir,
// which defaults to the executable's directory. When the named files are
// absent the directory is scanned and the first complete pair is used; if
// there is none, the unresolved paths are returned so the caller can report
// them.
func Resolve(dir, prototxt, weights string) (types.ModelFiles, error) {
	if dir == "" {
		dir = fsutil.ExecutableDir()
	}
	dir, err := fsutil.ExpandHome(dir)
	if err != nil {
		return types.ModelFiles{}, err
	}
	var want types.ModelFiles
	if want.Prototxt, err = fsutil.Resolve(dir, prototxt); err != nil {
		return want, err
	}
	if want.Weights, err = fsutil.Resolve(dir, weights); err != nil {
		return want, err
	}
	if fsutil.FileExists(want.Prototxt) && fsutil.FileExists(want.Weights) {
		return want, nil
	}
	if pairs, err := LoadDir(dir); err == nil && len(pairs) > 0 {
		return pairs[0], nil
	}
	return want, nil
}
