package monitor

import (
	"os/exec"

	"camwatch/internal/common/fsutil"
	"camwatch/internal/config"
	"camwatch/internal/detect"
	"camwatch/internal/registry"
	"camwatch/internal/sound"
	"camwatch/pkg/types"
)

// SanityCheck validates that required external binaries and model files
// are available. It does not mutate state and is safe to call at any time.
// A nil lookPath uses exec.LookPath.
func SanityCheck(c config.Config, lookPath func(string) (string, error)) types.SanityReport {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	c = c.WithDefaults()
	var r types.SanityReport

	bin := func(name, b string) types.SanityCheck {
		p, err := lookPath(b)
		if err != nil {
			return types.SanityCheck{Name: name, OK: false, Detail: err.Error()}
		}
		return types.SanityCheck{Name: name, OK: true, Detail: p}
	}
	ffmpeg := bin("ffmpeg", c.FFmpegBin)
	r.Checks = append(r.Checks, ffmpeg)
	ffplay := bin("ffplay", c.FFplayBin)
	if !ffplay.OK {
		ffplay.Detail = "optional, needed by view: " + ffplay.Detail
	}
	r.Checks = append(r.Checks, ffplay)

	modelsOK := true
	files, err := registry.Resolve(c.ModelDir, c.Prototxt, c.Weights)
	if err != nil {
		modelsOK = false
		r.Checks = append(r.Checks, types.SanityCheck{Name: "model", OK: false, Detail: err.Error()})
	} else {
		for _, f := range []struct{ name, path string }{{"prototxt", files.Prototxt}, {"weights", files.Weights}} {
			ok := fsutil.FileExists(f.path)
			modelsOK = modelsOK && ok
			r.Checks = append(r.Checks, types.SanityCheck{Name: f.name, OK: ok, Detail: f.path})
		}
	}

	opencv := types.SanityCheck{Name: "opencv", OK: detect.OpenCVEnabled, Detail: "compiled in"}
	if !detect.OpenCVEnabled {
		opencv.Detail = "not compiled in; rebuild with -tags gocv"
	}
	r.Checks = append(r.Checks, opencv)

	audio := types.SanityCheck{Name: "audio", OK: true, Detail: "system mixer"}
	if !sound.AudioEnabled {
		audio.Detail = "terminal bell; rebuild with -tags audio for sound"
	}
	r.Checks = append(r.Checks, audio)

	r.OK = ffmpeg.OK && modelsOK && opencv.OK
	return r
}
