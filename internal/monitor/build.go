package monitor

import (
	"github.com/rs/zerolog"

	"camwatch/internal/capture"
	"camwatch/internal/config"
	"camwatch/internal/detect"
	"camwatch/internal/registry"
	"camwatch/internal/sink"
)

// Deps are the collaborators FromConfig cannot build from configuration.
type Deps struct {
	Logger    zerolog.Logger
	Publisher EventPublisher
	// Notifier makes alerts audible; nil keeps them silent.
	Notifier sink.Notifier
	// Spawner overrides the transcoder launcher (tests).
	Spawner  capture.Spawner
	LookPath func(string) (string, error)
}

// FromConfig assembles a Monitor from the loaded configuration.
func FromConfig(c config.Config, deps Deps) *Monitor {
	c = c.WithDefaults()
	mgr := capture.NewManager(capture.ManagerConfig{
		Bin:               c.FFmpegBin,
		RTSPTransport:     c.RTSPTransport,
		ReconnectInterval: c.ReconnectInterval(),
		StopGrace:         c.StopGrace(),
		Spawner:           deps.Spawner,
		LookPath:          deps.LookPath,
		Logger:            deps.Logger,
	})
	return New(Config{
		Source:          c.CameraSource,
		CaptureInterval: c.CaptureInterval(),
		SniffTimeout:    c.SniffTimeout(),
		ReconnectDelay:  c.ReconnectDelay(),
		Capture:         mgr,
		LoadDetector:    ModelLoader(c),
		Slot:            sink.NewSlot(),
		Alerter:         sink.NewAlerter(c.AlertCooldown(), deps.Notifier),
		Publisher:       deps.Publisher,
		Logger:          deps.Logger,
	})
}

// ModelLoader returns a LoadDetector that resolves the model files and
// opens the network.
func ModelLoader(c config.Config) func() (Detector, error) {
	return func() (Detector, error) {
		files, err := registry.Resolve(c.ModelDir, c.Prototxt, c.Weights)
		if err != nil {
			return nil, detect.ModelLoadError{Err: err}
		}
		net, err := detect.Open(files.Prototxt, files.Weights)
		if err != nil {
			return nil, err
		}
		return detect.New(net, detect.Options{Threshold: c.Confidence, ClassID: c.ClassID}), nil
	}
}
