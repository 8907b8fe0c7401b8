package config

import (
	"errors"
	"strings"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultPort                      = 554
	DefaultStreamPath                = "onvif1"
	DefaultFFmpegBin                 = "ffmpeg"
	DefaultFFplayBin                 = "ffplay"
	DefaultPrototxt                  = "MobileNetSSD_deploy.prototxt"
	DefaultWeights                   = "MobileNetSSD_deploy.caffemodel"
	DefaultConfidence        float32 = 0.5
	DefaultClassID                   = 15
	DefaultCaptureSec                = 10
	DefaultReconnectSec              = 120
	DefaultSniffTimeoutSec           = 15
	DefaultReconnectDelaySec         = 2
	DefaultStopGraceMS               = 2000
	DefaultAlertCooldownSec          = 10
	DefaultAlertVolume               = 70
	DefaultListen                    = "127.0.0.1:8090"
	DefaultRefreshMS                 = 100
	DefaultDisplayWidth              = 640
	DefaultDisplayHeight             = 360
	DefaultLogLevel                  = "info"
)

// AnyClassID as ClassID matches every detected class except background.
const AnyClassID = -1

// WithDefaults returns a copy of c with every unset field filled in.
func (c Config) WithDefaults() Config {
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.StreamPath == "" {
		c.StreamPath = DefaultStreamPath
	}
	if c.FFmpegBin == "" {
		c.FFmpegBin = DefaultFFmpegBin
	}
	if c.FFplayBin == "" {
		c.FFplayBin = DefaultFFplayBin
	}
	if c.Prototxt == "" {
		c.Prototxt = DefaultPrototxt
	}
	if c.Weights == "" {
		c.Weights = DefaultWeights
	}
	if c.Confidence <= 0 {
		c.Confidence = DefaultConfidence
	}
	if c.ClassID == 0 || c.ClassID < AnyClassID {
		c.ClassID = DefaultClassID
	}
	if c.CaptureIntervalSec <= 0 {
		c.CaptureIntervalSec = DefaultCaptureSec
	}
	if c.ReconnectIntervalSec <= 0 {
		c.ReconnectIntervalSec = DefaultReconnectSec
	}
	if c.SniffTimeoutSec <= 0 {
		c.SniffTimeoutSec = DefaultSniffTimeoutSec
	}
	if c.ReconnectDelaySec <= 0 {
		c.ReconnectDelaySec = DefaultReconnectDelaySec
	}
	if c.StopGraceMS <= 0 {
		c.StopGraceMS = DefaultStopGraceMS
	}
	if c.AlertCooldownSec <= 0 {
		c.AlertCooldownSec = DefaultAlertCooldownSec
	}
	if c.AlertVolume <= 0 {
		c.AlertVolume = DefaultAlertVolume
	}
	if c.AlertVolume > 100 {
		c.AlertVolume = 100
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.RefreshMS <= 0 {
		c.RefreshMS = DefaultRefreshMS
	}
	if c.DisplayWidth <= 0 {
		c.DisplayWidth = DefaultDisplayWidth
	}
	if c.DisplayHeight <= 0 {
		c.DisplayHeight = DefaultDisplayHeight
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return c
}

// Validate checks the fields the setup form requires.
func (s CameraSource) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Host) == "" {
		errs = append(errs, errors.New("host is required"))
	}
	if strings.TrimSpace(s.Username) == "" {
		errs = append(errs, errors.New("username is required"))
	}
	if s.Port < 0 || s.Port > 65535 {
		errs = append(errs, errors.New("port out of range"))
	}
	return errors.Join(errs...)
}
