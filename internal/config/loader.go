package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up next to the binary.
const DefaultFileName = "config.json"

// CameraSource identifies the camera. It is only used to build the
// connection URL.
type CameraSource struct {
	Host       string `json:"host" yaml:"host" toml:"host"`
	Username   string `json:"username" yaml:"username" toml:"username"`
	Password   string `json:"password" yaml:"password" toml:"password"`
	Port       int    `json:"port" yaml:"port" toml:"port"`
	StreamPath string `json:"stream_path" yaml:"stream_path" toml:"stream_path"`
}

// Config holds runtime parameters. Zero values mean "unspecified" and are
// replaced by WithDefaults.
type Config struct {
	CameraSource `yaml:",inline"`

	FFmpegBin     string `json:"ffmpeg_bin,omitempty" yaml:"ffmpeg_bin,omitempty" toml:"ffmpeg_bin,omitempty"`
	FFplayBin     string `json:"ffplay_bin,omitempty" yaml:"ffplay_bin,omitempty" toml:"ffplay_bin,omitempty"`
	RTSPTransport string `json:"rtsp_transport,omitempty" yaml:"rtsp_transport,omitempty" toml:"rtsp_transport,omitempty"`

	ModelDir string `json:"model_dir,omitempty" yaml:"model_dir,omitempty" toml:"model_dir,omitempty"`
	Prototxt string `json:"prototxt,omitempty" yaml:"prototxt,omitempty" toml:"prototxt,omitempty"`
	Weights  string `json:"weights,omitempty" yaml:"weights,omitempty" toml:"weights,omitempty"`
	// Confidence is the exclusive score threshold. Zero or negative means
	// DefaultConfidence; a threshold of exactly 0 cannot be expressed, use a
	// small positive value such as 0.01 to accept nearly every box.
	Confidence float32 `json:"confidence,omitempty" yaml:"confidence,omitempty" toml:"confidence,omitempty"`
	// ClassID selects the VOC class to alert on. Zero means DefaultClassID
	// (person); AnyClassID accepts every non-background class.
	ClassID int `json:"class_id,omitempty" yaml:"class_id,omitempty" toml:"class_id,omitempty"`

	CaptureIntervalSec   int `json:"capture_interval_s,omitempty" yaml:"capture_interval_s,omitempty" toml:"capture_interval_s,omitempty"`
	ReconnectIntervalSec int `json:"reconnect_interval_s,omitempty" yaml:"reconnect_interval_s,omitempty" toml:"reconnect_interval_s,omitempty"`
	SniffTimeoutSec      int `json:"sniff_timeout_s,omitempty" yaml:"sniff_timeout_s,omitempty" toml:"sniff_timeout_s,omitempty"`
	ReconnectDelaySec    int `json:"reconnect_delay_s,omitempty" yaml:"reconnect_delay_s,omitempty" toml:"reconnect_delay_s,omitempty"`
	StopGraceMS          int `json:"stop_grace_ms,omitempty" yaml:"stop_grace_ms,omitempty" toml:"stop_grace_ms,omitempty"`

	AlertCooldownSec int    `json:"alert_cooldown_s,omitempty" yaml:"alert_cooldown_s,omitempty" toml:"alert_cooldown_s,omitempty"`
	AlertSound       string `json:"alert_sound,omitempty" yaml:"alert_sound,omitempty" toml:"alert_sound,omitempty"`
	AlertVolume      int    `json:"alert_volume,omitempty" yaml:"alert_volume,omitempty" toml:"alert_volume,omitempty"`

	Listen        string   `json:"listen,omitempty" yaml:"listen,omitempty" toml:"listen,omitempty"`
	RefreshMS     int      `json:"refresh_ms,omitempty" yaml:"refresh_ms,omitempty" toml:"refresh_ms,omitempty"`
	DisplayWidth  int      `json:"display_width,omitempty" yaml:"display_width,omitempty" toml:"display_width,omitempty"`
	DisplayHeight int      `json:"display_height,omitempty" yaml:"display_height,omitempty" toml:"display_height,omitempty"`
	CORSOrigins   []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty" toml:"cors_origins,omitempty"`

	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" toml:"log_level,omitempty"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Save writes cfg as indented JSON. The file holds credentials, so it is
// created owner-only.
func Save(path string, cfg Config) error {
	if path == "" {
		return fmt.Errorf("empty config path")
	}
	b, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(b, '\n'), 0o600)
}

func secs(n int) time.Duration { return time.Duration(n) * time.Second }

// CaptureInterval is the minimum spacing between analyzed frames.
func (c Config) CaptureInterval() time.Duration { return secs(c.CaptureIntervalSec) }

// ReconnectInterval is the maximum age of a connection before a forced reconnect.
func (c Config) ReconnectInterval() time.Duration { return secs(c.ReconnectIntervalSec) }

// SniffTimeout bounds the wait for the resolution line.
func (c Config) SniffTimeout() time.Duration { return secs(c.SniffTimeoutSec) }

// ReconnectDelay is the pause between teardown and the next connect.
func (c Config) ReconnectDelay() time.Duration { return secs(c.ReconnectDelaySec) }

// StopGrace is how long a terminated transcoder gets before it is killed.
func (c Config) StopGrace() time.Duration { return time.Duration(c.StopGraceMS) * time.Millisecond }

// AlertCooldown is the minimum time between two audible alerts.
func (c Config) AlertCooldown() time.Duration { return secs(c.AlertCooldownSec) }

// Refresh is the preview refresh period.
func (c Config) Refresh() time.Duration { return time.Duration(c.RefreshMS) * time.Millisecond }
