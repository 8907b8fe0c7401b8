package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "host: 10.0.0.5\nusername: admin\nport: 8554\nstream_path: live\nlisten: :9999\ncapture_interval_s: 3\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "10.0.0.5" || cfg.Username != "admin" || cfg.Port != 8554 || cfg.StreamPath != "live" || cfg.Listen != ":9999" || cfg.CaptureIntervalSec != 3 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"host":"cam.local","username":"u","password":"p","port":554,"stream_path":"onvif1","alert_volume":30}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "cam.local" || cfg.Username != "u" || cfg.Password != "p" || cfg.Port != 554 || cfg.AlertVolume != 30 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "host=\"192.168.1.9\"\nusername=\"viewer\"\nffmpeg_bin=\"/opt/ffmpeg\"\nreconnect_interval_s=60\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "192.168.1.9" || cfg.Username != "viewer" || cfg.FFmpegBin != "/opt/ffmpeg" || cfg.ReconnectIntervalSec != 60 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestSaveRoundTripAndMode(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "sub", DefaultFileName)
	in := Config{CameraSource: CameraSource{Host: "h", Username: "u", Password: "secret", Port: 554, StreamPath: "onvif1"}}
	if err := Save(p, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	st, err := os.Stat(p)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", st.Mode().Perm())
	}
	out, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.CameraSource != in.CameraSource {
		t.Fatalf("round trip mismatch: %+v vs %+v", out.CameraSource, in.CameraSource)
	}
	b, _ := os.ReadFile(p)
	if len(b) < 6 || string(b[:6]) != "{\n    " {
		t.Fatalf("expected 4-space indent, got %q", b)
	}
}
