package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces all environment overrides.
const EnvPrefix = "CAMWATCH_"

// LoadEnv reads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored;
// with no paths, ".env" is tried.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides fields of c from CAMWATCH_* variables.
func ApplyEnv(c Config) Config {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}
	str("HOST", &c.Host)
	str("USERNAME", &c.Username)
	str("PASSWORD", &c.Password)
	num("PORT", &c.Port)
	str("STREAM_PATH", &c.StreamPath)
	str("FFMPEG_BIN", &c.FFmpegBin)
	str("FFPLAY_BIN", &c.FFplayBin)
	str("RTSP_TRANSPORT", &c.RTSPTransport)
	str("MODEL_DIR", &c.ModelDir)
	str("ALERT_SOUND", &c.AlertSound)
	num("ALERT_VOLUME", &c.AlertVolume)
	str("LISTEN", &c.Listen)
	str("LOG_LEVEL", &c.LogLevel)
	return c
}
