package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"camwatch/internal/common/fsutil"
	"camwatch/internal/config"
	"camwatch/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	envFile    string

	// Set by tests; nil means the process streams.
	in  io.Reader
	out io.Writer
	// isTTY reports whether the setup form may be shown.
	isTTY func() bool
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{})
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "camwatch",
		Short:         "Person detection and live view for a home IP camera",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (.json, .yaml, .toml); defaults to config.json next to the binary")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides the config file)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with CAMWATCH_* overrides")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.in == nil {
			opts.in = cmd.InOrStdin()
		}
		if opts.out == nil {
			opts.out = cmd.OutOrStdout()
		}
		if opts.isTTY == nil {
			opts.isTTY = func() bool { return logging.IsTerminal(os.Stdin) }
		}
		return config.LoadEnv(opts.envFile)
	}

	root.AddCommand(
		newMonitorCmd(opts),
		newViewCmd(opts),
		newSetupCmd(opts),
		newDoctorCmd(opts),
	)
	return root
}

// path returns the config file in use.
func (o *rootOptions) path() string {
	if o.configPath != "" {
		return o.configPath
	}
	return filepath.Join(fsutil.ExecutableDir(), config.DefaultFileName)
}

// load reads the config file and applies env overrides and defaults. With
// requireCamera, a missing file or camera runs the setup form when stdin is
// a terminal and persists the answers; otherwise it is an error.
func (o *rootOptions) load(requireCamera bool) (config.Config, error) {
	p := o.path()
	file, err := config.Load(p)
	missing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !missing {
		return config.Config{}, err
	}
	cfg := config.ApplyEnv(file)
	if requireCamera && cfg.CameraSource.Validate() != nil {
		if !o.isTTY() {
			if missing {
				return config.Config{}, fmt.Errorf("config %s not found; run `camwatch setup`", p)
			}
			return config.Config{}, fmt.Errorf("config %s: %w", p, cfg.CameraSource.Validate())
		}
		fmt.Fprintf(o.out, "Camera settings are missing; they will be saved to %s.\n", p)
		src, err := config.Prompt(o.in, o.out, cfg.CameraSource)
		if err != nil {
			return config.Config{}, err
		}
		// Env overrides stay out of the saved file.
		file.CameraSource = src
		if err := config.Save(p, file); err != nil {
			return config.Config{}, err
		}
		cfg = config.ApplyEnv(file)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg.WithDefaults(), nil
}

func (o *rootOptions) logger(cfg config.Config) zerolog.Logger {
	return logging.New(cfg.LogLevel, os.Stderr)
}

// splitCSV splits a comma-separated flag value, dropping empty items.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
