package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"camwatch/internal/config"
	"camwatch/internal/httpapi"
	"camwatch/internal/monitor"
	"camwatch/internal/sink"
	"camwatch/internal/sound"
)

type monitorOptions struct {
	listen      string
	noAutostart bool
	corsOrigins string
	quiet       bool
}

func newMonitorCmd(root *rootOptions) *cobra.Command {
	var o monitorOptions
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Detect persons on the camera stream and serve a live preview",
		Example: "  camwatch monitor\n" +
			"  camwatch monitor --listen 0.0.0.0:8090 --cors-origins http://nas.lan",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(true)
			if err != nil {
				return err
			}
			if o.listen != "" {
				cfg.Listen = o.listen
			}
			if o.corsOrigins != "" {
				cfg.CORSOrigins = splitCSV(o.corsOrigins)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMonitor(ctx, root, cfg, o)
		},
	}
	cmd.Flags().StringVar(&o.listen, "listen", "", "Preview server address (overrides the config file)")
	cmd.Flags().BoolVar(&o.noAutostart, "no-autostart", false, "Wait for POST /monitor/start instead of starting right away")
	cmd.Flags().StringVar(&o.corsOrigins, "cors-origins", "", "Comma-separated origins allowed to call the API")
	cmd.Flags().BoolVar(&o.quiet, "quiet", false, "Do not sound alerts")
	return cmd
}

func runMonitor(ctx context.Context, root *rootOptions, cfg config.Config, o monitorOptions) error {
	log := root.logger(cfg)

	var notifier sink.Notifier
	if !o.quiet {
		n, err := sound.New(sound.Options{File: cfg.AlertSound, Volume: cfg.AlertVolume, Logger: log})
		if err != nil {
			log.Warn().Err(err).Msg("alert sound disabled")
		} else {
			defer n.Close()
			notifier = n
		}
	}

	hub := httpapi.NewHub(log, cfg.CORSOrigins)
	mon := monitor.FromConfig(cfg, monitor.Deps{
		Logger:    log,
		Publisher: hub,
		Notifier:  notifier,
	})
	ctl := monitor.NewController(mon)
	viewer := httpapi.NewViewer(httpapi.ViewerConfig{
		Slot:     mon.Slot(),
		Interval: cfg.Refresh(),
		Width:    cfg.DisplayWidth,
		Height:   cfg.DisplayHeight,
		Logger:   log,
	})
	go viewer.Run(ctx)

	httpapi.SetBaseContext(ctx)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           httpapi.NewMux(ctl, httpapi.Options{Viewer: viewer, Hub: hub, CORSOrigins: cfg.CORSOrigins, Logger: log}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Listen).Msg("preview server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	if !o.noAutostart {
		if err := ctl.Start(ctx); err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
	case err := <-srvErr:
		_ = ctl.Stop()
		return err
	}

	log.Info().Msg("shutting down")
	if ctl.Running() {
		_ = ctl.Stop()
	}
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown")
	}
	return ctl.LastErr()
}
