package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"camwatch/internal/capture"
	"camwatch/internal/player"
)

func newViewCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open the live camera stream in ffplay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(true)
			if err != nil {
				return err
			}
			log := root.logger(cfg)
			p := player.New(player.Config{Bin: cfg.FFplayBin, Logger: log})
			if err := p.Start(cfg.CameraSource); err != nil {
				if capture.IsLaunchError(err) {
					return fmt.Errorf("ffplay not found; install ffmpeg or set ffplay_bin: %w", err)
				}
				return err
			}
			fmt.Fprintf(root.out, "Playing %s\n", capture.Redacted(cfg.CameraSource))
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := p.Wait(ctx); err != nil && ctx.Err() == nil {
				log.Debug().Err(err).Msg("player exit status")
			}
			fmt.Fprintln(root.out, "Player closed")
			return nil
		},
	}
}
