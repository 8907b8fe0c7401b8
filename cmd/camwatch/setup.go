package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"camwatch/internal/config"
)

func newSetupCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Enter the camera address and credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := root.path()
			cfg, err := config.Load(p)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			src, err := config.Prompt(root.in, root.out, cfg.CameraSource)
			if err != nil {
				return err
			}
			cfg.CameraSource = src
			if err := config.Save(p, cfg); err != nil {
				return err
			}
			fmt.Fprintf(root.out, "Saved %s\n", p)
			return nil
		},
	}
}
