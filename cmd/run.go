package main

import (
	"context"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process pending publications once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		runner, err := buildRunner(ctx, cfg)
		if err != nil {
			return err
		}

		return runner.RunOnce(ctx)
	},
}
