package main

import (
	"context"
	"fmt"
	"time"

	"legal-publication-bot/internal/checkup"
	"legal-publication-bot/internal/telegram"
	"legal-publication-bot/internal/trello"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration by exercising each external connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		results := checkup.Run(ctx, cfg,
			buildProvider(cfg),
			trello.NewClient(cfg.Trello),
			telegram.NewNotifier(cfg.Telegram))

		failures := 0
		for _, r := range results {
			if r.OK() {
				fmt.Printf("ok    %-16s %s\n", r.Name, r.Detail)
			} else {
				fmt.Printf("FAIL  %-16s %v\n", r.Name, r.Err)
				failures++
			}
		}

		if failures > 0 {
			return fmt.Errorf("%d of %d checks failed", failures, len(results))
		}
		fmt.Println("All checks passed.")
		return nil
	},
}
