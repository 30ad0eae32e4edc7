package main

import (
	"context"
	"os"

	"legal-publication-bot/internal/config"
	"legal-publication-bot/internal/exclusion"
	imapclient "legal-publication-bot/internal/imap"
	"legal-publication-bot/internal/llm"
	"legal-publication-bot/internal/logging"
	"legal-publication-bot/internal/models"
	"legal-publication-bot/internal/pipeline"
	"legal-publication-bot/internal/telegram"
	"legal-publication-bot/internal/trello"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "legal-publication-bot",
	Short:         "Files legal publications received by email as Trello cards",
	Long:          "Polls a mailbox for legal-publication notices, extracts structured data with a language model, files each publication as a Trello card and posts a Telegram notification.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML configuration file")
	rootCmd.AddCommand(runCmd, watchCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Log.Errorf("%v", err)
		os.Exit(1)
	}
}

func loadConfig() (*models.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logging.SetDebug(cfg.Debug)
	return cfg, nil
}

func buildProvider(cfg *models.Config) llm.Provider {
	if cfg.LLM.Provider == "gemini" {
		return llm.NewGeminiProvider(cfg.LLM.Gemini)
	}
	return llm.NewOllamaProvider(cfg.LLM.Ollama)
}

func buildRunner(ctx context.Context, cfg *models.Config) (*pipeline.Runner, error) {
	exclusions, err := exclusion.Load(cfg.Exclusions.File)
	if err != nil {
		return nil, err
	}
	logging.Log.Infof("Exclusion list loaded: %d name(s)", exclusions.Len())

	cards := trello.NewClient(cfg.Trello)
	cards.EnsureLabels(ctx)

	notifier := telegram.NewNotifier(cfg.Telegram)
	if !notifier.Enabled() {
		logging.Log.Warn("Telegram not configured, notifications disabled")
	}

	extractor := llm.NewExtractor(buildProvider(cfg))
	processor := pipeline.NewProcessor(exclusions, extractor, cards, notifier)

	dial := func() imapclient.Client { return imapclient.NewStandardClient() }
	return pipeline.NewRunner(cfg, dial, processor, notifier), nil
}
