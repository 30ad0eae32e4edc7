// Package checkup validates the configuration by exercising each external
// connection without running the full pipeline.
package checkup

import (
	"context"
	"fmt"

	"legal-publication-bot/internal/exclusion"
	imapclient "legal-publication-bot/internal/imap"
	"legal-publication-bot/internal/llm"
	"legal-publication-bot/internal/models"
	"legal-publication-bot/internal/telegram"
	"legal-publication-bot/internal/trello"
)

// Result is the outcome of one component check
type Result struct {
	Name   string
	Detail string
	Err    error
}

// OK reports whether the check passed
func (r Result) OK() bool {
	return r.Err == nil
}

// Run exercises every external connection and returns one result per
// component: mailbox, extraction backend, card sink, notification sink and
// the exclusion list.
func Run(ctx context.Context, cfg *models.Config, provider llm.Provider,
	cards *trello.Client, notifier *telegram.Notifier) []Result {

	results := []Result{
		checkMailbox(cfg),
		checkProvider(ctx, cfg, provider),
		checkTrello(ctx, cards),
		checkTelegram(ctx, notifier),
		checkExclusions(cfg),
	}
	return results
}

func checkMailbox(cfg *models.Config) Result {
	r := Result{Name: "mailbox"}

	client := imapclient.NewStandardClient()
	if err := client.Connect(cfg.Email.Imap); err != nil {
		r.Err = err
		return r
	}
	defer func() { _ = client.Close() }()

	if err := client.Login(cfg.Email.Login, cfg.Email.Password); err != nil {
		r.Err = fmt.Errorf("login failed: %w", err)
		return r
	}

	if err := client.SelectLabel(cfg.Email.Label); err != nil {
		r.Err = fmt.Errorf("selecting label %q: %w", cfg.Email.Label, err)
		return r
	}

	uids, err := client.ListUnseenUIDs(cfg.Email.LookbackDays)
	if err != nil {
		r.Err = err
		return r
	}

	r.Detail = fmt.Sprintf("%s, %d unseen email(s)", cfg.Email.Imap, len(uids))
	return r
}

func checkProvider(ctx context.Context, cfg *models.Config, provider llm.Provider) Result {
	r := Result{Name: "llm (" + provider.Name() + ")"}
	if err := provider.Ping(ctx); err != nil {
		r.Err = err
		return r
	}

	model := cfg.LLM.Ollama.Model
	if provider.Name() == "gemini" {
		model = cfg.LLM.Gemini.Model
	}
	r.Detail = "model " + model
	return r
}

func checkTrello(ctx context.Context, cards *trello.Client) Result {
	r := Result{Name: "trello"}
	if err := cards.Ping(ctx); err != nil {
		r.Err = err
		return r
	}
	r.Detail = "list reachable"
	return r
}

func checkTelegram(ctx context.Context, notifier *telegram.Notifier) Result {
	r := Result{Name: "telegram"}
	if !notifier.Enabled() {
		r.Detail = "not configured, notifications disabled"
		return r
	}
	if err := notifier.Ping(ctx); err != nil {
		r.Err = err
		return r
	}
	r.Detail = "bot token accepted"
	return r
}

func checkExclusions(cfg *models.Config) Result {
	r := Result{Name: "exclusion list"}
	list, err := exclusion.Load(cfg.Exclusions.File)
	if err != nil {
		r.Err = err
		return r
	}
	r.Detail = fmt.Sprintf("%d name(s) loaded from %s", list.Len(), cfg.Exclusions.File)
	return r
}
