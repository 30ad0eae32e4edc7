package pipeline

import (
	"context"
	"fmt"
	"time"

	imapclient "legal-publication-bot/internal/imap"
	"legal-publication-bot/internal/logging"
	"legal-publication-bot/internal/mailparse"
	"legal-publication-bot/internal/models"
)

// Runner executes pipeline passes: a fresh mailbox connection per pass,
// every pending notice processed sequentially, then mark-seen bookkeeping
// and the pass summary.
type Runner struct {
	cfg       *models.Config
	dial      func() imapclient.Client
	processor *Processor
	notifier  Notifier
}

// NewRunner creates a Runner. dial must return a fresh, unconnected IMAP
// client; one is consumed per pass.
func NewRunner(cfg *models.Config, dial func() imapclient.Client, processor *Processor, notifier Notifier) *Runner {
	return &Runner{
		cfg:       cfg,
		dial:      dial,
		processor: processor,
		notifier:  notifier,
	}
}

// RunOnce executes a single pipeline pass. Only mailbox setup failures are
// returned as errors; per-notice failures are absorbed into the summary.
func (r *Runner) RunOnce(ctx context.Context) error {
	client := r.dial()

	if err := client.Connect(r.cfg.Email.Imap); err != nil {
		return fmt.Errorf("opening mailbox: %w", err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Login(r.cfg.Email.Login, r.cfg.Email.Password); err != nil {
		return fmt.Errorf("mailbox login: %w", err)
	}

	if err := client.SelectLabel(r.cfg.Email.Label); err != nil {
		return fmt.Errorf("selecting label %q: %w", r.cfg.Email.Label, err)
	}

	uids, err := client.ListUnseenUIDs(r.cfg.Email.LookbackDays)
	if err != nil {
		return fmt.Errorf("searching for unseen emails: %w", err)
	}

	if len(uids) == 0 {
		logging.Log.Info("No new publications found")
		if err := r.notifier.SendSummary(ctx, 0, 0, 0); err != nil {
			logging.Log.Warnf("Summary notification not sent: %v", err)
		}
		return nil
	}

	logging.Log.Infof("Found %d unseen email(s)", len(uids))

	var created, failed, skipped int
	handled := make(map[uint32]bool)

	for _, uid := range uids {
		notices, err := r.fetchNotices(client, uid)
		if err != nil {
			logging.Log.Errorf("Error reading email UID %d: %v", uid, err)
			failed++
			continue
		}

		allHandled := true
		for i := range notices {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			outcome := r.processor.Process(ctx, &notices[i])
			logging.Log.WithField("trace_id", notices[i].TraceID).
				Infof("Publication %d/%d of UID %d: %s",
					notices[i].PubIndex, notices[i].PubTotal, uid, outcome)

			switch outcome {
			case models.OutcomeCreated:
				created++
			case models.OutcomeSkippedExcluded:
				skipped++
			default:
				failed++
			}
			if !outcome.Handled() {
				allHandled = false
			}
		}

		// A message stays unread until every publication it carries was
		// handled, so a failed notice is retried on the next pass.
		if allHandled {
			handled[uid] = true
		}
	}

	if r.cfg.Email.MarkSeenEnabled() {
		for uid := range handled {
			if err := client.MarkSeen(uid); err != nil {
				logging.Log.Errorf("Error marking UID %d as seen: %v", uid, err)
			}
		}
	}

	logging.Log.Infof("Pass finished: %d created, %d skipped, %d failed", created, skipped, failed)

	if err := r.notifier.SendSummary(ctx, created, failed, skipped); err != nil {
		logging.Log.Warnf("Summary notification not sent: %v", err)
	}

	return nil
}

func (r *Runner) fetchNotices(client imapclient.Client, uid uint32) ([]models.Notice, error) {
	msg, err := client.FetchMessage(uid)
	if err != nil {
		return nil, err
	}

	notice, err := mailparse.Parse(msg)
	if err != nil {
		return nil, fmt.Errorf("parsing email: %w", err)
	}

	if notice.Body == "" {
		return nil, fmt.Errorf("empty email body")
	}

	return mailparse.Explode(notice), nil
}

// RunLoop repeats RunOnce on the configured interval until the context is
// cancelled. A failing pass is reported and the loop keeps running.
func (r *Runner) RunLoop(ctx context.Context) error {
	interval := r.cfg.Poll.Interval
	logging.Log.Infof("Continuous mode: checking every %s", interval)

	for {
		if err := r.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Log.Errorf("Pass failed: %v", err)
			if nerr := r.notifier.NotifyError(ctx, err); nerr != nil {
				logging.Log.Warnf("Error notification not sent: %v", nerr)
			}
		}

		select {
		case <-ctx.Done():
			logging.Log.Info("Interrupted, stopping")
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
