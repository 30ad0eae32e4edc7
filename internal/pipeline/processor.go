// Package pipeline wires intake, filtering, extraction and the sinks into
// one sequential pass per notice.
package pipeline

import (
	"context"

	"legal-publication-bot/internal/exclusion"
	"legal-publication-bot/internal/logging"
	"legal-publication-bot/internal/models"
)

// Extractor produces a structured record from one notice
type Extractor interface {
	Extract(ctx context.Context, notice *models.Notice) (*models.Extraction, error)
	ProviderName() string
}

// CardSink files one extraction as a remote task card
type CardSink interface {
	CreateCard(ctx context.Context, extraction *models.Extraction, notice *models.Notice) (*models.Card, error)
}

// Notifier posts pipeline events to the chat channel
type Notifier interface {
	NotifyProcessed(ctx context.Context, extraction *models.Extraction, cardURL string) error
	NotifyFailure(ctx context.Context, notice *models.Notice, reason string) error
	SendSummary(ctx context.Context, created, failed, skipped int) error
	NotifyError(ctx context.Context, err error) error
}

// Processor runs the per-notice state machine: exclusion filter →
// extraction → card sink → notification sink. One notice's failure never
// affects the next.
type Processor struct {
	exclusions *exclusion.List
	extractor  Extractor
	cards      CardSink
	notifier   Notifier
}

// NewProcessor creates a Processor over the given collaborators
func NewProcessor(exclusions *exclusion.List, extractor Extractor, cards CardSink, notifier Notifier) *Processor {
	return &Processor{
		exclusions: exclusions,
		extractor:  extractor,
		cards:      cards,
		notifier:   notifier,
	}
}

// Process runs one notice through the pipeline and returns its outcome
func (p *Processor) Process(ctx context.Context, notice *models.Notice) models.Outcome {
	locallog := logging.Log.WithField("trace_id", notice.TraceID)

	if name, excluded := p.exclusions.Match(notice.Body); excluded {
		locallog.Infof("Skipping publication %d/%d of UID %d: client on exclusion list (%s)",
			notice.PubIndex, notice.PubTotal, notice.UID, name)
		return models.OutcomeSkippedExcluded
	}

	locallog.Infof("Extracting publication %d/%d of UID %d with %s",
		notice.PubIndex, notice.PubTotal, notice.UID, p.extractor.ProviderName())

	extraction, err := p.extractor.Extract(ctx, notice)
	if err != nil {
		locallog.Errorf("Extraction failed for UID %d: %v", notice.UID, err)
		if nerr := p.notifier.NotifyFailure(ctx, notice, "extração falhou: "+err.Error()); nerr != nil {
			locallog.Warnf("Failure notification not sent: %v", nerr)
		}
		return models.OutcomeFailedExtraction
	}

	locallog.Infof("Extracted case %s for client %s (deadline %s, confidence %.2f)",
		extraction.CaseNumber, extraction.Client,
		extraction.Deadline.Format("2006-01-02"), extraction.Confidence)

	card, err := p.cards.CreateCard(ctx, extraction, notice)
	if err != nil {
		locallog.Errorf("Card creation failed for UID %d: %v", notice.UID, err)
		if nerr := p.notifier.NotifyFailure(ctx, notice, "criação do card falhou: "+err.Error()); nerr != nil {
			locallog.Warnf("Failure notification not sent: %v", nerr)
		}
		return models.OutcomeFailedSink
	}

	locallog.Infof("Card created: %s", card.URL)

	if err := p.notifier.NotifyProcessed(ctx, extraction, card.URL); err != nil {
		// The card exists; a missed notification is logged, not fatal.
		locallog.Warnf("Notification not sent for card %s: %v", card.ID, err)
	}

	return models.OutcomeCreated
}
