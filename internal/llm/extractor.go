package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"legal-publication-bot/internal/models"
)

const (
	// Publications beyond this length add noise and burn the model's
	// context window; the head carries the case header and deadlines.
	maxPromptChars = 8000

	defaultTimeout = 120 * time.Second

	// CPC art. 231 general rule applied when a publication names no deadline.
	implicitDeadlineDays = 5
)

var (
	ErrNoPayload     = errors.New("model response contains no JSON payload")
	ErrMissingFields = errors.New("model payload is missing required fields")
)

// reJSONObject grabs the outermost braced block from a reply that may wrap
// the payload in commentary or markdown fences.
var reJSONObject = regexp.MustCompile(`(?s)\{.*\}`)

// Extractor drives a Provider and parses its reply into an Extraction.
// It never retries; retry policy belongs to the caller.
type Extractor struct {
	provider Provider
	timeout  time.Duration
}

// NewExtractor creates an Extractor around the configured provider
func NewExtractor(provider Provider) *Extractor {
	return &Extractor{
		provider: provider,
		timeout:  defaultTimeout,
	}
}

// ProviderName reports which backend this extractor uses
func (e *Extractor) ProviderName() string {
	return e.provider.Name()
}

// Extract sends the notice text to the model and parses the embedded JSON
// payload into a validated Extraction. The deadline is computed from the
// notice's received date plus the declared relative days.
func (e *Extractor) Extract(ctx context.Context, notice *models.Notice) (*models.Extraction, error) {
	text := notice.Body
	if len(text) > maxPromptChars {
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	prompt, err := renderPrompt(text)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := e.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	payload, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}

	var extraction models.Extraction
	if err := json.Unmarshal([]byte(payload), &extraction); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPayload, err)
	}

	if extraction.Client == "" || extraction.CaseNumber == "" {
		return nil, fmt.Errorf("%w: cliente=%q numero_processo=%q",
			ErrMissingFields, extraction.Client, extraction.CaseNumber)
	}

	if extraction.DeadlineDays <= 0 {
		extraction.DeadlineDays = implicitDeadlineDays
		extraction.DeadlineImplicit = true
	}
	extraction.Deadline = notice.ReceivedAt.AddDate(0, 0, extraction.DeadlineDays)
	extraction.Provider = e.provider.Name()

	return &extraction, nil
}

// extractJSON locates the JSON object embedded in the model reply, which may
// be wrapped in ```json fences or free-text commentary.
func extractJSON(reply string) (string, error) {
	cleaned := strings.ReplaceAll(reply, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	match := reJSONObject.FindString(cleaned)
	if match == "" {
		return "", ErrNoPayload
	}

	return match, nil
}
