package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"legal-publication-bot/internal/models"
)

type mockProvider struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.reply, m.err
}

func (m *mockProvider) Ping(ctx context.Context) error { return nil }

func testNotice(receivedAt time.Time) *models.Notice {
	return &models.Notice{
		UID:        1,
		Body:       "PROCESSO Nº 1234567-89.2024.8.26.0100 Intimação da parte autora.",
		ReceivedAt: receivedAt,
		PubIndex:   1,
		PubTotal:   1,
		TraceID:    "test-trace",
	}
}

func TestExtract_Success(t *testing.T) {
	received := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	provider := &mockProvider{
		reply: `Segue o resultado da análise:

` + "```json" + `
{"numero_processo": "1234567-89.2024.8.26.0100", "cliente": "X", "tipo_ato": "Intimação", "tribunal": "TJSP", "prazo_dias": 5, "prazo_implicito": false, "resumo_topicos": ["Manifestar em 5 dias"], "confianca": 0.9}
` + "```" + `

Espero ter ajudado.`,
	}

	extractor := NewExtractor(provider)
	extraction, err := extractor.Extract(context.Background(), testNotice(received))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if extraction.CaseNumber != "1234567-89.2024.8.26.0100" {
		t.Errorf("CaseNumber = %q", extraction.CaseNumber)
	}
	if extraction.Client != "X" {
		t.Errorf("Client = %q, want X", extraction.Client)
	}
	if extraction.DeadlineDays != 5 {
		t.Errorf("DeadlineDays = %d, want 5", extraction.DeadlineDays)
	}

	wantDeadline := time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)
	if !extraction.Deadline.Equal(wantDeadline) {
		t.Errorf("Deadline = %v, want %v (receivedAt + 5 days)", extraction.Deadline, wantDeadline)
	}

	if extraction.DeadlineImplicit {
		t.Error("Explicit 5-day deadline should not be flagged implicit")
	}
	if extraction.Provider != "mock" {
		t.Errorf("Provider = %q, want mock", extraction.Provider)
	}
}

func TestExtract_NoPayload(t *testing.T) {
	provider := &mockProvider{reply: "Desculpe, não consegui analisar esta publicação."}

	extractor := NewExtractor(provider)
	extraction, err := extractor.Extract(context.Background(), testNotice(time.Now()))

	if !errors.Is(err, ErrNoPayload) {
		t.Errorf("Expected ErrNoPayload, got %v", err)
	}
	if extraction != nil {
		t.Errorf("Expected no partial record, got %+v", extraction)
	}
}

func TestExtract_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{
			name:  "No client",
			reply: `{"numero_processo": "1234567-89.2024.8.26.0100", "prazo_dias": 10}`,
		},
		{
			name:  "No case number",
			reply: `{"cliente": "Fulano", "prazo_dias": 10}`,
		},
		{
			name:  "Empty object",
			reply: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{reply: tt.reply}
			extractor := NewExtractor(provider)

			extraction, err := extractor.Extract(context.Background(), testNotice(time.Now()))
			if !errors.Is(err, ErrMissingFields) {
				t.Errorf("Expected ErrMissingFields, got %v", err)
			}
			if extraction != nil {
				t.Errorf("Expected no partial record, got %+v", extraction)
			}
		})
	}
}

func TestExtract_ImplicitDeadlineDefault(t *testing.T) {
	received := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	provider := &mockProvider{
		reply: `{"numero_processo": "1234567-89.2024.8.26.0100", "cliente": "Fulano"}`,
	}

	extractor := NewExtractor(provider)
	extraction, err := extractor.Extract(context.Background(), testNotice(received))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if extraction.DeadlineDays != 5 {
		t.Errorf("DeadlineDays = %d, want implicit default 5", extraction.DeadlineDays)
	}
	if !extraction.DeadlineImplicit {
		t.Error("Missing prazo_dias must be flagged implicit")
	}

	wantDeadline := received.AddDate(0, 0, 5)
	if !extraction.Deadline.Equal(wantDeadline) {
		t.Errorf("Deadline = %v, want %v", extraction.Deadline, wantDeadline)
	}
}

func TestExtract_TruncatesOnRuneBoundary(t *testing.T) {
	provider := &mockProvider{
		reply: `{"numero_processo": "1234567-89.2024.8.26.0100", "cliente": "X"}`,
	}
	extractor := NewExtractor(provider)

	notice := testNotice(time.Now())
	notice.Body = strings.Repeat("a", maxPromptChars-1) + strings.Repeat("ç", 100)

	if _, err := extractor.Extract(context.Background(), notice); err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if !utf8.ValidString(provider.prompt) {
		t.Error("Truncation must not split a rune inside the prompt")
	}
	if !strings.Contains(provider.prompt, strings.Repeat("a", maxPromptChars-1)) {
		t.Error("Text up to the cut must survive truncation")
	}
}

func TestExtract_ProviderError(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}

	extractor := NewExtractor(provider)
	if _, err := extractor.Extract(context.Background(), testNotice(time.Now())); err == nil {
		t.Error("Expected error when the provider call fails")
	}
	if provider.calls != 1 {
		t.Errorf("Extract must not retry, provider called %d times", provider.calls)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		expected string
		wantErr  bool
	}{
		{
			name:     "Bare JSON",
			reply:    `{"cliente": "X"}`,
			expected: `{"cliente": "X"}`,
		},
		{
			name:     "Markdown fences",
			reply:    "```json\n{\"cliente\": \"X\"}\n```",
			expected: `{"cliente": "X"}`,
		},
		{
			name:     "Surrounding commentary",
			reply:    "Aqui está: {\"cliente\": \"X\"} — qualquer dúvida avise.",
			expected: `{"cliente": "X"}`,
		},
		{
			name:    "No JSON at all",
			reply:   "não foi possível extrair",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.reply)
			if (err != nil) != tt.wantErr {
				t.Errorf("extractJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("extractJSON() = %q, want %q", got, tt.expected)
			}
		})
	}
}
