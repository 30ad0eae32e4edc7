package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"legal-publication-bot/internal/models"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) (*Notifier, *int, *map[string][]string) {
	t.Helper()

	calls := 0
	var lastForm map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		lastForm = r.PostForm
		if handler != nil {
			handler(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	t.Cleanup(server.Close)

	notifier := NewNotifier(models.TelegramConfig{Token: "bot-token", ChatID: "chat42"})
	notifier.baseURL = server.URL
	return notifier, &calls, &lastForm
}

func TestSendMessage(t *testing.T) {
	notifier, calls, lastForm := newTestNotifier(t, nil)

	if err := notifier.SendMessage(context.Background(), "<b>olá</b>"); err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	if *calls != 1 {
		t.Fatalf("Expected 1 API call, got %d", *calls)
	}

	form := *lastForm
	if got := form["chat_id"]; len(got) != 1 || got[0] != "chat42" {
		t.Errorf("chat_id = %v, want chat42", got)
	}
	if got := form["text"]; len(got) != 1 || got[0] != "<b>olá</b>" {
		t.Errorf("text = %v", got)
	}
	if got := form["parse_mode"]; len(got) != 1 || got[0] != "HTML" {
		t.Errorf("parse_mode = %v, want HTML", got)
	}
}

func TestSendMessage_Disabled(t *testing.T) {
	notifier := NewNotifier(models.TelegramConfig{})

	if notifier.Enabled() {
		t.Error("Notifier with empty credentials must be disabled")
	}
	if err := notifier.SendMessage(context.Background(), "anything"); err != nil {
		t.Errorf("Disabled notifier must be a silent no-op, got %v", err)
	}
}

func TestNotifyProcessed(t *testing.T) {
	notifier, _, lastForm := newTestNotifier(t, nil)

	extraction := &models.Extraction{
		CaseNumber:       "1234567-89.2024.8.26.0100",
		Client:           "Fulano de Tal",
		ActType:          "Intimação",
		Court:            "TJSP",
		Deadline:         time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
		DeadlineImplicit: true,
		Urgent:           true,
	}

	if err := notifier.NotifyProcessed(context.Background(), extraction, "https://trello.com/c/abc"); err != nil {
		t.Fatalf("NotifyProcessed() error: %v", err)
	}

	text := (*lastForm)["text"][0]
	for _, want := range []string{
		"1234567-89.2024.8.26.0100",
		"Fulano de Tal",
		"06/01/2024",
		"https://trello.com/c/abc",
		"URGENTE",
		"Prazo implícito",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Notification missing %q:\n%s", want, text)
		}
	}
}

func TestNotifyProcessed_LongClientName(t *testing.T) {
	notifier, _, lastForm := newTestNotifier(t, nil)

	extraction := &models.Extraction{
		CaseNumber: "1234567-89.2024.8.26.0100",
		Client:     strings.Repeat("ÇÃO", 30),
	}

	if err := notifier.NotifyProcessed(context.Background(), extraction, "https://trello.com/c/abc"); err != nil {
		t.Fatalf("NotifyProcessed() error: %v", err)
	}

	text := (*lastForm)["text"][0]
	if !utf8.ValidString(text) {
		t.Errorf("Truncated client name must stay valid UTF-8:\n%s", text)
	}
	if !strings.Contains(text, strings.Repeat("ÇÃO", 15)+"...") {
		t.Errorf("Client name should be cut to 45 characters:\n%s", text)
	}
	if strings.Contains(text, strings.Repeat("ÇÃO", 16)) {
		t.Errorf("Client name exceeds the 45-character cut:\n%s", text)
	}
}

func TestNotifyFailure(t *testing.T) {
	notifier, _, lastForm := newTestNotifier(t, nil)

	notice := &models.Notice{UID: 9, Subject: "Publicações do dia", PubIndex: 2, PubTotal: 3}
	if err := notifier.NotifyFailure(context.Background(), notice, "extração falhou: timeout"); err != nil {
		t.Fatalf("NotifyFailure() error: %v", err)
	}

	text := (*lastForm)["text"][0]
	if !strings.Contains(text, "extração falhou: timeout") {
		t.Errorf("Failure reason missing:\n%s", text)
	}
	if !strings.Contains(text, "UID 9") || !strings.Contains(text, "2/3") {
		t.Errorf("Notice identification missing:\n%s", text)
	}
}

func TestSendSummary(t *testing.T) {
	tests := []struct {
		name     string
		created  int
		failed   int
		skipped  int
		contains []string
		excludes []string
	}{
		{
			name:     "Nothing found",
			contains: []string{"Nenhuma publicação nova"},
		},
		{
			name:     "Cards created with skips",
			created:  3,
			failed:   1,
			skipped:  2,
			contains: []string{"6 publicação(ões)", "Cards criados:</b> 3", "Ignorados", "Falhas:</b> 1"},
		},
		{
			name:     "No skips omits the skipped line",
			created:  1,
			contains: []string{"Cards criados:</b> 1"},
			excludes: []string{"Ignorados"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier, _, lastForm := newTestNotifier(t, nil)

			if err := notifier.SendSummary(context.Background(), tt.created, tt.failed, tt.skipped); err != nil {
				t.Fatalf("SendSummary() error: %v", err)
			}

			text := (*lastForm)["text"][0]
			for _, want := range tt.contains {
				if !strings.Contains(text, want) {
					t.Errorf("Summary missing %q:\n%s", want, text)
				}
			}
			for _, not := range tt.excludes {
				if strings.Contains(text, not) {
					t.Errorf("Summary should not contain %q:\n%s", not, text)
				}
			}
		})
	}
}

func TestSendMessage_ServerError(t *testing.T) {
	notifier, _, _ := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok": false}`))
	})

	if err := notifier.SendMessage(context.Background(), "texto"); err == nil {
		t.Error("Expected error for 400 response")
	}
}
