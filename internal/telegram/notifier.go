// Package telegram posts pipeline notifications to a chat via the Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"legal-publication-bot/internal/httputil"
	"legal-publication-bot/internal/models"
)

const telegramBaseURL = "https://api.telegram.org"

// Notifier sends HTML-formatted messages to the configured chat. An empty
// token or chat id disables sending; every method becomes a no-op.
type Notifier struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

// NewNotifier creates a Notifier for the configured bot and chat
func NewNotifier(cfg models.TelegramConfig) *Notifier {
	return &Notifier{
		token:   cfg.Token,
		chatID:  cfg.ChatID,
		baseURL: telegramBaseURL,
		client:  httputil.NewClient(10 * time.Second),
	}
}

// Enabled reports whether the notifier is configured to send
func (n *Notifier) Enabled() bool {
	return n.token != "" && n.chatID != ""
}

// Ping verifies the bot token by calling getMe
func (n *Notifier) Ping(ctx context.Context) error {
	if !n.Enabled() {
		return fmt.Errorf("telegram not configured (token or chat id empty)")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/bot%s/getMe", n.baseURL, n.token), nil)
	if err != nil {
		return err
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var me struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return fmt.Errorf("decoding getMe response: %w", err)
	}
	if !me.OK {
		return fmt.Errorf("telegram rejected the bot token")
	}
	return nil
}

// SendMessage posts one HTML-formatted message to the configured chat
func (n *Notifier) SendMessage(ctx context.Context, text string) error {
	if !n.Enabled() {
		return nil
	}

	params := url.Values{
		"chat_id":                  {n.chatID},
		"text":                     {text},
		"parse_mode":               {"HTML"},
		"disable_web_page_preview": {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token),
		strings.NewReader(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// NotifyProcessed announces a successfully filed publication with a link to
// its card.
func (n *Notifier) NotifyProcessed(ctx context.Context, extraction *models.Extraction, cardURL string) error {
	client := extraction.Client
	if client == "" {
		client = "Não identificado"
	}
	if r := []rune(client); len(r) > 45 {
		client = string(r[:45]) + "..."
	}

	deadline := "Não calculado"
	if !extraction.Deadline.IsZero() {
		deadline = extraction.Deadline.Format("02/01/2006")
	}

	var warnings strings.Builder
	if extraction.Urgent {
		warnings.WriteString("\n⚡ <b>URGENTE!</b>")
	}
	if extraction.DeadlineImplicit {
		warnings.WriteString("\n⚠️ <b>Prazo implícito (revisar!)</b>")
	}

	message := fmt.Sprintf(`🤖 <b>Nova Publicação Processada!</b>
📋 <b>Processo:</b> %s
👤 <b>Cliente:</b> %s
🏷️ <b>Tipo:</b> %s
🏛️ <b>Tribunal:</b> %s
📅 <b>Prazo:</b> %s%s
🔗 <a href="%s">Ver card no Trello</a>`,
		orDash(extraction.CaseNumber), client, orDash(extraction.ActType),
		orDash(extraction.Court), deadline, warnings.String(), cardURL)

	return n.SendMessage(ctx, message)
}

// NotifyFailure reports a publication that could not be filed
func (n *Notifier) NotifyFailure(ctx context.Context, notice *models.Notice, reason string) error {
	message := fmt.Sprintf(`❌ <b>Falha ao processar publicação</b>
📧 <b>Assunto:</b> %s
🆔 <b>Mensagem:</b> UID %d (%d/%d)
⚠️ <b>Motivo:</b> %s`,
		orDash(notice.Subject), notice.UID, notice.PubIndex, notice.PubTotal, reason)

	return n.SendMessage(ctx, message)
}

// SendSummary posts the end-of-pass report with the outcome counts
func (n *Notifier) SendSummary(ctx context.Context, created, failed, skipped int) error {
	now := time.Now().Format("02/01/2006 15:04")

	total := created + failed + skipped
	if total == 0 {
		return n.SendMessage(ctx, fmt.Sprintf(`📊 <b>RESUMO - %s</b>

📭 Nenhuma publicação nova encontrada.`, now))
	}

	skippedLine := ""
	if skipped > 0 {
		skippedLine = fmt.Sprintf("\n⏭️ <b>Ignorados (lista de exclusão):</b> %d", skipped)
	}

	message := fmt.Sprintf(`📊 <b>RESUMO - %s</b>

📬 <b>Total processado:</b> %d publicação(ões)
✅ <b>Cards criados:</b> %d%s
❌ <b>Falhas:</b> %d`,
		now, total, created, skippedLine, failed)

	return n.SendMessage(ctx, message)
}

// NotifyError reports a pass-level failure in continuous mode
func (n *Notifier) NotifyError(ctx context.Context, err error) error {
	reason := err.Error()
	if r := []rune(reason); len(r) > 500 {
		reason = string(r[:500])
	}

	message := fmt.Sprintf(`🚨 <b>ERRO NO BOT DE PUBLICAÇÕES</b>

❌ <b>Erro:</b> %s

⏰ <b>Horário:</b> %s

<i>Verifique os logs para mais detalhes.</i>`,
		reason, time.Now().Format("02/01/2006 15:04"))

	return n.SendMessage(ctx, message)
}

func orDash(s string) string {
	if s == "" {
		return "Não identificado"
	}
	return s
}
