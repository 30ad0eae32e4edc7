package models

import "time"

// Config represents the application configuration
type Config struct {
	Email      EmailConfig      `yaml:"email"`
	LLM        LLMConfig        `yaml:"llm"`
	Trello     TrelloConfig     `yaml:"trello"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Exclusions ExclusionsConfig `yaml:"exclusions"`
	Poll       PollConfig       `yaml:"poll"`
	Debug      bool             `yaml:"debug"`
}

// EmailConfig represents IMAP mailbox configuration
type EmailConfig struct {
	Imap         string `yaml:"imap"` // host:port, TLS
	Login        string `yaml:"login"`
	Password     string `yaml:"password"`
	Label        string `yaml:"label"` // Gmail label or folder; empty means INBOX
	LookbackDays int    `yaml:"lookbackDays"`
	MarkSeen     *bool  `yaml:"markSeen"` // nil means true
}

// MarkSeenEnabled reports whether handled messages are flagged as seen.
// An absent markSeen key enables it; turning it off makes every pass
// reprocess the same emails and duplicate cards.
func (e EmailConfig) MarkSeenEnabled() bool {
	return e.MarkSeen == nil || *e.MarkSeen
}

// LLMConfig selects and configures the extraction backend
type LLMConfig struct {
	Provider string       `yaml:"provider"` // "ollama" or "gemini"
	Ollama   OllamaConfig `yaml:"ollama"`
	Gemini   GeminiConfig `yaml:"gemini"`
}

// OllamaConfig configures the locally hosted backend
type OllamaConfig struct {
	URL         string  `yaml:"url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// GeminiConfig configures the hosted cloud backend
type GeminiConfig struct {
	APIKey      string  `yaml:"apiKey"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// TrelloConfig represents the card sink credentials and target list
type TrelloConfig struct {
	APIKey  string `yaml:"apiKey"`
	Token   string `yaml:"token"`
	BoardID string `yaml:"boardId"`
	ListID  string `yaml:"listId"`
}

// TelegramConfig represents the notification sink credentials
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID string `yaml:"chatId"`
}

// ExclusionsConfig points at the flat-file client denylist
type ExclusionsConfig struct {
	File string `yaml:"file"`
}

// PollConfig controls continuous mode
type PollConfig struct {
	Interval time.Duration `yaml:"interval"` // ex: "15m", "30s"
}
