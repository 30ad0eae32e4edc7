package config

import (
	"fmt"
	"os"
	"time"

	"legal-publication-bot/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Load reads the configuration from the specified YAML file, overlays
// secrets from the environment (a .env file next to the binary is honored),
// applies defaults and validates the result.
func Load(filepath string) (*models.Config, error) {
	configFile, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := yaml.Unmarshal(configFile, &config); err != nil {
		return nil, err
	}

	// Secrets may live in a .env file instead of the YAML. Missing .env is
	// fine; the process environment still applies.
	_ = godotenv.Load()
	overlayEnv(&config)
	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func overlayEnv(cfg *models.Config) {
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.Gemini.APIKey = v
	}
	if v := os.Getenv("TRELLO_API_KEY"); v != "" {
		cfg.Trello.APIKey = v
	}
	if v := os.Getenv("TRELLO_TOKEN"); v != "" {
		cfg.Trello.Token = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
}

func applyDefaults(cfg *models.Config) {
	if cfg.Email.LookbackDays <= 0 {
		cfg.Email.LookbackDays = 7
	}
	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = 15 * time.Minute
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
	}
	if cfg.LLM.Ollama.URL == "" {
		cfg.LLM.Ollama.URL = "http://localhost:11434"
	}
	if cfg.LLM.Ollama.Model == "" {
		cfg.LLM.Ollama.Model = "llama3.1:8b-instruct-q4_K_M"
	}
	if cfg.LLM.Ollama.MaxTokens <= 0 {
		cfg.LLM.Ollama.MaxTokens = 2000
	}
	if cfg.LLM.Gemini.Model == "" {
		cfg.LLM.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.LLM.Gemini.MaxTokens <= 0 {
		cfg.LLM.Gemini.MaxTokens = 2000
	}
	if cfg.Exclusions.File == "" {
		cfg.Exclusions.File = "exclusions.txt"
	}
}

// Validate reports the first fatal configuration problem, if any
func Validate(cfg *models.Config) error {
	if cfg.Email.Imap == "" {
		return fmt.Errorf("config: email.imap is required (host:port)")
	}
	if cfg.Email.Login == "" {
		return fmt.Errorf("config: email.login is required")
	}
	if cfg.Email.Password == "" {
		return fmt.Errorf("config: email.password is required (yaml or EMAIL_PASSWORD)")
	}

	switch cfg.LLM.Provider {
	case "ollama":
	case "gemini":
		if cfg.LLM.Gemini.APIKey == "" {
			return fmt.Errorf("config: llm.gemini.apiKey is required (yaml or GEMINI_API_KEY)")
		}
	default:
		return fmt.Errorf("config: llm.provider must be \"ollama\" or \"gemini\", got %q", cfg.LLM.Provider)
	}

	if cfg.Trello.APIKey == "" || cfg.Trello.Token == "" {
		return fmt.Errorf("config: trello.apiKey and trello.token are required")
	}
	if cfg.Trello.ListID == "" {
		return fmt.Errorf("config: trello.listId is required")
	}

	return nil
}
