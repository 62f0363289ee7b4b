package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mail-signal-bot/internal/errs"
)

// Config is the YAML-backed runtime configuration. Secrets never live here:
// API keys and tokens are read from the environment by the components that
// need them.
type Config struct {
	PollSeconds       int `yaml:"poll_seconds"`
	MailMaxAgeMinutes int `yaml:"mail_max_age_minutes"`

	Gmail struct {
		Query       string `yaml:"query"`
		MaxMessages int64  `yaml:"max_messages"`
	} `yaml:"gmail"`

	LLM struct {
		Provider string `yaml:"provider"` // GEMINI or NOOP
		Model    string `yaml:"model"`
	} `yaml:"llm"`

	Telegram struct {
		ChatID             int64 `yaml:"chat_id"`
		MaxMessageLen      int   `yaml:"max_message_len"`
		PollTimeoutSeconds int   `yaml:"poll_timeout_seconds"`
	} `yaml:"telegram"`

	Chatbot struct {
		Enabled     bool `yaml:"enabled"`
		HistorySize int  `yaml:"history_size"`
	} `yaml:"chatbot"`

	MailLog struct {
		Dir string `yaml:"dir"`
	} `yaml:"maillog"`
}

// Validate rejects configurations the bot cannot run with.
func (c *Config) Validate() error {
	if c.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive, got %d", c.PollSeconds)
	}
	if c.Gmail.Query == "" {
		return &errs.ConfigError{Key: "gmail.query"}
	}
	if c.Gmail.MaxMessages <= 0 {
		return fmt.Errorf("gmail.max_messages must be positive, got %d", c.Gmail.MaxMessages)
	}
	if c.LLM.Provider != "GEMINI" && c.LLM.Provider != "NOOP" {
		return fmt.Errorf("llm.provider must be 'GEMINI' or 'NOOP', got '%s'", c.LLM.Provider)
	}
	if c.Telegram.ChatID == 0 {
		return &errs.ConfigError{Key: "telegram.chat_id"}
	}
	if c.Telegram.MaxMessageLen <= 0 || c.Telegram.MaxMessageLen > 4096 {
		return fmt.Errorf("telegram.max_message_len must be in (0,4096], got %d", c.Telegram.MaxMessageLen)
	}
	return nil
}

// LoadConfig reads and validates the configuration file, filling defaults for
// everything optional.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.PollSeconds == 0 {
		c.PollSeconds = 600
	}
	if c.MailMaxAgeMinutes == 0 {
		c.MailMaxAgeMinutes = 20
	}
	if c.Gmail.MaxMessages == 0 {
		c.Gmail.MaxMessages = 10
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "GEMINI"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.5-flash"
	}
	if c.Telegram.MaxMessageLen == 0 {
		// Telegram hard limit is 4096; leave headroom.
		c.Telegram.MaxMessageLen = 4000
	}
	if c.Telegram.PollTimeoutSeconds == 0 {
		c.Telegram.PollTimeoutSeconds = 30
	}
	if c.Chatbot.HistorySize == 0 {
		c.Chatbot.HistorySize = 5
	}
	if c.MailLog.Dir == "" {
		c.MailLog.Dir = "logs"
	}
}
