package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
gmail:
  query: "from:signals@example.com"
telegram:
  chat_id: 12345
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PollSeconds != 600 {
		t.Errorf("Expected default poll_seconds 600, got %d", cfg.PollSeconds)
	}
	if cfg.MailMaxAgeMinutes != 20 {
		t.Errorf("Expected default mail_max_age_minutes 20, got %d", cfg.MailMaxAgeMinutes)
	}
	if cfg.Gmail.MaxMessages != 10 {
		t.Errorf("Expected default max_messages 10, got %d", cfg.Gmail.MaxMessages)
	}
	if cfg.LLM.Provider != "GEMINI" || cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("Unexpected LLM defaults: %+v", cfg.LLM)
	}
	if cfg.Telegram.MaxMessageLen != 4000 {
		t.Errorf("Expected default max_message_len 4000, got %d", cfg.Telegram.MaxMessageLen)
	}
	if cfg.Chatbot.HistorySize != 5 {
		t.Errorf("Expected default history_size 5, got %d", cfg.Chatbot.HistorySize)
	}
	if cfg.MailLog.Dir != "logs" {
		t.Errorf("Expected default maillog dir, got %q", cfg.MailLog.Dir)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
poll_seconds: 60
gmail:
  query: "label:signals"
  max_messages: 3
llm:
  provider: NOOP
telegram:
  chat_id: 99
  max_message_len: 1000
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PollSeconds != 60 || cfg.Gmail.MaxMessages != 3 {
		t.Errorf("Expected overrides applied, got %+v", cfg)
	}
	if cfg.LLM.Provider != "NOOP" {
		t.Errorf("Expected NOOP provider, got %s", cfg.LLM.Provider)
	}
	if cfg.Telegram.MaxMessageLen != 1000 {
		t.Errorf("Expected max_message_len 1000, got %d", cfg.Telegram.MaxMessageLen)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing query", "telegram:\n  chat_id: 1\n"},
		{"missing chat id", "gmail:\n  query: \"x\"\n"},
		{"bad provider", "gmail:\n  query: \"x\"\nllm:\n  provider: OPENAI\ntelegram:\n  chat_id: 1\n"},
		{"message len over hard limit", "gmail:\n  query: \"x\"\ntelegram:\n  chat_id: 1\n  max_message_len: 5000\n"},
		{"negative poll", "poll_seconds: -1\ngmail:\n  query: \"x\"\ntelegram:\n  chat_id: 1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.content)); err == nil {
				t.Error("Expected validation to fail")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
