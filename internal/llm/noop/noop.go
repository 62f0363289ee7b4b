package noop

import (
	"context"

	"mail-signal-bot/internal/logger"
)

// Model is a fallback used when no real LLM is configured. Extraction gets
// an empty-but-valid result, the chatbot gets nothing (which the caller
// turns into its decline message).
type Model struct{}

// New returns a model that never calls out.
func New() *Model {
	return &Model{}
}

func (m *Model) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	logger.Debug(ctx, "Noop model called for JSON generation")
	return `{"subject":"(model disabled)","sender":"","summary":"LLM provider is NOOP; no analysis performed.","signals":[],"actionItems":[],"confidence":0.5}`, nil
}

func (m *Model) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	logger.Debug(ctx, "Noop model called for text generation")
	return "", nil
}
