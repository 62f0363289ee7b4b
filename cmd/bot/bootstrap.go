package main

import (
	"context"
	"fmt"
	"os"

	"mail-signal-bot/internal/analyze"
	"mail-signal-bot/internal/analyze/analyzeobs"
	"mail-signal-bot/internal/interfaces"
	"mail-signal-bot/internal/llm/gemini"
	"mail-signal-bot/internal/llm/noop"
	"mail-signal-bot/internal/logger"
	"mail-signal-bot/internal/mailbox"
	"mail-signal-bot/internal/notify"
	"mail-signal-bot/internal/store"
	"mail-signal-bot/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeMailbox initializes the Gmail client
func initializeMailbox(ctx context.Context) (interfaces.Mailbox, error) {
	mb, err := mailbox.NewClient(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize Gmail client", err)
		return nil, err
	}
	return mb, nil
}

// initializeModel returns the configured LLM client
func initializeModel(ctx context.Context, cfg *store.Config) interfaces.Model {
	switch cfg.LLM.Provider {
	case "GEMINI":
		return gemini.New(cfg.LLM.Model)
	default:
		logger.Warn(ctx, "No LLM provider configured - using Noop model (no analysis)")
		return noop.New()
	}
}

// initializeAnalyzer builds the analyzer with observability middleware
func initializeAnalyzer(model interfaces.Model) interfaces.Analyzer {
	return analyzeobs.Wrap(analyze.New(model))
}

// initializeMessenger initializes the Telegram client
func initializeMessenger(ctx context.Context, cfg *store.Config) (*notify.Telegram, error) {
	tg, err := notify.New(cfg.Telegram.ChatID, cfg.Telegram.MaxMessageLen, cfg.Telegram.PollTimeoutSeconds)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize Telegram client", err)
		return nil, err
	}
	return tg, nil
}
