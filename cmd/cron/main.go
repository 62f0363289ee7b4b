// Single-shot entrypoint for cron or similar schedulers: run one poll cycle
// against unread mail and exit. No dedup state is kept between runs; the
// unread flag is the novelty signal.
package main

import (
	"context"
	"os"

	"mail-signal-bot/internal/analyze"
	"mail-signal-bot/internal/analyze/analyzeobs"
	"mail-signal-bot/internal/interfaces"
	"mail-signal-bot/internal/llm/gemini"
	"mail-signal-bot/internal/llm/noop"
	"mail-signal-bot/internal/logger"
	"mail-signal-bot/internal/mailbox"
	"mail-signal-bot/internal/notify"
	"mail-signal-bot/internal/poller"
	"mail-signal-bot/internal/store"
	"mail-signal-bot/internal/trace"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		logger.Warn(context.Background(), "Failed to initialize tracer", "error", err)
	}

	ctx := context.Background()
	defer func() { _ = trace.Shutdown(ctx) }()

	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	mb, err := mailbox.NewClient(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize Gmail client", err)
		os.Exit(1)
	}

	var model interfaces.Model
	switch cfg.LLM.Provider {
	case "GEMINI":
		model = gemini.New(cfg.LLM.Model)
	default:
		logger.Warn(ctx, "No LLM provider configured - using Noop model (no analysis)")
		model = noop.New()
	}
	analyzer := analyzeobs.Wrap(analyze.New(model))

	tg, err := notify.New(cfg.Telegram.ChatID, cfg.Telegram.MaxMessageLen, cfg.Telegram.PollTimeoutSeconds)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize Telegram client", err)
		os.Exit(1)
	}

	p := poller.New(cfg, mb, analyzer, tg, poller.StrategyUnread)
	res, err := p.Cycle(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Poll cycle failed", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Poll cycle finished", "outcome", string(res.Outcome), "mail_id", res.MailID)
}
