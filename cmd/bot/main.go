package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mail-signal-bot/internal/chatbot"
	"mail-signal-bot/internal/logger"
	"mail-signal-bot/internal/poller"
	"mail-signal-bot/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	mb, err := initializeMailbox(ctx)
	if err != nil {
		os.Exit(1)
	}

	model := initializeModel(ctx, cfg)
	analyzer := initializeAnalyzer(model)

	tg, err := initializeMessenger(ctx, cfg)
	if err != nil {
		os.Exit(1)
	}

	p := poller.New(cfg, mb, analyzer, tg, poller.StrategyLastID)

	if cfg.Chatbot.Enabled {
		assistant := chatbot.New(model, cfg.Chatbot.HistorySize)
		go tg.Listen(ctx, func(ctx context.Context, question string) (string, error) {
			return assistant.Answer(ctx, question, p.Latest())
		})
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	logger.Info(ctx, "Bot started",
		"poll_seconds", cfg.PollSeconds,
		"query", cfg.Gmail.Query,
		"chatbot", cfg.Chatbot.Enabled,
	)

	runCycle(ctx, p)
	for {
		select {
		case <-tick.C:
			runCycle(ctx, p)
		case <-sigc:
			logger.Info(ctx, "Shutting down...")
			return
		case <-ctx.Done():
			return
		}
	}
}

func runCycle(ctx context.Context, p *poller.Poller) {
	res, err := p.Cycle(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Poll cycle failed", err)
		return
	}
	logger.Debug(ctx, "Poll cycle finished", "outcome", string(res.Outcome), "mail_id", res.MailID)
}
