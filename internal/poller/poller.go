// Package poller owns the poll cycle state machine: pick the newest candidate
// mail, decide whether it is genuinely new, and drive it through analysis,
// delivery and acknowledgement in that order.
package poller

import (
	"context"
	"sync"
	"time"

	"mail-signal-bot/internal/interfaces"
	"mail-signal-bot/internal/logger"
	"mail-signal-bot/internal/maillog"
	"mail-signal-bot/internal/report"
	"mail-signal-bot/internal/store"
	"mail-signal-bot/internal/trace"
	"mail-signal-bot/internal/types"
)

// Strategy selects how the poller decides a mail is new.
type Strategy int

const (
	// StrategyLastID treats a mail as new when its id differs from the last
	// processed one. Suited to a long-running loop that keeps state.
	StrategyLastID Strategy = iota
	// StrategyUnread treats a mail as new when it is unread. Suited to
	// single-shot runs with no retained state.
	StrategyUnread
)

// Outcome classifies what a cycle did with the newest candidate.
type Outcome string

const (
	OutcomeNoNew     Outcome = "no_new"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeProcessed Outcome = "processed"
)

// CycleResult reports one cycle's decision and, when processed, the mail id.
type CycleResult struct {
	Outcome Outcome
	MailID  string
}

// Poller runs poll cycles. All dedup state lives here; nothing is global.
type Poller struct {
	cfg       *store.Config
	mailbox   interfaces.Mailbox
	analyzer  interfaces.Analyzer
	messenger interfaces.Messenger
	strategy  Strategy

	mu              sync.Mutex
	lastProcessedID string
	latest          *types.NormalizedMail

	now func() time.Time
}

// New builds a poller. State starts empty: the first cycle processes
// whatever qualifies as new under the chosen strategy.
func New(cfg *store.Config, mb interfaces.Mailbox, an interfaces.Analyzer, msg interfaces.Messenger, strategy Strategy) *Poller {
	return &Poller{
		cfg:       cfg,
		mailbox:   mb,
		analyzer:  an,
		messenger: msg,
		strategy:  strategy,
		now:       time.Now,
	}
}

// Latest returns the most recently processed mail, or nil before the first
// successful cycle. The chatbot reads this concurrently with the poll loop.
func (p *Poller) Latest() *types.NormalizedMail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// Cycle runs one poll iteration. Only the single newest candidate is
// considered; older unprocessed mail is picked up by later cycles, newest
// first. State advances only after the report is delivered and the mail is
// marked read, so a failed cycle is retried in full next time.
func (p *Poller) Cycle(ctx context.Context) (CycleResult, error) {
	ctx, span := trace.StartSpan(ctx, "poll-cycle")
	defer span.End()

	refs, err := p.mailbox.ListCandidates(ctx, p.cfg.Gmail.Query, p.cfg.Gmail.MaxMessages)
	if err != nil {
		return CycleResult{}, err
	}
	if len(refs) == 0 {
		logger.Debug(ctx, "No candidate mail")
		return CycleResult{Outcome: OutcomeNoNew}, nil
	}

	top := refs[0]
	if outcome, ok := p.novelty(ctx, top); !ok {
		return CycleResult{Outcome: outcome, MailID: top.ID}, nil
	}

	mail, err := p.mailbox.FetchMail(ctx, top.ID)
	if err != nil {
		return CycleResult{}, err
	}

	analysis, err := p.analyzer.Analyze(ctx, mail)
	if err != nil {
		return CycleResult{}, err
	}

	received := time.UnixMilli(mail.InternalDate)
	text := report.Separator(received, p.now()) + report.Format(analysis)
	if err := p.messenger.Send(ctx, text); err != nil {
		return CycleResult{}, err
	}

	if err := p.mailbox.MarkRead(ctx, mail.ID); err != nil {
		return CycleResult{}, err
	}

	p.mu.Lock()
	p.lastProcessedID = mail.ID
	p.latest = &mail
	p.mu.Unlock()

	if err := maillog.Append(p.cfg.MailLog.Dir, []types.NormalizedMail{mail}); err != nil {
		// Logging is best-effort; the mail is already delivered and acked.
		logger.ErrorWithErr(ctx, "Failed to append mail log", err, "mail_id", mail.ID)
	}

	logger.Info(ctx, "Mail processed",
		"mail_id", mail.ID,
		"subject", mail.Subject,
		"signals", len(analysis.Signals),
	)
	return CycleResult{Outcome: OutcomeProcessed, MailID: mail.ID}, nil
}

// novelty decides whether the top candidate should be processed. A read mail
// still counts as new under StrategyLastID while it is younger than the age
// cutoff, which covers mail opened on a phone before the bot saw it.
func (p *Poller) novelty(ctx context.Context, top types.MailRef) (Outcome, bool) {
	switch p.strategy {
	case StrategyUnread:
		if !top.Unread {
			logger.Debug(ctx, "Newest mail already read", "mail_id", top.ID)
			return OutcomeSkipped, false
		}
		return "", true
	default:
		p.mu.Lock()
		lastID := p.lastProcessedID
		p.mu.Unlock()

		if top.ID == lastID {
			logger.Debug(ctx, "Newest mail already processed", "mail_id", top.ID)
			return OutcomeDuplicate, false
		}
		if !top.Unread {
			age := p.now().Sub(time.UnixMilli(top.InternalDate))
			if age > time.Duration(p.cfg.MailMaxAgeMinutes)*time.Minute {
				logger.Debug(ctx, "Newest mail read and stale, skipping",
					"mail_id", top.ID,
					"age_minutes", int(age.Minutes()),
				)
				return OutcomeSkipped, false
			}
		}
		return "", true
	}
}
