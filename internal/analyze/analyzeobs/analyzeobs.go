// Package analyzeobs wraps an Analyzer with logging and tracing middleware.
package analyzeobs

import (
	"context"

	"mail-signal-bot/internal/interfaces"
	"mail-signal-bot/internal/logger"
	"mail-signal-bot/internal/trace"
	"mail-signal-bot/internal/types"
)

type observableAnalyzer struct {
	analyzer interfaces.Analyzer
}

// Compile-time interface check
var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

// Wrap adds observability around an analyzer.
func Wrap(analyzer interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{analyzer: analyzer}
}

func (oa *observableAnalyzer) Analyze(ctx context.Context, mail types.NormalizedMail) (types.AnalysisResult, error) {
	ctx, span := trace.StartSpan(ctx, "analyzer.Analyze")
	defer span.End()

	// Skip(1) so log records point at the caller, not this middleware.
	logger.DebugSkip(ctx, 1, "Requesting mail analysis",
		"mail_id", mail.ID,
		"subject", mail.Subject,
	)

	res, err := oa.analyzer.Analyze(ctx, mail)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Mail analysis failed", err,
			"mail_id", mail.ID,
		)
		return types.AnalysisResult{}, err
	}

	logger.InfoSkip(ctx, 1, "Mail analysis complete",
		"mail_id", mail.ID,
		"signals", len(res.Signals),
		"action_items", len(res.ActionItems),
		"confidence", res.Confidence,
	)

	for _, s := range res.Signals {
		score := 0
		if s.EntryScore != nil {
			score = *s.EntryScore
		}
		logger.Signal(ctx, mail.ID, s.Symbol, s.Direction, score)
	}

	return res, nil
}
