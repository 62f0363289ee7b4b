// Package analyze is the signal extraction and scoring engine: it prompts
// the model with a fixed scoring rubric, then parses, validates and bounds
// whatever comes back.
package analyze

import (
	"context"
	"strings"

	"mail-signal-bot/internal/errs"
	"mail-signal-bot/internal/interfaces"
	"mail-signal-bot/internal/logger"
	"mail-signal-bot/internal/mailbox"
	"mail-signal-bot/internal/trace"
	"mail-signal-bot/internal/types"
)

// Analyzer extracts trading signals from normalized mail via an LLM.
type Analyzer struct {
	model interfaces.Model
}

// Compile-time interface check
var _ interfaces.Analyzer = (*Analyzer)(nil)

// New creates an analyzer on top of a model client.
func New(model interfaces.Model) *Analyzer {
	return &Analyzer{model: model}
}

// Analyze runs the full extraction pipeline for one mail: prompt, model
// call, fence-strip + parse, sanitizing projection, score fallback. Given
// identical input text and model output it is deterministic; model
// non-determinism is only bounded, not eliminated, by the rubric.
func (a *Analyzer) Analyze(ctx context.Context, mail types.NormalizedMail) (types.AnalysisResult, error) {
	ctx, span := trace.StartSpan(ctx, "analyze-mail")
	defer span.End()

	out, err := a.model.GenerateJSON(ctx, systemInstruction, buildPrompt(mail))
	if err != nil {
		return types.AnalysisResult{}, err
	}
	if strings.TrimSpace(out) == "" {
		return types.AnalysisResult{}, errs.Processing(mail.ID, out, "empty model response")
	}

	raw, err := parseAnalysis(out, mail.ID)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	res, err := sanitize(raw, mail.ID, out)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	fillMissingScores(&res, mailbox.BodyText(mail.PlainText, mail.HTMLText, mail.Snippet))

	logger.Debug(ctx, "Mail analyzed",
		"mail_id", mail.ID,
		"signals", len(res.Signals),
		"confidence", res.Confidence,
	)
	return res, nil
}

// fillMissingScores backfills entryScore for LONG/SHORT signals the model
// left unscored, using the deterministic rubric over the source text.
func fillMissingScores(res *types.AnalysisResult, body string) {
	for i := range res.Signals {
		s := &res.Signals[i]
		if s.EntryScore != nil {
			continue
		}
		if s.Direction != types.DirectionLong && s.Direction != types.DirectionShort {
			continue
		}
		score := ScoreSignal(body, s.Direction)
		s.EntryScore = &score
	}
}
