package interfaces

import (
	"context"

	"mail-signal-bot/internal/types"
)

// Analyzer turns one normalized mail into a validated analysis result.
type Analyzer interface {
	Analyze(ctx context.Context, mail types.NormalizedMail) (types.AnalysisResult, error)
}
