package analyze

import (
	"encoding/json"
	"math"
	"strings"

	"mail-signal-bot/internal/errs"
	"mail-signal-bot/internal/types"
)

// rawAnalysis is the loosely typed shape the model response is parsed into.
// Nothing here is trusted; sanitize projects it into the strict domain type.
type rawAnalysis struct {
	Subject     string          `json:"subject"`
	Sender      string          `json:"sender"`
	Summary     string          `json:"summary"`
	ActionItems []rawActionItem `json:"actionItems"`
	Confidence  any             `json:"confidence"`
	Signals     []rawSignal     `json:"signals"`
}

type rawActionItem struct {
	Title    any `json:"title"`
	Owner    any `json:"owner"`
	DueDate  any `json:"dueDate"`
	Priority any `json:"priority"`
}

type rawSignal struct {
	Symbol      any `json:"symbol"`
	Direction   any `json:"direction"`
	Entry       any `json:"entry"`
	StopLoss    any `json:"stopLoss"`
	TakeProfits any `json:"takeProfits"`
	Reason      any `json:"reason"`
	Timeframe   any `json:"timeframe"`
	EntryScore  any `json:"entryScore"`
}

// stripFences removes markdown code-fence wrappers some model responses
// arrive in despite the no-markdown instruction.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// parseAnalysis parses the model output into the intermediate structure. A
// parse failure is terminal for the mail and carries the raw payload.
func parseAnalysis(text, mailID string) (rawAnalysis, error) {
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return rawAnalysis{}, errs.Processing(mailID, text, "model returned invalid JSON: "+err.Error())
	}
	return raw, nil
}

// sanitize projects the untrusted parse result into an AnalysisResult,
// enforcing every bound the schema promises. Running it over an already
// clean result changes nothing.
func sanitize(raw rawAnalysis, mailID, rawText string) (types.AnalysisResult, error) {
	subject := strings.TrimSpace(raw.Subject)
	if subject == "" {
		return types.AnalysisResult{}, errs.Processing(mailID, rawText, "model response missing subject")
	}

	return types.AnalysisResult{
		MailID:      mailID,
		Subject:     subject,
		Sender:      strings.TrimSpace(raw.Sender),
		Summary:     strings.TrimSpace(raw.Summary),
		ActionItems: sanitizeActionItems(raw.ActionItems),
		Confidence:  sanitizeConfidence(raw.Confidence),
		Signals:     sanitizeSignals(raw.Signals),
	}, nil
}

// sanitizeConfidence keeps finite values in [0,1]; everything else collapses
// to exactly 0.5.
func sanitizeConfidence(v any) float64 {
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > 1 {
		return 0.5
	}
	return f
}

func sanitizeActionItems(items []rawActionItem) []types.ActionItem {
	out := make([]types.ActionItem, 0, len(items))
	for _, item := range items {
		title, ok := asString(item.Title)
		if !ok || title == "" {
			continue
		}
		out = append(out, types.ActionItem{
			Title:    title,
			Owner:    stringOrEmpty(item.Owner),
			DueDate:  stringOrEmpty(item.DueDate),
			Priority: stringOrEmpty(item.Priority),
		})
	}
	return out
}

func sanitizeSignals(items []rawSignal) []types.TradingSignal {
	out := make([]types.TradingSignal, 0, len(items))
	for _, item := range items {
		symbol, ok := asString(item.Symbol)
		if !ok || symbol == "" {
			continue
		}

		direction := strings.ToUpper(stringOrEmpty(item.Direction))
		switch direction {
		case types.DirectionLong, types.DirectionShort, types.DirectionNeutral, types.DirectionStayOut:
		default:
			direction = types.DirectionNeutral
		}

		out = append(out, types.TradingSignal{
			Symbol:      strings.ToUpper(symbol),
			Direction:   direction,
			Entry:       stringOrEmpty(item.Entry),
			StopLoss:    stringOrEmpty(item.StopLoss),
			TakeProfits: sanitizeTakeProfits(item.TakeProfits),
			Reason:      stringOrEmpty(item.Reason),
			Timeframe:   stringOrEmpty(item.Timeframe),
			EntryScore:  sanitizeEntryScore(item.EntryScore, direction),
		})
	}
	return out
}

func sanitizeTakeProfits(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if s, ok := asString(entry); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// sanitizeEntryScore drops (never clamps) anything non-numeric or outside
// [0,100]. A STAY_OUT signal additionally may not score above 20.
func sanitizeEntryScore(v any, direction string) *int {
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) || f < 0 || f > 100 {
		return nil
	}
	score := int(math.Round(f))
	if direction == types.DirectionStayOut && score > stayOutCeiling {
		return nil
	}
	return &score
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func stringOrEmpty(v any) string {
	s, _ := asString(v)
	return s
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
