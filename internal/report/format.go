// Package report renders an AnalysisResult into the chat message text.
// Formatting is pure; length limits are the messenger's problem.
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"mail-signal-bot/internal/types"
)

const noSignalPlaceholder = "\n(no trading signal found in this email)"

var whitespaceRe = regexp.MustCompile(`\s+`)

// Band maps a 0-100 entry score to its display icon and label.
func Band(score int) (icon, label string) {
	switch {
	case score >= 90:
		return "🔥🔥🔥", "Highly recommended"
	case score >= 75:
		return "⭐⭐", "Recommended"
	case score >= 60:
		return "⭐", "Consider"
	case score >= 40:
		return "⚠️", "Caution"
	default:
		return "❌", "Not recommended"
	}
}

func directionIcon(direction string) string {
	switch direction {
	case types.DirectionLong:
		return "🟢 LONG"
	case types.DirectionShort:
		return "🔴 SHORT"
	case types.DirectionStayOut:
		return "⚠️ STAY OUT"
	default:
		return "⚪ NEUTRAL"
	}
}

func collapse(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Separator renders the timestamp block prepended to every report.
func Separator(received, processed time.Time) string {
	return fmt.Sprintf(
		"━━━━━━━━━━━━━━━━━━━━━━\n📧 *Mail received:* %s\n⏰ *Processed:* %s\n━━━━━━━━━━━━━━━━━━━━━━\n",
		received.Format("2006-01-02 15:04:05"),
		processed.Format("2006-01-02 15:04:05"),
	)
}

// Format renders the full report: header, one block per signal, footer.
func Format(analysis types.AnalysisResult) string {
	header := []string{
		"📬 *New Signal Report*",
		"🗣 *From:* " + collapse(analysis.Sender),
		"📝 *Subject:* " + collapse(analysis.Subject),
		"",
		"📌 *Summary:* " + collapse(analysis.Summary),
	}

	signalDetails := noSignalPlaceholder
	if len(analysis.Signals) > 0 {
		blocks := make([]string, 0, len(analysis.Signals))
		for _, s := range analysis.Signals {
			blocks = append(blocks, formatSignal(s))
		}
		signalDetails = strings.Join(blocks, "\n")
	}

	footer := []string{
		"",
		fmt.Sprintf("🔖 ID: `%s`", analysis.MailID),
		fmt.Sprintf("🤖 Confidence: %.0f%%", analysis.Confidence*100),
	}

	parts := append(header, signalDetails)
	parts = append(parts, footer...)
	return strings.Join(parts, "\n")
}

// formatSignal renders one signal block. The entry/stop/take-profit ladder
// only appears for directional signals, with the score line directly under
// the ladder.
func formatSignal(s types.TradingSignal) string {
	title := "🔹 *" + collapse(s.Symbol) + "*"
	if s.Timeframe != "" {
		title += " (" + collapse(s.Timeframe) + ")"
	}

	parts := []string{
		"--------------------------------",
		title,
		"   " + directionIcon(s.Direction),
	}

	if s.Direction == types.DirectionLong || s.Direction == types.DirectionShort {
		if s.Entry != "" {
			parts = append(parts, "   📥 Entry: "+collapse(s.Entry))
		}
		if s.StopLoss != "" {
			parts = append(parts, "   🛑 SL: "+collapse(s.StopLoss))
		}
		if len(s.TakeProfits) > 0 {
			tps := make([]string, len(s.TakeProfits))
			for i, tp := range s.TakeProfits {
				tps[i] = collapse(tp)
			}
			parts = append(parts, "   🎯 TP: "+strings.Join(tps, " | "))
		}
	}

	if s.EntryScore != nil {
		icon, label := Band(*s.EntryScore)
		parts = append(parts, fmt.Sprintf("   📊 Entry score: %d/100 %s _%s_", *s.EntryScore, icon, label))
	}

	if s.Reason != "" {
		parts = append(parts, "   📝 "+collapse(s.Reason))
	}

	return strings.Join(parts, "\n")
}
