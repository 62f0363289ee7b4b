package analyze

import (
	"strings"

	"mail-signal-bot/internal/mailbox"
	"mail-signal-bot/internal/types"
)

// systemInstruction tells the model exactly what to return: one bare JSON
// object, no markdown wrapper.
const systemInstruction = `You are a professional crypto trading-signal analyst.
Task: extract ALL trading signals from the email and rate the quality of each one.

Return JSON (no markdown wrapper) with this structure:
{
  "subject": "string",
  "sender": "string",
  "summary": "Short overall market summary",
  "signals": [
    {
      "symbol": "BTCUSDT",
      "direction": "LONG" | "SHORT" | "STAY_OUT" | "NEUTRAL",
      "entry": "entry price (e.g. 83439)",
      "stopLoss": "SL price (e.g. 84100)",
      "takeProfits": ["TP1", "TP2", "TP3"],
      "reason": "short reason",
      "timeframe": "1h" (when given),
      "entryScore": 85
    }
  ],
  "actionItems": [],
  "confidence": 0.9
}

` + RubricPrompt + `

Additional rules:
- When one coin has several timeframes, pick the PRIORITY one (usually the short 1h or 4h frame with the strongest signal).
- For summary tables, take every coin with a LONG/SHORT signal. STAY_OUT coins may be skipped, or kept when they matter.
- entryScore is REQUIRED for every LONG/SHORT signal.
- Read the email carefully and extract the exact Edge Score, RR, trend and market context before scoring.`

// buildPrompt lays the mail out field by field for the model.
func buildPrompt(mail types.NormalizedMail) string {
	body := mailbox.BodyText(mail.PlainText, mail.HTMLText, mail.Snippet)
	if body == "" {
		body = "(no body)"
	}

	lines := []string{
		"Analyze the following email:",
		"",
		"Subject: " + mail.Subject,
		"From: " + mail.From,
		"To: " + mail.To,
		"Date: " + mail.Date,
		"Snippet: " + mail.Snippet,
		"Body:",
		body,
	}
	return strings.Join(lines, "\n")
}
