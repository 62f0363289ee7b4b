package report

import (
	"strings"
	"testing"
	"time"

	"mail-signal-bot/internal/types"
)

func TestBand(t *testing.T) {
	cases := []struct {
		score int
		label string
	}{
		{100, "Highly recommended"},
		{90, "Highly recommended"},
		{89, "Recommended"},
		{75, "Recommended"},
		{74, "Consider"},
		{60, "Consider"},
		{59, "Caution"},
		{40, "Caution"},
		{39, "Not recommended"},
		{0, "Not recommended"},
	}
	for _, tc := range cases {
		if _, label := Band(tc.score); label != tc.label {
			t.Errorf("Band(%d): expected %q, got %q", tc.score, tc.label, label)
		}
	}
}

func TestFormatWithSignals(t *testing.T) {
	res := types.AnalysisResult{
		MailID:     "msg-1",
		Subject:    "Daily signals",
		Sender:     "signals@example.com",
		Summary:    "One long setup on BTC.",
		Confidence: 0.9,
		Signals: []types.TradingSignal{{
			Symbol:      "BTCUSDT",
			Direction:   types.DirectionLong,
			Entry:       "95000",
			StopLoss:    "93000",
			TakeProfits: []string{"98000", "101000"},
			Reason:      "4h breakout",
			Timeframe:   "4h",
			EntryScore:  types.IntPtr(82),
		}},
	}

	out := Format(res)

	for _, want := range []string{
		"📬 *New Signal Report*",
		"signals@example.com",
		"*BTCUSDT* (4h)",
		"🟢 LONG",
		"📥 Entry: 95000",
		"🛑 SL: 93000",
		"🎯 TP: 98000 | 101000",
		"📊 Entry score: 82/100 ⭐⭐ _Recommended_",
		"📝 4h breakout",
		"🔖 ID: `msg-1`",
		"🤖 Confidence: 90%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q\n%s", want, out)
		}
	}
}

func TestFormatNoSignals(t *testing.T) {
	res := types.AnalysisResult{
		MailID:  "msg-2",
		Subject: "Market update",
		Summary: "Nothing actionable.",
	}

	out := Format(res)
	if !strings.Contains(out, "(no trading signal found in this email)") {
		t.Errorf("Expected the no-signal placeholder\n%s", out)
	}
}

func TestFormatNonDirectionalHidesLadder(t *testing.T) {
	res := types.AnalysisResult{
		MailID:  "msg-3",
		Subject: "s",
		Signals: []types.TradingSignal{{
			Symbol:    "ASTERUSDT",
			Direction: types.DirectionStayOut,
			Entry:     "0.03",
			StopLoss:  "0.02",
			Reason:    "no strong 4h setup",
		}},
	}

	out := Format(res)
	if !strings.Contains(out, "⚠️ STAY OUT") {
		t.Errorf("Expected STAY OUT marker\n%s", out)
	}
	if strings.Contains(out, "📥 Entry:") || strings.Contains(out, "🛑 SL:") {
		t.Errorf("Expected no entry ladder for a non-directional signal\n%s", out)
	}
	if !strings.Contains(out, "no strong 4h setup") {
		t.Errorf("Expected reason kept\n%s", out)
	}
}

func TestFormatCollapsesWhitespace(t *testing.T) {
	res := types.AnalysisResult{
		MailID:  "msg-4",
		Subject: "Multi\nline\tsubject",
		Summary: "spaced    out",
	}

	out := Format(res)
	if !strings.Contains(out, "📝 *Subject:* Multi line subject") {
		t.Errorf("Expected newlines collapsed in subject\n%s", out)
	}
	if !strings.Contains(out, "📌 *Summary:* spaced out") {
		t.Errorf("Expected runs of spaces collapsed\n%s", out)
	}
}

func TestSeparator(t *testing.T) {
	received := time.Date(2023, 11, 15, 9, 30, 0, 0, time.UTC)
	processed := time.Date(2023, 11, 15, 9, 35, 12, 0, time.UTC)

	out := Separator(received, processed)
	if !strings.Contains(out, "2023-11-15 09:30:00") {
		t.Errorf("Expected received timestamp\n%s", out)
	}
	if !strings.Contains(out, "2023-11-15 09:35:12") {
		t.Errorf("Expected processed timestamp\n%s", out)
	}
}
