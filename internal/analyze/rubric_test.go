package analyze

import (
	"testing"

	"mail-signal-bot/internal/types"
)

func TestScoreSignalFullMarks(t *testing.T) {
	text := "BTCUSDT - Edge Score = 7, RR = 1.3/2.5/4.0, Down-trend strong, ADX > 25, Fear-Greed = 11"

	if got := ScoreSignal(text, types.DirectionShort); got != 100 {
		t.Errorf("Expected 100 for the maximal scenario, got %d", got)
	}
}

func TestScoreSignalStayOutCeiling(t *testing.T) {
	// Strong components, but STAY_OUT must never look attractive.
	text := "BTCUSDT - Edge Score = 7, RR = 4.0, Down-trend strong, ADX > 25"

	if got := ScoreSignal(text, types.DirectionStayOut); got > 20 {
		t.Errorf("Expected STAY_OUT score capped at 20, got %d", got)
	}
}

func TestScoreSignalSidewaysNoLevels(t *testing.T) {
	// No R:R, sideways context: 5 + 10 + 10 + 15.
	text := "ETHUSDT setup forming, Sideways market, wait for confirmation"

	if got := ScoreSignal(text, types.DirectionLong); got != 40 {
		t.Errorf("Expected 40, got %d", got)
	}
}

func TestScoreSignalLowConfidence(t *testing.T) {
	// Plain trend, confidence below 0.5: 5 + 20 + 10 + 10.
	text := "DYMUSDT Up-trend forming, confidence 0.3"

	if got := ScoreSignal(text, types.DirectionLong); got != 45 {
		t.Errorf("Expected 45, got %d", got)
	}
}

func TestScoreSignalChaosZerosDecision(t *testing.T) {
	withChaos := ScoreSignal("BTCUSDT Up-trend, classification chaos", types.DirectionLong)
	without := ScoreSignal("BTCUSDT Up-trend", types.DirectionLong)

	if without-withChaos != 15 {
		t.Errorf("Expected chaos to zero the 15-point decision component, got %d vs %d", withChaos, without)
	}
}

func TestScoreSignalNeutralGetsNoDecisionPoints(t *testing.T) {
	long := ScoreSignal("BTCUSDT Up-trend", types.DirectionLong)
	neutral := ScoreSignal("BTCUSDT Up-trend", types.DirectionNeutral)

	if long-neutral != 15 {
		t.Errorf("Expected NEUTRAL to lose only the decision component, got %d vs %d", neutral, long)
	}
}

func TestRiskRewardBands(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"RR = 1.3/2.5/4.0", 35}, // best of the ladder
		{"RR: 2.1", 30},
		{"R:R 1.7", 25},
		{"RR = 1.0", 15},
		{"RR = 0.8", 5},
		{"no levels given", 5},
	}
	for _, tc := range cases {
		if got := rrPoints(tc.text); got != tc.want {
			t.Errorf("rrPoints(%q): expected %d, got %d", tc.text, tc.want, got)
		}
	}
}

func TestEdgeScoreBands(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"Edge Score = 7", 30},
		{"Edge = 6", 25},
		{"Edge Score* = 5", 20},
		{"Edge Score = 3", 15},
		{"Edge Score = 2", 10},
	}
	for _, tc := range cases {
		if got := edgePoints(tc.text); got != tc.want {
			t.Errorf("edgePoints(%q): expected %d, got %d", tc.text, tc.want, got)
		}
	}
}

func TestEdgeTrendFallback(t *testing.T) {
	if got := edgePoints("Up-trend strong, ADX = 52"); got != 30 {
		t.Errorf("Expected 30 for strong trend with high ADX, got %d", got)
	}
	// "ADX > 25" asserts the threshold even though the number equals it.
	if got := edgePoints("Down-trend strong, ADX > 25"); got != 30 {
		t.Errorf("Expected 30 for asserted ADX threshold, got %d", got)
	}
	if got := edgePoints("Up-trend, ADX = 18"); got != 20 {
		t.Errorf("Expected 20 for plain trend, got %d", got)
	}
	if got := edgePoints("choppy price action"); got != 10 {
		t.Errorf("Expected 10 without trend info, got %d", got)
	}
}

func TestContextFearGreedAlignment(t *testing.T) {
	if got := contextPoints("Fear-Greed index = 11", types.DirectionShort); got != 20 {
		t.Errorf("Expected extreme fear to favor SHORT, got %d", got)
	}
	if got := contextPoints("Fear-Greed = 85", types.DirectionLong); got != 20 {
		t.Errorf("Expected extreme greed to favor LONG, got %d", got)
	}
	// Misaligned: extreme fear does nothing for a LONG.
	if got := contextPoints("Fear-Greed = 11", types.DirectionLong); got != 10 {
		t.Errorf("Expected 10 for misaligned fear/greed, got %d", got)
	}
	if got := contextPoints("volatility very_high, regime volatile", types.DirectionLong); got != 5 {
		t.Errorf("Expected 5 for very high volatility, got %d", got)
	}
	if got := contextPoints("volatility high, regime trending", types.DirectionLong); got != 15 {
		t.Errorf("Expected 15 for high volatility in a trending regime, got %d", got)
	}
}
