package analyze

import (
	"regexp"
	"strconv"
	"strings"

	"mail-signal-bot/internal/types"
)

// RubricPrompt is the entry-score algorithm, spelled out step by step so the
// model applies the same banding every run instead of improvising. It is
// shared by the extraction prompt and the chatbot prompt.
const RubricPrompt = `IMPORTANT - HOW TO COMPUTE entryScore (0-100):
entryScore rates how GOOD a signal is, based strictly on the email data:

**STEP 1: RISK:REWARD (R:R) - 35 points**
   Formula: R:R = (Entry - TP) / (SL - Entry)
   - R:R >= 3.0 (e.g. "1.3/2.5/4.0", or "RR=4.0") -> 35 points
   - R:R 2.0-2.9 -> 30 points
   - R:R 1.5-1.9 -> 25 points
   - R:R 1.0-1.4 -> 15 points
   - R:R < 1.0 -> 5 points

**STEP 2: EDGE SCORE / TREND STRENGTH - 30 points**
   If the email carries an "Edge Score" (e.g. "Edge = 7", "Edge Score* = 7"):
   - Edge Score 7 -> 30 points
   - Edge Score 6 -> 25 points
   - Edge Score 5 -> 20 points
   - Edge Score 3-4 -> 15 points
   - Edge Score <= 2 -> 10 points

   Without an Edge Score, use the trend:
   - "Down-trend strong" / "Up-trend strong" plus "ADX > 25" -> 30 points
   - "Down-trend" / "Up-trend" (not strong) -> 20 points
   - "Sideways" -> 10 points

**STEP 3: MARKET CONTEXT - 20 points**
   From Fear-Greed index, volatility and the market overview:
   - Clear trend with favorable conditions (e.g. Fear=11 for SHORT, Greed>70 for LONG) -> 20 points
   - Volatility "high" with regime "trending" -> 15 points
   - Volatility "very_high" with regime "volatile" -> 5 points (high risk)
   - Sideways market -> 10 points

**STEP 4: CLASSIFICATION & DECISION - 15 points**
   - Classification "decrease" or "increase" (clear direction) with decision SHORT/LONG -> 15 points
   - Classification "decrease"/"increase" but confidence < 0.5 -> 10 points
   - Classification "chaos" or decision "STAY_OUT" -> 0 points

**FINAL BANDS:**
- 90-100: EXCELLENT signal (Highly Recommended)
- 75-89: GOOD signal (Recommended)
- 60-74: DECENT signal (Consider)
- 40-59: AVERAGE signal (Caution)
- 0-39: WEAK signal (Not Recommended)

**NOTES:**
- If the email says "STAY_OUT" -> entryScore = 0-20 (do not enter)
- If the email carries an "Edge Score" -> it takes priority for scoring
- RR usually sits in an "RR (TP-SL)" column (e.g. "1.3 / 2.5 / 4.0" -> take 4.0)
- Fear-Greed index < 20 -> favors SHORT, > 70 -> favors LONG

**WORKED EXAMPLES:**

Email says: "BTCUSDT - Edge Score = 7, RR = 1.3/2.5/4.0, Down-trend strong, ADX > 25, Fear-Greed = 11"
-> entryScore = 35 (RR 4.0) + 30 (Edge 7) + 20 (Fear=11 favors SHORT) + 15 (decrease) = 100

Email says: "ASTERUSDT - STAY OUT - Edge Score = 4, no strong 4h"
-> entryScore = 0 (STAY_OUT)

Email says: "DYMUSDT - LONG, Edge Score unclear, Up-trend strong, ADX=52, RR TP1~1.3"
-> entryScore = 15 (RR 1.3) + 30 (trend strong + ADX>25) + 15 (up-trend) + 15 (increase) = 75`

// stayOutCeiling caps the score of a STAY_OUT signal; the rubric never lets
// a do-not-enter call look attractive.
const stayOutCeiling = 20

var (
	edgeScoreRe  = regexp.MustCompile(`(?i)\bedge(?:\s*score)?\*?[^0-9]{0,8}([0-9])\b`)
	riskRewardRe = regexp.MustCompile(`(?i)\bR:?R\b[^0-9]{0,20}([0-9]+(?:\.[0-9]+)?(?:\s*/\s*[0-9]+(?:\.[0-9]+)?)*)`)
	adxRe        = regexp.MustCompile(`(?i)\bADX\b[^0-9]{0,6}([0-9]+(?:\.[0-9]+)?)`)
	fearGreedRe  = regexp.MustCompile(`(?i)fear[\s-]*greed(?:\s*index)?[^0-9]{0,10}([0-9]+)`)
	confidenceRe = regexp.MustCompile(`(?i)\bconfidence\b[^0-9]{0,10}([01]?\.[0-9]+|[01])`)
)

// ScoreSignal recomputes an entry score from the source text with the same
// banding the prompt rubric gives the model. It backs two things: the
// fallback when the model omits entryScore for a LONG/SHORT signal, and a
// deterministic oracle for the rubric's fixed scenarios.
func ScoreSignal(text, direction string) int {
	score := rrPoints(text) +
		edgePoints(text) +
		contextPoints(text, direction) +
		decisionPoints(text, direction)

	if direction == types.DirectionStayOut && score > stayOutCeiling {
		score = stayOutCeiling
	}
	if score > 100 {
		score = 100
	}
	return score
}

// rrPoints bands the best (largest) risk:reward value found in the text.
// Without one the signal is unverified and gets the floor band.
func rrPoints(text string) int {
	rr, ok := maxRiskReward(text)
	if !ok {
		return 5
	}
	switch {
	case rr >= 3.0:
		return 35
	case rr >= 2.0:
		return 30
	case rr >= 1.5:
		return 25
	case rr >= 1.0:
		return 15
	default:
		return 5
	}
}

func maxRiskReward(text string) (float64, bool) {
	m := riskRewardRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	best, found := 0.0, false
	for _, piece := range strings.Split(m[1], "/") {
		v, err := strconv.ParseFloat(strings.TrimSpace(piece), 64)
		if err != nil {
			continue
		}
		if !found || v > best {
			best, found = v, true
		}
	}
	return best, found
}

// edgePoints prefers an explicit Edge Score (0-7); otherwise it falls back
// to trend-strength classification.
func edgePoints(text string) int {
	if v, ok := edgeScore(text); ok {
		switch {
		case v >= 7:
			return 30
		case v == 6:
			return 25
		case v == 5:
			return 20
		case v >= 3:
			return 15
		default:
			return 10
		}
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "trend") {
		if strings.Contains(lower, "strong") && adxAbove(text, 25) {
			return 30
		}
		return 20
	}
	return 10
}

func edgeScore(text string) (int, bool) {
	m := edgeScoreRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v > 7 {
		return 0, false
	}
	return v, true
}

func adxAbove(text string, threshold float64) bool {
	m := adxRe.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return false
	}
	// "ADX > 25" asserts the threshold even though the captured value is 25.
	if v == threshold && strings.Contains(m[0], ">") {
		return true
	}
	return v > threshold
}

// contextPoints checks fear/greed alignment with the trade direction first,
// then volatility/regime, then sideways.
func contextPoints(text, direction string) int {
	if v, ok := fearGreed(text); ok {
		if v < 20 && direction == types.DirectionShort {
			return 20
		}
		if v > 70 && direction == types.DirectionLong {
			return 20
		}
	}

	lower := strings.ToLower(text)
	veryHigh := strings.Contains(lower, "very_high") || strings.Contains(lower, "very high")
	switch {
	case veryHigh && strings.Contains(lower, "volatile"):
		return 5
	case strings.Contains(lower, "high") && strings.Contains(lower, "trending"):
		return 15
	case strings.Contains(lower, "sideway"):
		return 10
	}
	return 10
}

func fearGreed(text string) (int, bool) {
	m := fearGreedRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// decisionPoints awards the classification component. Only a directional
// decision earns anything; chaos and STAY_OUT zero it out.
func decisionPoints(text, direction string) int {
	if direction != types.DirectionLong && direction != types.DirectionShort {
		return 0
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "chaos") {
		return 0
	}
	if m := confidenceRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v < 0.5 {
			return 10
		}
	}
	return 15
}
