package analyze

import (
	"context"
	"testing"

	"mail-signal-bot/internal/errs"
	"mail-signal-bot/internal/types"
)

// fakeModel returns a fixed response and records the prompt it was given.
type fakeModel struct {
	response string
	err      error
	system   string
	prompt   string
}

func (f *fakeModel) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	f.system = system
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeModel) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	return f.response, f.err
}

func testMail() types.NormalizedMail {
	return types.NormalizedMail{
		ID:        "msg-1",
		ThreadID:  "thr-1",
		Subject:   "Daily crypto signals",
		From:      "signals@example.com",
		PlainText: "BTCUSDT LONG, RR = 2.5, Up-trend strong, ADX = 40",
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	model := &fakeModel{response: `{
		"subject": "Daily crypto signals",
		"sender": "signals@example.com",
		"summary": "One long setup.",
		"confidence": 0.9,
		"actionItems": [],
		"signals": [{"symbol": "BTCUSDT", "direction": "LONG", "entry": "95000",
			"stopLoss": "93000", "takeProfits": ["98000"], "entryScore": 80}]
	}`}

	res, err := New(model).Analyze(context.Background(), testMail())
	if err != nil {
		t.Fatal(err)
	}
	if res.MailID != "msg-1" {
		t.Errorf("Expected mail id msg-1, got %s", res.MailID)
	}
	if len(res.Signals) != 1 || *res.Signals[0].EntryScore != 80 {
		t.Errorf("Expected one signal scored 80, got %+v", res.Signals)
	}
	if model.system == "" || model.prompt == "" {
		t.Error("Expected the model to receive a system instruction and a prompt")
	}
}

func TestAnalyzeFencedResponse(t *testing.T) {
	model := &fakeModel{response: "```json\n{\"subject\":\"s\",\"confidence\":0.7,\"signals\":[]}\n```"}

	res, err := New(model).Analyze(context.Background(), testMail())
	if err != nil {
		t.Fatalf("Expected fenced response to be accepted, got %v", err)
	}
	if res.Confidence != 0.7 {
		t.Errorf("Expected confidence 0.7, got %v", res.Confidence)
	}
}

func TestAnalyzeInvalidJSON(t *testing.T) {
	model := &fakeModel{response: "I could not find any signals."}

	_, err := New(model).Analyze(context.Background(), testMail())
	if !errs.IsProcessing(err) {
		t.Fatalf("Expected ProcessingError for invalid JSON, got %v", err)
	}
}

func TestAnalyzeEmptyResponse(t *testing.T) {
	model := &fakeModel{response: "   \n"}

	_, err := New(model).Analyze(context.Background(), testMail())
	if !errs.IsProcessing(err) {
		t.Fatalf("Expected ProcessingError for empty response, got %v", err)
	}
}

func TestAnalyzeMissingSubject(t *testing.T) {
	model := &fakeModel{response: `{"subject": "", "summary": "something"}`}

	_, err := New(model).Analyze(context.Background(), testMail())
	if !errs.IsProcessing(err) {
		t.Fatalf("Expected ProcessingError for missing subject, got %v", err)
	}
}

func TestAnalyzeScoreFallback(t *testing.T) {
	// Model extracted a directional signal but omitted the score; the
	// deterministic rubric fills it from the mail body.
	model := &fakeModel{response: `{
		"subject": "s",
		"signals": [
			{"symbol": "BTCUSDT", "direction": "LONG"},
			{"symbol": "ETHUSDT", "direction": "NEUTRAL"}
		]
	}`}

	res, err := New(model).Analyze(context.Background(), testMail())
	if err != nil {
		t.Fatal(err)
	}
	long := res.Signals[0]
	if long.EntryScore == nil {
		t.Fatal("Expected a fallback score for the unscored LONG signal")
	}
	// Body: RR 2.5 (30) + strong trend with ADX 40 (30) + context (10) + decision (15).
	if *long.EntryScore != 85 {
		t.Errorf("Expected fallback score 85, got %d", *long.EntryScore)
	}
	if res.Signals[1].EntryScore != nil {
		t.Errorf("Expected NEUTRAL signal to stay unscored, got %d", *res.Signals[1].EntryScore)
	}
}
