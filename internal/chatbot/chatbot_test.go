package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"mail-signal-bot/internal/types"
)

type fakeModel struct {
	response string
	err      error
	system   string
	prompt   string
}

func (f *fakeModel) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	return f.response, f.err
}

func (f *fakeModel) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	f.system = system
	f.prompt = prompt
	return f.response, f.err
}

func latestMail() *types.NormalizedMail {
	return &types.NormalizedMail{
		ID:        "msg-1",
		Subject:   "Daily signals",
		From:      "signals@example.com",
		Date:      "Wed, 15 Nov 2023 09:30:00 +0000",
		PlainText: "BTCUSDT LONG, entry 95000",
	}
}

func TestAnswerGroundsOnLatestMail(t *testing.T) {
	model := &fakeModel{response: "The entry for BTCUSDT is 95000."}
	a := New(model, 5)

	reply, err := a.Answer(context.Background(), "what is the BTC entry?", latestMail())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "The entry for BTCUSDT is 95000.") {
		t.Errorf("Expected the model answer in the reply, got %q", reply)
	}
	if !strings.Contains(model.system, "BTCUSDT LONG, entry 95000") {
		t.Error("Expected the email body in the system prompt")
	}
	if !strings.Contains(model.system, "entryScore") {
		t.Error("Expected the scoring rubric in the system prompt")
	}
	if !strings.Contains(reply, "Wed, 15 Nov 2023") {
		t.Errorf("Expected the email date in the reply footer, got %q", reply)
	}
}

func TestAnswerNoMailYet(t *testing.T) {
	model := &fakeModel{response: "No email has been processed yet."}
	a := New(model, 5)

	if _, err := a.Answer(context.Background(), "any signals?", nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(model.system, "no email data") {
		t.Error("Expected the system prompt to state that no email is available")
	}
}

func TestAnswerDeclinesOnEmptyResponse(t *testing.T) {
	model := &fakeModel{response: "   "}
	a := New(model, 5)

	reply, err := a.Answer(context.Background(), "what is the meaning of life?", latestMail())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, declineMessage) {
		t.Errorf("Expected the fixed decline message, got %q", reply)
	}
}

func TestAnswerErrorLeavesHistoryUntouched(t *testing.T) {
	model := &fakeModel{err: errors.New("model unavailable")}
	a := New(model, 5)

	if _, err := a.Answer(context.Background(), "q", latestMail()); err == nil {
		t.Fatal("Expected the model error to propagate")
	}
	if len(a.History()) != 0 {
		t.Errorf("Expected empty history after a failure, got %d entries", len(a.History()))
	}
}

func TestHistoryBounded(t *testing.T) {
	model := &fakeModel{response: "ok"}
	a := New(model, 3)

	for i := 0; i < 5; i++ {
		if _, err := a.Answer(context.Background(), fmt.Sprintf("q%d", i), latestMail()); err != nil {
			t.Fatal(err)
		}
	}

	hist := a.History()
	if len(hist) != 3 {
		t.Fatalf("Expected history capped at 3, got %d", len(hist))
	}
	// Most recent first; the oldest two were evicted.
	if hist[0].Question != "q4" || hist[2].Question != "q2" {
		t.Errorf("Unexpected history order: %+v", hist)
	}
}

func TestHistoryAppearsInPrompt(t *testing.T) {
	model := &fakeModel{response: "ok"}
	a := New(model, 5)

	if _, err := a.Answer(context.Background(), "first question", latestMail()); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Answer(context.Background(), "second question", latestMail()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(model.prompt, "first question") {
		t.Error("Expected the previous exchange in the prompt")
	}
	if !strings.Contains(model.prompt, "Question: second question") {
		t.Error("Expected the current question in the prompt")
	}
}
