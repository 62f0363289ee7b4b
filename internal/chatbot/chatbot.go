// Package chatbot answers free-form questions about the most recently
// processed email. It is strictly grounded: when the email does not contain
// the answer, the assistant declines instead of guessing.
package chatbot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mail-signal-bot/internal/analyze"
	"mail-signal-bot/internal/interfaces"
	"mail-signal-bot/internal/logger"
	"mail-signal-bot/internal/trace"
	"mail-signal-bot/internal/types"
)

// declineMessage is the fixed reply for questions the email cannot answer
// and for empty model responses.
const declineMessage = "I can only answer questions about the latest analyzed email, and it does not contain that information."

const defaultHistorySize = 5

// Exchange is one answered question, kept for conversational context.
type Exchange struct {
	Question string
	Answer   string
}

// Assistant holds the bounded question/answer history. Safe for concurrent
// use; the Telegram listener calls Answer from its own goroutine.
type Assistant struct {
	model interfaces.Model

	mu      sync.Mutex
	history []Exchange
	size    int
}

// New builds an assistant keeping at most historySize past exchanges.
func New(model interfaces.Model, historySize int) *Assistant {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Assistant{model: model, size: historySize}
}

// Answer responds to one question using latest as the only source of facts.
// A nil latest means no email has been processed yet; the assistant says so
// rather than inventing content. History is only updated on success.
func (a *Assistant) Answer(ctx context.Context, question string, latest *types.NormalizedMail) (string, error) {
	ctx, span := trace.StartSpan(ctx, "chatbot-answer")
	defer span.End()

	logger.Debug(ctx, "Answering chat question", "question_len", len(question))

	reply, err := a.model.GenerateText(ctx, a.systemPrompt(latest), a.userPrompt(question))
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = declineMessage
	}

	a.mu.Lock()
	a.history = append([]Exchange{{Question: question, Answer: reply}}, a.history...)
	if len(a.history) > a.size {
		a.history = a.history[:a.size]
	}
	a.mu.Unlock()

	return formatReply(reply, latest), nil
}

// History returns a copy of the retained exchanges, most recent first.
func (a *Assistant) History() []Exchange {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Exchange, len(a.history))
	copy(out, a.history)
	return out
}

func (a *Assistant) systemPrompt(latest *types.NormalizedMail) string {
	var b strings.Builder
	b.WriteString("You are a trading-signal assistant. You answer questions about exactly one email, provided below.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Answer ONLY from the email content. Never invent prices, levels, symbols or dates.\n")
	b.WriteString("- If the email does not contain the answer, reply exactly: " + declineMessage + "\n")
	b.WriteString("- Keep answers short and factual. Plain text, no markdown.\n")
	b.WriteString("\nWhen the question involves entry quality, apply this rubric:\n")
	b.WriteString(analyze.RubricPrompt)
	b.WriteString("\n\n")

	if latest == nil {
		b.WriteString("EMAIL: (no email data; no email has been processed yet)\n")
	} else {
		fmt.Fprintf(&b, "EMAIL:\nSubject: %s\nFrom: %s\nDate: %s\n\n%s\n",
			latest.Subject, latest.From, latest.Date,
			bodyOrSnippet(latest))
	}
	return b.String()
}

func (a *Assistant) userPrompt(question string) string {
	a.mu.Lock()
	history := a.history
	a.mu.Unlock()

	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Previous exchanges (most recent first):\n")
		for _, ex := range history {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", ex.Question, ex.Answer)
		}
		b.WriteString("\n")
	}
	b.WriteString("Question: " + question)
	return b.String()
}

func bodyOrSnippet(mail *types.NormalizedMail) string {
	if strings.TrimSpace(mail.PlainText) != "" {
		return mail.PlainText
	}
	if strings.TrimSpace(mail.Snippet) != "" {
		return mail.Snippet
	}
	return "(no body)"
}

// formatReply frames the model answer with the assistant header and a footer
// naming which email the answer is grounded on.
func formatReply(answer string, latest *types.NormalizedMail) string {
	mailDate := "none"
	if latest != nil && latest.Date != "" {
		mailDate = latest.Date
	}
	return fmt.Sprintf(
		"🤖 *Assistant*\n\n%s\n\n━━━━━━━━━━━━━━━━━━━━━━\n⏰ Answered: %s\n📧 Email: %s",
		answer,
		time.Now().Format("2006-01-02 15:04:05"),
		mailDate,
	)
}
