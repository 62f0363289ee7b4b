package interfaces

import "context"

// Model is a single request/response LLM call. The extraction path wants a
// bare JSON object back; the chatbot wants free text.
type Model interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}
