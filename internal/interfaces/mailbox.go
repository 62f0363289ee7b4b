package interfaces

import (
	"context"

	"mail-signal-bot/internal/types"
)

// Mailbox is the mail collaborator surface: list candidates, fetch full
// bodies, flip the read flag. Implementations own auth and token refresh.
type Mailbox interface {
	// ListCandidates returns candidate messages matching query, newest first.
	ListCandidates(ctx context.Context, query string, max int64) ([]types.MailRef, error)
	// FetchMail retrieves and normalizes one full message.
	FetchMail(ctx context.Context, id string) (types.NormalizedMail, error)
	// MarkRead removes the unread flag from a message.
	MarkRead(ctx context.Context, id string) error
}
