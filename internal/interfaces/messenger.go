package interfaces

import "context"

// Messenger delivers a report to the chat channel. Implementations handle
// message-length limits; callers never split text themselves.
type Messenger interface {
	Send(ctx context.Context, text string) error
}
