package chat

import "context"

// Repo defines persistence operations for chat messages.
type Repo interface {
	Append(ctx context.Context, msg Message) error
	// ListByUser returns up to limit messages, oldest first. A limit of 0
	// returns the full transcript.
	ListByUser(ctx context.Context, userID string, limit int) ([]Message, error)
	ClearByUser(ctx context.Context, userID string) error
}
