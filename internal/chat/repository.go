package chat

import "context"

// Repository stores one conversation per (menu, session).
type Repository interface {
	// Get returns an empty slice when nothing is stored.
	Get(ctx context.Context, menuID int64, sessionID string) ([]Message, error)

	// Save replaces the stored messages. Last write wins.
	Save(ctx context.Context, menuID int64, sessionID string, msgs []Message) error

	Delete(ctx context.Context, menuID int64, sessionID string) error
}
