package chat

import (
	"context"
	"sync"
)

type conversationKey struct {
	menuID    int64
	sessionID string
}

type InMemoryRepository struct {
	mu            sync.Mutex
	conversations map[conversationKey][]Message
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		conversations: make(map[conversationKey][]Message),
	}
}

func (r *InMemoryRepository) Get(_ context.Context, menuID int64, sessionID string) ([]Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := r.conversations[conversationKey{menuID, sessionID}]
	return append([]Message{}, msgs...), nil
}

func (r *InMemoryRepository) Save(_ context.Context, menuID int64, sessionID string, msgs []Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conversations[conversationKey{menuID, sessionID}] = append([]Message(nil), msgs...)
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, menuID int64, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.conversations, conversationKey{menuID, sessionID})
	return nil
}
