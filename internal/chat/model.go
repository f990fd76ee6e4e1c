package chat

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	DefaultHistoryWindow   = 10
	DefaultConversationCap = 20
)

type Message struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"max=8000"`
}

type Conversation struct {
	MenuID    int64     `json:"menu_id"`
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Request struct {
	Messages  []Message `json:"messages" binding:"required,min=1,dive"`
	Lang      string    `json:"lang" binding:"max=16"`
	SessionID string    `json:"session_id" binding:"max=128"`
}

// Tail returns the last n messages.
func Tail(msgs []Message, n int) []Message {
	if n <= 0 || len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

// Transcript is the stored history after a turn: the client's messages
// plus the answer, capped oldest-first.
func Transcript(msgs []Message, answer string, limit int) []Message {
	out := make([]Message, 0, len(msgs)+1)
	out = append(out, msgs...)
	out = append(out, Message{Role: RoleAssistant, Content: answer})

	tail := Tail(out, limit)
	return append([]Message(nil), tail...)
}
