package models

import "time"

// Message roles. Roles are fixed at creation; messages are append-only.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// DefaultChatTitle is applied when a chat is created without a title.
const DefaultChatTitle = "New chat"

// Chat is a conversation owned by exactly one user. Instruction is a
// system-level prompt prefix applied to every completion request.
type Chat struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Instruction string    `json:"instruction" db:"instruction"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Message is one turn in a chat, ordered by insertion within its parent.
type Message struct {
	Role      string    `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"timestamp" db:"created_at"`
}

// ChatSummary is the listing projection of a chat.
type ChatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}
