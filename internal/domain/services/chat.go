package services

import (
	"context"

	"aichat/internal/domain/models"
)

// ChatService orchestrates ownership checks, pagination, message-history
// assembly and completion provider invocation.
type ChatService interface {
	ListChats(ctx context.Context, userID string, page, limit int) (*ChatPage, error)
	CreateChat(ctx context.Context, req *CreateChatRequest) (*models.Chat, error)
	GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error)
	AddMessage(ctx context.Context, chatID, userID, content string) (*models.Chat, error)
	UpdateChat(ctx context.Context, chatID, userID string, req *UpdateChatRequest) (*models.Chat, error)
	DeleteChat(ctx context.Context, chatID, userID string) error
}

// ChatPage is one page of a user's chat listing.
type ChatPage struct {
	Chats []models.ChatSummary `json:"chats"`
	Page  int                  `json:"page"`
	Pages int                  `json:"pages"`
	Total int                  `json:"total"`
}

// CreateChatRequest creates a chat for a user. Empty Title and Instruction
// receive server-side defaults.
type CreateChatRequest struct {
	UserID      string `json:"-"`
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
}

// OptionalInstruction tracks tri-state PATCH semantics for the instruction
// field. This is transport-agnostic (no JSON tags) - the handler maps from
// httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear to empty string)
//   - Present=true, Value=&"": field is explicitly empty
//   - Present=true, Value=&"text": field has value
type OptionalInstruction struct {
	Present bool
	Value   *string
}

// UpdateChatRequest updates a chat's title and/or instruction. Title applies
// only when non-empty; Instruction applies whenever present, including when
// explicitly set to the empty string.
type UpdateChatRequest struct {
	Title       string
	Instruction OptionalInstruction
}
