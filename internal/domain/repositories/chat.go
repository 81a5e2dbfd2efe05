package repositories

import (
	"context"

	"aichat/internal/domain/models"
)

// ChatRepository persists chats and their embedded messages.
type ChatRepository interface {
	// CreateChat inserts a new chat and fills in generated id and timestamps.
	CreateChat(ctx context.Context, chat *models.Chat) error

	// GetChat retrieves a chat with all its messages, regardless of owner.
	// Ownership is checked by the service layer so a foreign chat can be
	// distinguished from a missing one.
	GetChat(ctx context.Context, chatID string) (*models.Chat, error)

	// ListChats returns a page of chat summaries for a user ordered by most
	// recently updated, plus the total number of chats the user owns.
	ListChats(ctx context.Context, userID string, offset, limit int) ([]models.ChatSummary, int, error)

	// UpdateChat persists title, instruction and updated_at.
	UpdateChat(ctx context.Context, chat *models.Chat) error

	// AppendMessages appends messages to a chat in order and bumps the chat's
	// updated_at. Either all messages are committed or none.
	AppendMessages(ctx context.Context, chatID string, messages []models.Message) error

	// DeleteChat removes the chat and all its messages.
	DeleteChat(ctx context.Context, chatID string) error
}
