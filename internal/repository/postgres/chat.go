package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"aichat/internal/domain"
	"aichat/internal/domain/models"
	"aichat/internal/domain/repositories"
)

// PostgresChatRepository implements the ChatRepository interface using PostgreSQL
type PostgresChatRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewChatRepository creates a new PostgresChatRepository
func NewChatRepository(config *RepositoryConfig) repositories.ChatRepository {
	return &PostgresChatRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// CreateChat inserts a new chat and fills in generated id and timestamps.
func (r *PostgresChatRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	query := `
		INSERT INTO chats (user_id, title, instruction)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		chat.UserID,
		chat.Title,
		chat.Instruction,
	).Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create chat: %w", err)
	}

	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}

	return nil
}

// GetChat retrieves a chat with all its messages, regardless of owner.
func (r *PostgresChatRepository) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	query := `
		SELECT id, user_id, title, instruction, created_at, updated_at
		FROM chats
		WHERE id = $1
	`

	var chat models.Chat
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, chatID).Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.Instruction,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}

	messages, err := r.getMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	chat.Messages = messages

	return &chat, nil
}

func (r *PostgresChatRepository) getMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	query := `
		SELECT role, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY seq
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// ListChats returns a page of chat summaries ordered by most recently
// updated, plus the user's total chat count.
func (r *PostgresChatRepository) ListChats(ctx context.Context, userID string, offset, limit int) ([]models.ChatSummary, int, error) {
	query := `
		SELECT id, title, updated_at
		FROM chats
		WHERE user_id = $1
		ORDER BY updated_at DESC
		OFFSET $2
		LIMIT $3
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := []models.ChatSummary{}
	for rows.Next() {
		var chat models.ChatSummary
		if err := rows.Scan(&chat.ID, &chat.Title, &chat.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate chats: %w", err)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM chats WHERE user_id = $1`
	if err := executor.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count chats: %w", err)
	}

	return chats, total, nil
}

// UpdateChat persists title, instruction and updated_at.
func (r *PostgresChatRepository) UpdateChat(ctx context.Context, chat *models.Chat) error {
	query := `
		UPDATE chats
		SET title = $1, instruction = $2, updated_at = $3
		WHERE id = $4
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		chat.Title,
		chat.Instruction,
		chat.UpdatedAt,
		chat.ID,
	)
	if err != nil {
		return fmt.Errorf("update chat: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("chat %s: %w", chat.ID, domain.ErrNotFound)
	}

	return nil
}

// AppendMessages appends messages in order and bumps the chat's updated_at.
// Callers run this inside a transaction so the append is all-or-nothing.
func (r *PostgresChatRepository) AppendMessages(ctx context.Context, chatID string, messages []models.Message) error {
	executor := GetExecutor(ctx, r.pool)

	var nextSeq int
	seqQuery := `SELECT COALESCE(MAX(seq) + 1, 0) FROM messages WHERE chat_id = $1`
	if err := executor.QueryRow(ctx, seqQuery, chatID).Scan(&nextSeq); err != nil {
		return fmt.Errorf("next message seq: %w", err)
	}

	insert := `
		INSERT INTO messages (chat_id, seq, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, msg := range messages {
		if _, err := executor.Exec(ctx, insert, chatID, nextSeq+i, msg.Role, msg.Content, msg.CreatedAt); err != nil {
			// A concurrent append can claim the same seq between the MAX read
			// and this insert; the (chat_id, seq) key rejects the loser.
			if IsPgDuplicateError(err) {
				return fmt.Errorf("chat %s was modified concurrently: %w", chatID, domain.ErrConflict)
			}
			return fmt.Errorf("insert message: %w", err)
		}
	}

	touch := `UPDATE chats SET updated_at = now() WHERE id = $1`
	if _, err := executor.Exec(ctx, touch, chatID); err != nil {
		return fmt.Errorf("touch chat: %w", err)
	}

	return nil
}

// DeleteChat removes the chat; messages go with it via ON DELETE CASCADE.
func (r *PostgresChatRepository) DeleteChat(ctx context.Context, chatID string) error {
	query := `DELETE FROM chats WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, chatID)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}

	return nil
}
