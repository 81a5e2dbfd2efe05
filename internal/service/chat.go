package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"aichat/internal/completion"
	"aichat/internal/domain"
	"aichat/internal/domain/models"
	"aichat/internal/domain/repositories"
	"aichat/internal/domain/services"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// chatService implements the ChatService interface
type chatService struct {
	chatRepo          repositories.ChatRepository
	provider          completion.Provider
	txManager         repositories.TransactionManager
	completionTimeout time.Duration
	logger            *slog.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	chatRepo repositories.ChatRepository,
	provider completion.Provider,
	txManager repositories.TransactionManager,
	completionTimeout time.Duration,
	logger *slog.Logger,
) services.ChatService {
	return &chatService{
		chatRepo:          chatRepo,
		provider:          provider,
		txManager:         txManager,
		completionTimeout: completionTimeout,
		logger:            logger,
	}
}

// ListChats returns one page of the user's chats, most recently updated
// first, with total and page counts.
func (s *chatService) ListChats(ctx context.Context, userID string, page, limit int) (*services.ChatPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	offset := (page - 1) * limit
	chats, total, err := s.chatRepo.ListChats(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	return &services.ChatPage{
		Chats: chats,
		Page:  page,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
		Total: total,
	}, nil
}

// CreateChat creates a chat for the caller, applying server-side defaults.
func (s *chatService) CreateChat(ctx context.Context, req *services.CreateChatRequest) (*models.Chat, error) {
	title := req.Title
	if title == "" {
		title = models.DefaultChatTitle
	}

	chat := &models.Chat{
		UserID:      req.UserID,
		Title:       title,
		Instruction: req.Instruction,
		Messages:    []models.Message{},
	}

	if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
		return nil, err
	}

	s.logger.Info("chat created",
		"id", chat.ID,
		"title", chat.Title,
		"user_id", req.UserID,
	)

	return chat, nil
}

// GetChat retrieves a chat with all its messages after an ownership check.
func (s *chatService) GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	return s.loadOwnedChat(ctx, chatID, userID)
}

// AddMessage invokes the completion provider with the chat's history and
// appends the user message and the assistant reply, in that order. Nothing is
// persisted if the provider fails.
func (s *chatService) AddMessage(ctx context.Context, chatID, userID, content string) (*models.Chat, error) {
	if err := validation.Validate(content, validation.Required); err != nil {
		return nil, fmt.Errorf("%w: content: %v", domain.ErrValidation, err)
	}

	chat, err := s.loadOwnedChat(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.completionTimeout)
	defer cancel()

	reply, err := s.provider.Generate(genCtx, chat.Messages, content, chat.Instruction)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	appended := []models.Message{
		{Role: models.RoleUser, Content: content, CreatedAt: now},
		{Role: models.RoleAssistant, Content: reply, CreatedAt: now},
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.chatRepo.AppendMessages(txCtx, chat.ID, appended)
	})
	if err != nil {
		return nil, err
	}

	chat.Messages = append(chat.Messages, appended...)
	chat.UpdatedAt = now

	s.logger.Info("message added",
		"chat_id", chat.ID,
		"user_id", userID,
		"messages", len(chat.Messages),
	)

	return chat, nil
}

// UpdateChat applies the update semantics the API promises: a non-empty title
// replaces the title, and the instruction is replaced whenever the field was
// present in the payload, including an explicit empty string.
func (s *chatService) UpdateChat(ctx context.Context, chatID, userID string, req *services.UpdateChatRequest) (*models.Chat, error) {
	chat, err := s.loadOwnedChat(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		chat.Title = req.Title
	}
	if req.Instruction.Present {
		if req.Instruction.Value == nil {
			chat.Instruction = ""
		} else {
			chat.Instruction = *req.Instruction.Value
		}
	}
	chat.UpdatedAt = time.Now()

	if err := s.chatRepo.UpdateChat(ctx, chat); err != nil {
		return nil, err
	}

	s.logger.Info("chat updated",
		"id", chat.ID,
		"title", chat.Title,
		"user_id", userID,
	)

	return chat, nil
}

// DeleteChat removes the chat and all embedded messages after an ownership
// check.
func (s *chatService) DeleteChat(ctx context.Context, chatID, userID string) error {
	chat, err := s.loadOwnedChat(ctx, chatID, userID)
	if err != nil {
		return err
	}

	if err := s.chatRepo.DeleteChat(ctx, chat.ID); err != nil {
		return err
	}

	s.logger.Info("chat deleted",
		"id", chat.ID,
		"user_id", userID,
	)

	return nil
}

// loadOwnedChat is the single authorization step shared by every chat
// operation: a malformed or unknown id is NotFound, a chat owned by someone
// else is Forbidden.
func (s *chatService) loadOwnedChat(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	if _, err := uuid.Parse(chatID); err != nil {
		return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}

	chat, err := s.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if chat.UserID != userID {
		return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrForbidden)
	}

	return chat, nil
}
