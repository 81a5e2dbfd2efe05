package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"aichat/internal/domain"
	"aichat/internal/domain/models"
	"aichat/internal/domain/repositories"
	"aichat/internal/domain/services"
)

// fakeChatRepo is an in-memory ChatRepository.
type fakeChatRepo struct {
	chats map[string]*models.Chat
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]*models.Chat)}
}

func (f *fakeChatRepo) CreateChat(_ context.Context, chat *models.Chat) error {
	chat.ID = uuid.NewString()
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}
	stored := *chat
	stored.Messages = append([]models.Message{}, chat.Messages...)
	f.chats[chat.ID] = &stored
	return nil
}

func (f *fakeChatRepo) GetChat(_ context.Context, chatID string) (*models.Chat, error) {
	stored, ok := f.chats[chatID]
	if !ok {
		return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	chat := *stored
	chat.Messages = append([]models.Message{}, stored.Messages...)
	return &chat, nil
}

func (f *fakeChatRepo) ListChats(_ context.Context, userID string, offset, limit int) ([]models.ChatSummary, int, error) {
	var owned []*models.Chat
	for _, chat := range f.chats {
		if chat.UserID == userID {
			owned = append(owned, chat)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
	})

	total := len(owned)
	summaries := []models.ChatSummary{}
	for i := offset; i < total && i < offset+limit; i++ {
		summaries = append(summaries, models.ChatSummary{
			ID:        owned[i].ID,
			Title:     owned[i].Title,
			UpdatedAt: owned[i].UpdatedAt,
		})
	}
	return summaries, total, nil
}

func (f *fakeChatRepo) UpdateChat(_ context.Context, chat *models.Chat) error {
	stored, ok := f.chats[chat.ID]
	if !ok {
		return fmt.Errorf("chat %s: %w", chat.ID, domain.ErrNotFound)
	}
	stored.Title = chat.Title
	stored.Instruction = chat.Instruction
	stored.UpdatedAt = chat.UpdatedAt
	return nil
}

func (f *fakeChatRepo) AppendMessages(_ context.Context, chatID string, messages []models.Message) error {
	stored, ok := f.chats[chatID]
	if !ok {
		return fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	stored.Messages = append(stored.Messages, messages...)
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeChatRepo) DeleteChat(_ context.Context, chatID string) error {
	if _, ok := f.chats[chatID]; !ok {
		return fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	delete(f.chats, chatID)
	return nil
}

// fakeTxManager runs the function directly; the fake repo has no real
// transactions.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeProvider counts calls and returns a fixed reply or error.
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, _ []models.Message, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestChatService(repo *fakeChatRepo, provider *fakeProvider) services.ChatService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewChatService(repo, provider, fakeTxManager{}, time.Minute, logger)
}

func mustCreateChat(t *testing.T, svc services.ChatService, userID, title, instruction string) *models.Chat {
	t.Helper()
	chat, err := svc.CreateChat(context.Background(), &services.CreateChatRequest{
		UserID:      userID,
		Title:       title,
		Instruction: instruction,
	})
	if err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}
	return chat
}

func TestCreateChat_Defaults(t *testing.T) {
	svc := newTestChatService(newFakeChatRepo(), &fakeProvider{})

	chat := mustCreateChat(t, svc, "user-a", "", "")

	if chat.Title != "New chat" {
		t.Errorf("expected default title %q, got %q", "New chat", chat.Title)
	}
	if chat.Instruction != "" {
		t.Errorf("expected empty instruction, got %q", chat.Instruction)
	}
	if len(chat.Messages) != 0 {
		t.Errorf("expected empty message list, got %d messages", len(chat.Messages))
	}
	if chat.ID == "" {
		t.Error("expected generated chat id")
	}
}

func TestGetChat_Forbidden(t *testing.T) {
	svc := newTestChatService(newFakeChatRepo(), &fakeProvider{})
	chat := mustCreateChat(t, svc, "user-a", "mine", "")

	_, err := svc.GetChat(context.Background(), chat.ID, "user-b")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestGetChat_NotFound(t *testing.T) {
	svc := newTestChatService(newFakeChatRepo(), &fakeProvider{})

	_, err := svc.GetChat(context.Background(), uuid.NewString(), "user-a")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestGetChat_MalformedID(t *testing.T) {
	svc := newTestChatService(newFakeChatRepo(), &fakeProvider{})

	_, err := svc.GetChat(context.Background(), "not-a-uuid", "user-a")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for malformed id, got %v", err)
	}
}

func TestListChats_Pagination(t *testing.T) {
	repo := newFakeChatRepo()
	svc := newTestChatService(repo, &fakeProvider{})

	for i := 0; i < 25; i++ {
		mustCreateChat(t, svc, "user-a", fmt.Sprintf("chat %d", i), "")
	}
	// Another user's chats must not leak into the listing.
	mustCreateChat(t, svc, "user-b", "not yours", "")

	page, err := svc.ListChats(context.Background(), "user-a", 2, 20)
	if err != nil {
		t.Fatalf("ListChats failed: %v", err)
	}

	if len(page.Chats) != 5 {
		t.Errorf("expected 5 chats on page 2, got %d", len(page.Chats))
	}
	if page.Pages != 2 {
		t.Errorf("expected 2 pages, got %d", page.Pages)
	}
	if page.Total != 25 {
		t.Errorf("expected total 25, got %d", page.Total)
	}
	if page.Page != 2 {
		t.Errorf("expected page 2, got %d", page.Page)
	}
}

func TestListChats_DefaultsApplied(t *testing.T) {
	svc := newTestChatService(newFakeChatRepo(), &fakeProvider{})
	mustCreateChat(t, svc, "user-a", "only", "")

	page, err := svc.ListChats(context.Background(), "user-a", 0, 0)
	if err != nil {
		t.Fatalf("ListChats failed: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("expected default page 1, got %d", page.Page)
	}
	if page.Pages != 1 {
		t.Errorf("expected 1 page with default limit, got %d", page.Pages)
	}
}

func TestAddMessage_EmptyContentRejectedBeforeProviderCall(t *testing.T) {
	provider := &fakeProvider{reply: "hello"}
	svc := newTestChatService(newFakeChatRepo(), provider)
	chat := mustCreateChat(t, svc, "user-a", "", "")

	_, err := svc.AddMessage(context.Background(), chat.ID, "user-a", "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("expected 0 provider calls, got %d", provider.calls)
	}
}

func TestAddMessage_ProviderFailureCommitsNothing(t *testing.T) {
	provider := &fakeProvider{err: &domain.CompletionError{Status: 503, Message: "overloaded"}}
	repo := newFakeChatRepo()
	svc := newTestChatService(repo, provider)
	chat := mustCreateChat(t, svc, "user-a", "", "")

	_, err := svc.AddMessage(context.Background(), chat.ID, "user-a", "hello?")
	var completionErr *domain.CompletionError
	if !errors.As(err, &completionErr) {
		t.Fatalf("expected CompletionError, got %v", err)
	}

	stored, _ := repo.GetChat(context.Background(), chat.ID)
	if len(stored.Messages) != 0 {
		t.Errorf("expected message list unchanged on provider failure, got %d messages", len(stored.Messages))
	}
}

func TestAddMessage_AppendsUserThenAssistant(t *testing.T) {
	provider := &fakeProvider{reply: "hi, I am the assistant"}
	repo := newFakeChatRepo()
	svc := newTestChatService(repo, provider)
	chat := mustCreateChat(t, svc, "user-a", "", "")

	updated, err := svc.AddMessage(context.Background(), chat.ID, "user-a", "hello")
	if err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	if len(updated.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(updated.Messages))
	}
	if updated.Messages[0].Role != models.RoleUser || updated.Messages[0].Content != "hello" {
		t.Errorf("unexpected first message: %+v", updated.Messages[0])
	}
	if updated.Messages[1].Role != models.RoleAssistant || updated.Messages[1].Content != "hi, I am the assistant" {
		t.Errorf("unexpected second message: %+v", updated.Messages[1])
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.calls)
	}

	stored, _ := repo.GetChat(context.Background(), chat.ID)
	if len(stored.Messages) != 2 {
		t.Errorf("expected 2 persisted messages, got %d", len(stored.Messages))
	}
}

func TestAddMessage_Forbidden(t *testing.T) {
	provider := &fakeProvider{reply: "hi"}
	svc := newTestChatService(newFakeChatRepo(), provider)
	chat := mustCreateChat(t, svc, "user-a", "", "")

	_, err := svc.AddMessage(context.Background(), chat.ID, "user-b", "hello")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("expected 0 provider calls for foreign chat, got %d", provider.calls)
	}
}

func strptr(s string) *string { return &s }

func TestUpdateChat_EmptyTitleIsNoChange(t *testing.T) {
	svc := newTestChatService(newFakeChatRepo(), &fakeProvider{})
	chat := mustCreateChat(t, svc, "user-a", "keep me", "")

	updated, err := svc.UpdateChat(context.Background(), chat.ID, "user-a", &services.UpdateChatRequest{
		Title: "",
	})
	if err != nil {
		t.Fatalf("UpdateChat failed: %v", err)
	}
	if updated.Title != "keep me" {
		t.Errorf("expected title unchanged, got %q", updated.Title)
	}
}

func TestUpdateChat_InstructionExplicitEmpty(t *testing.T) {
	repo := newFakeChatRepo()
	svc := newTestChatService(repo, &fakeProvider{})
	chat := mustCreateChat(t, svc, "user-a", "", "be terse")

	updated, err := svc.UpdateChat(context.Background(), chat.ID, "user-a", &services.UpdateChatRequest{
		Instruction: services.OptionalInstruction{Present: true, Value: strptr("")},
	})
	if err != nil {
		t.Fatalf("UpdateChat failed: %v", err)
	}
	if updated.Instruction != "" {
		t.Errorf("expected instruction cleared, got %q", updated.Instruction)
	}

	stored, _ := repo.GetChat(context.Background(), chat.ID)
	if stored.Instruction != "" {
		t.Errorf("expected persisted instruction cleared, got %q", stored.Instruction)
	}
}

func TestUpdateChat_InstructionAbsentIsNoChange(t *testing.T) {
	svc := newTestChatService(newFakeChatRepo(), &fakeProvider{})
	chat := mustCreateChat(t, svc, "user-a", "new title", "be terse")

	updated, err := svc.UpdateChat(context.Background(), chat.ID, "user-a", &services.UpdateChatRequest{
		Title: "renamed",
	})
	if err != nil {
		t.Fatalf("UpdateChat failed: %v", err)
	}
	if updated.Instruction != "be terse" {
		t.Errorf("expected instruction untouched, got %q", updated.Instruction)
	}
	if updated.Title != "renamed" {
		t.Errorf("expected title replaced, got %q", updated.Title)
	}
}

func TestDeleteChat(t *testing.T) {
	repo := newFakeChatRepo()
	svc := newTestChatService(repo, &fakeProvider{})
	chat := mustCreateChat(t, svc, "user-a", "", "")

	if err := svc.DeleteChat(context.Background(), chat.ID, "user-b"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for foreign delete, got %v", err)
	}

	if err := svc.DeleteChat(context.Background(), chat.ID, "user-a"); err != nil {
		t.Fatalf("DeleteChat failed: %v", err)
	}

	if _, err := svc.GetChat(context.Background(), chat.ID, "user-a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
