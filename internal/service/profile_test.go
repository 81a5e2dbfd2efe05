package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"aichat/internal/domain"
	"aichat/internal/domain/models"
	"aichat/internal/domain/services"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, userID string) (*models.User, error) {
	stored, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	user := *stored
	return &user, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrNotFound)
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func newTestProfileService(repo *fakeUserRepo) services.ProfileService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewProfileService(repo, logger)
}

func seedUser(t *testing.T, repo *fakeUserRepo, id, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           id,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
	}
	repo.users[id] = user
	return user
}

func TestGetProfile_NotFound(t *testing.T) {
	svc := newTestProfileService(newFakeUserRepo())

	_, err := svc.GetProfile(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile_AppliesOnlySuppliedFields(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "secret-pw")
	svc := newTestProfileService(repo)

	updated, err := svc.UpdateProfile(context.Background(), "u1", &services.UpdateProfileRequest{
		Email: "new@example.com",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	if updated.Username != "alice" {
		t.Errorf("expected username unchanged, got %q", updated.Username)
	}
	if updated.Email != "new@example.com" {
		t.Errorf("expected email replaced, got %q", updated.Email)
	}
}

func TestUpdateProfile_InvalidEmail(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "secret-pw")
	svc := newTestProfileService(repo)

	_, err := svc.UpdateProfile(context.Background(), "u1", &services.UpdateProfileRequest{
		Email: "not-an-email",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	if repo.users["u1"].Email != "alice@example.com" {
		t.Errorf("expected stored email unchanged, got %q", repo.users["u1"].Email)
	}
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "u1", "secret-pw")
	originalHash := user.PasswordHash
	svc := newTestProfileService(repo)

	err := svc.ChangePassword(context.Background(), "u1", "wrong-pw", "brand-new-pw")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if repo.users["u1"].PasswordHash != originalHash {
		t.Error("expected stored hash unchanged after failed verification")
	}
}

func TestChangePassword_TooShortRejectedBeforeCompare(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "u1", "secret-pw")
	originalHash := user.PasswordHash
	svc := newTestProfileService(repo)

	err := svc.ChangePassword(context.Background(), "u1", "secret-pw", "short")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for 5-char password, got %v", err)
	}
	if repo.users["u1"].PasswordHash != originalHash {
		t.Error("expected stored hash unchanged")
	}
}

func TestChangePassword_Success(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "secret-pw")
	svc := newTestProfileService(repo)

	if err := svc.ChangePassword(context.Background(), "u1", "secret-pw", "brand-new-pw"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	newHash := []byte(repo.users["u1"].PasswordHash)
	if err := bcrypt.CompareHashAndPassword(newHash, []byte("brand-new-pw")); err != nil {
		t.Errorf("new password does not verify against stored hash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(newHash, []byte("secret-pw")); err == nil {
		t.Error("old password still verifies against stored hash")
	}
}
