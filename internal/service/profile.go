package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/crypto/bcrypt"

	"aichat/internal/domain"
	"aichat/internal/domain/models"
	"aichat/internal/domain/repositories"
	"aichat/internal/domain/services"
)

// passwordCost is the bcrypt work factor for new password hashes.
const passwordCost = 10

// minPasswordLength applies to new passwords only; existing hashes are
// verified as-is.
const minPasswordLength = 6

// profileService implements the ProfileService interface
type profileService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo repositories.UserRepository, logger *slog.Logger) services.ProfileService {
	return &profileService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns the user record; the password hash is never serialized.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetUser(ctx, userID)
}

// UpdateProfile applies only fields that were supplied and non-empty.
func (s *profileService) UpdateProfile(ctx context.Context, userID string, req *services.UpdateProfileRequest) (*models.RedactedUser, error) {
	if err := s.validateUpdateProfileRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated",
		"user_id", user.ID,
		"username", user.Username,
	)

	redacted := user.Redacted()
	return &redacted, nil
}

// ChangePassword verifies the current password before rehashing the new one.
// The length requirement on the new password is checked first so a short
// password never reaches the hash comparison.
func (s *profileService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	err := validation.Validate(newPassword,
		validation.Required,
		validation.Length(minPasswordLength, 0),
	)
	if err != nil {
		return fmt.Errorf("%w: newPassword: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	// bcrypt's comparison is constant-time against the stored salted hash.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("invalid current password: %w", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), passwordCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password changed", "user_id", user.ID)

	return nil
}

func (s *profileService) validateUpdateProfileRequest(req *services.UpdateProfileRequest) error {
	return validation.Errors{
		"email": validation.Validate(req.Email, validation.When(req.Email != "", is.Email)),
	}.Filter()
}
