package services

import (
	"context"

	"aichat/internal/domain/models"
)

// ProfileService orchestrates user profile reads, updates and password changes.
type ProfileService interface {
	// GetProfile returns the user without the password field.
	GetProfile(ctx context.Context, userID string) (*models.User, error)

	// UpdateProfile applies only fields that are supplied and non-empty and
	// returns the redacted view.
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.RedactedUser, error)

	// ChangePassword verifies the current password against the stored hash and
	// persists a new hash for the new password.
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// UpdateProfileRequest carries optional profile fields. Empty values are
// treated as "no change".
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
