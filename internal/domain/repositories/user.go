package repositories

import (
	"context"

	"aichat/internal/domain/models"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// CreateUser inserts a new user and fills in generated id and timestamps.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by id.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// UpdateUser persists username, email, password hash and updated_at.
	UpdateUser(ctx context.Context, user *models.User) error
}
