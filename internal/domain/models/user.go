package models

import "time"

// User is the persisted account record. PasswordHash is never serialized;
// handlers return RedactedUser views instead.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// RedactedUser is the client-facing projection of a User.
type RedactedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Redacted returns the client-facing view of the user.
func (u *User) Redacted() RedactedUser {
	return RedactedUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
