package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrEmailTaken   = errors.New("user already exists")
	ErrInvalidLogin = errors.New("invalid email or password")

	// ErrIdentityConflict means the external identity's email already belongs to another account.
	ErrIdentityConflict = errors.New("email is registered to another account")
)

// Repo defines persistence operations for users. Emails are stored lower-cased and are unique.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
