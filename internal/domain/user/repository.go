package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// Create returns ErrUserEmailExists when the email is taken.
	Create(ctx context.Context, newUser User) (User, error)
}
