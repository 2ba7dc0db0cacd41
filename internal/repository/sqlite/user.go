package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/user"
	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	u.ID = uuid.Must(uuid.NewV7()).String()
	ts := now()

	_, err := r.store.querier(ctx).ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Role, ts, ts,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return r.GetByID(ctx, u.ID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (user.User, error) {
	var (
		u                    user.User
		createdAt, updatedAt string
	)
	err := r.store.querier(ctx).QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, created_at, updated_at FROM users `+where, arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	if u.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return user.User{}, err
	}
	if u.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return user.User{}, err
	}
	return u, nil
}
