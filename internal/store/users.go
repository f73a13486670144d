package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/daygrid/internal/model"
)

// CreateUser inserts a new account. The verified flag is fixed to
// true because email verification is not implemented.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	now := time.Now().UTC()
	u := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO users (username, email, password_hash, verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		username, email, passwordHash, true, now.Format(time.RFC3339), now.Format(time.RFC3339),
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// GetUser looks up an account by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByEmail looks up an account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.getUser(ctx, `WHERE email = ?`, email)
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (model.User, error) {
	var u model.User
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, username, email, password_hash, verified, created_at, updated_at
		FROM users `+where),
		arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Verified, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to fetch user: %w", err)
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return u, nil
}

// UserPatch holds the optional profile fields. Nil means keep the
// stored value.
type UserPatch struct {
	Username *string
	Email    *string
}

// UpdateUserProfile applies a partial profile update and returns the
// stored user. Email uniqueness is enforced only by the store-level
// constraint.
func (s *Store) UpdateUserProfile(ctx context.Context, id int64, patch UserPatch) (model.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	u.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, s.rebind(`
		UPDATE users SET username = ?, email = ?, updated_at = ? WHERE id = ?`),
		u.Username, u.Email, u.UpdatedAt.Format(time.RFC3339), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`),
		passwordHash, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes an account. Owned tasks and colors cascade.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
