package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/arjunmehta/mockview/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateUser inserts a new user and returns the new user's id.
func (r *Repository) CreateUser(ctx context.Context, u *model.User) (string, error) {
	id := uuid.New().String()
	const q = `
INSERT INTO users (user_id, email, name, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
`
	_, err := r.db.Exec(ctx, q, id, u.Email, u.Name, u.PasswordHash, u.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("email already exists: %w", err)
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

const userColumns = `user_id, email, name, password_hash, role, theme, language, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.UserID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Theme, &u.Language, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetUserByEmail returns a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.db.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return model.User{}, fmt.Errorf("scan user by email: %w", err)
	}
	return u, nil
}

// GetUserByID returns a user by id.
func (r *Repository) GetUserByID(ctx context.Context, id string) (model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return model.User{}, fmt.Errorf("scan user by id: %w", err)
	}
	return u, nil
}

// UpdateUserPassword replaces a user's password hash.
func (r *Repository) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = now() WHERE user_id = $1`
	tag, err := r.db.Exec(ctx, q, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserPreferences stores the theme and language selections on the user
// row. Nil fields are left unchanged.
func (r *Repository) UpdateUserPreferences(ctx context.Context, userID string, theme, language *string) error {
	const q = `
UPDATE users
SET theme = COALESCE($2, theme), language = COALESCE($3, language), updated_at = now()
WHERE user_id = $1
`
	tag, err := r.db.Exec(ctx, q, userID, theme, language)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
