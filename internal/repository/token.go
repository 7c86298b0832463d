package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arjunmehta/mockview/pkg/model"
	"github.com/jackc/pgx/v5"
)

// CreateUserSession stores a refresh-token session.
func (r *Repository) CreateUserSession(ctx context.Context, t *model.UserToken) (*model.UserToken, error) {
	const q = `
INSERT INTO user_tokens (user_token_id, user_id, refresh_token, is_revoked, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, now())
`
	_, err := r.db.Exec(ctx, q, t.UserTokenID, t.UserID, t.RefreshToken, t.IsRevoked, t.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("insert user session: %w", err)
	}
	return t, nil
}

// GetUserSession returns a refresh-token session by id.
func (r *Repository) GetUserSession(ctx context.Context, tokenID string) (model.UserToken, error) {
	const q = `
SELECT user_token_id, user_id, refresh_token, is_revoked, expires_at, created_at
FROM user_tokens
WHERE user_token_id = $1
`
	var t model.UserToken
	row := r.db.QueryRow(ctx, q, tokenID)
	if err := row.Scan(&t.UserTokenID, &t.UserID, &t.RefreshToken, &t.IsRevoked, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserToken{}, fmt.Errorf("session not found: %w", ErrNotFound)
		}
		return model.UserToken{}, fmt.Errorf("scan user session: %w", err)
	}
	return t, nil
}

// RevokeUserSession marks a refresh-token session as revoked.
func (r *Repository) RevokeUserSession(ctx context.Context, tokenID string) error {
	const q = `UPDATE user_tokens SET is_revoked = true WHERE user_token_id = $1`
	tag, err := r.db.Exec(ctx, q, tokenID)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUserSession removes a refresh-token session on logout.
func (r *Repository) DeleteUserSession(ctx context.Context, tokenID string) error {
	const q = `DELETE FROM user_tokens WHERE user_token_id = $1`
	_, err := r.db.Exec(ctx, q, tokenID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CreatePasswordReset stores the hash of a single-use reset token. Any older
// tokens for the user are discarded.
func (r *Repository) CreatePasswordReset(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return r.execTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear password resets: %w", err)
		}
		const q = `
INSERT INTO password_resets (token_hash, user_id, expires_at, created_at)
VALUES ($1, $2, $3, now())
`
		if _, err := tx.Exec(ctx, q, tokenHash, userID, expiresAt); err != nil {
			return fmt.Errorf("insert password reset: %w", err)
		}
		return nil
	})
}

// ConsumePasswordReset redeems a reset token hash, returning the owning user
// id. The token row is deleted whether or not it was still valid.
func (r *Repository) ConsumePasswordReset(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := r.execTx(ctx, func(tx pgx.Tx) error {
		const q = `
DELETE FROM password_resets
WHERE token_hash = $1 AND expires_at > now()
RETURNING user_id
`
		if err := tx.QueryRow(ctx, q, tokenHash).Scan(&userID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("reset token invalid or expired: %w", ErrNotFound)
			}
			return fmt.Errorf("consume password reset: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return userID, nil
}
