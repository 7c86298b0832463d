package auth

import (
	"fmt"
	"time"

	"github.com/arjunmehta/mockview/pkg/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserClaims carry the account identity and the role resolved once at session
// load; handlers never re-derive the role from the account record.
type UserClaims struct {
	UserID    string         `json:"user_id"`
	Email     string         `json:"email"`
	Role      model.UserRole `json:"role"`
	SessionID string         `json:"session_id"`
	jwt.RegisteredClaims
}

func NewUserClaims(userID, email string, role model.UserRole, duration time.Duration, sessionID string) (*UserClaims, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("error generating token id: %w", err)
	}

	if sessionID == "" {
		sessionID = tokenID.String()
	}

	return &UserClaims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		},
	}, nil
}

// IsHR reports whether the session holds the elevated HR role.
func (c *UserClaims) IsHR() bool {
	return c.Role == model.UserRoleHRAdmin
}
