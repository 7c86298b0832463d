package model

import "time"

type UserRole string

const (
	UserRoleCandidate UserRole = "candidate"
	UserRoleHRAdmin   UserRole = "hr_admin"
)

// IsHR reports whether the role carries the elevated HR permissions.
func (r UserRole) IsHR() bool {
	return r == UserRoleHRAdmin
}

// ValidRole reports whether s is a role accepted at sign-up.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case UserRoleCandidate, UserRoleHRAdmin:
		return true
	}
	return false
}

type User struct {
	UserID       string    `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	Theme        string    `json:"theme" db:"theme"`
	Language     string    `json:"language" db:"language"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CandidateName is the display name used on persisted interview rows.
// Falls back to the local part of the email when no name was provided.
func (u *User) CandidateName() string {
	if u.Name != "" {
		return u.Name
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

type SignUpReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserRes struct {
	UserID   string   `json:"user_id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	Theme    string   `json:"theme"`
	Language string   `json:"language"`
}

func NewUserRes(u *User) UserRes {
	return UserRes{
		UserID:   u.UserID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		Theme:    u.Theme,
		Language: u.Language,
	}
}

type UpdatePreferencesReq struct {
	Theme    *string `json:"theme,omitempty" binding:"omitempty,oneof=light dark"`
	Language *string `json:"language,omitempty" binding:"omitempty,max=8"`
}

type LoginRes struct {
	SessionID             string    `json:"session_id"`
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	User                  UserRes   `json:"user"`
}

type RenewAccessTokenReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RenewAccessTokenRes struct {
	AccessToken          string    `json:"access_token"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
}

// UserToken is a refresh-token session row.
type UserToken struct {
	UserTokenID  string    `json:"user_token_id" db:"user_token_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	IsRevoked    bool      `json:"is_revoked" db:"is_revoked"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type PasswordResetReq struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirmReq struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
