package handler

import (
	"context"
	"time"

	"github.com/arjunmehta/mockview/internal/auth"
	"github.com/arjunmehta/mockview/internal/session"
	"github.com/arjunmehta/mockview/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is the persistence surface the handlers use. *repository.Repository
// implements it; tests substitute fakes.
type Store interface {
	CreateUser(ctx context.Context, u *model.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id string) (model.User, error)
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	UpdateUserPreferences(ctx context.Context, userID string, theme, language *string) error

	CreateUserSession(ctx context.Context, t *model.UserToken) (*model.UserToken, error)
	GetUserSession(ctx context.Context, tokenID string) (model.UserToken, error)
	RevokeUserSession(ctx context.Context, tokenID string) error
	DeleteUserSession(ctx context.Context, tokenID string) error
	CreatePasswordReset(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	ConsumePasswordReset(ctx context.Context, tokenHash string) (string, error)

	GetInterview(ctx context.Context, id, requesterID string, requesterIsHR bool) (*model.Interview, error)
	ListInterviews(ctx context.Context, candidateID string, limit, offset int) ([]model.InterviewListItem, int, error)
	SkillHistory(ctx context.Context, candidateID string) ([]model.SkillHistory, error)
	InterviewStats(ctx context.Context) (*model.InterviewStats, error)
}

// SpeechClient synthesizes spoken audio for interviewer utterances.
type SpeechClient interface {
	SpeechAudio(ctx context.Context, text string) ([]byte, error)
}

// ResumeFetcher turns a hosted resume URL into plain text.
type ResumeFetcher interface {
	ResumeText(ctx context.Context, rawURL, userAgent string) (string, error)
}

type Handler struct {
	Logger       *zap.Logger
	Store        Store
	Sessions     session.Store
	Orchestrator *session.Orchestrator
	Speech       SpeechClient
	Fetcher      ResumeFetcher
	TokenMaker   *auth.JWTMaker
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	Development  bool
}

// GetClaimsFromContext retrieves the verified claims set by the auth
// middleware.
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.UserClaims {
	v, exists := c.Get("claims")
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.UserClaims)
	if !ok {
		return nil
	}
	return claims
}
