package handler

import (
	"errors"
	"time"

	"github.com/arjunmehta/mockview/internal/repository"
	"github.com/arjunmehta/mockview/pkg"
	"github.com/arjunmehta/mockview/pkg/model"
	"github.com/arjunmehta/mockview/pkg/response"
	"github.com/gin-gonic/gin"
)

const resetTokenTTL = 30 * time.Minute

// SignUp creates a new account. The role is fixed at sign-up and defaults to
// candidate.
func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("signup bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	role := model.UserRoleCandidate
	if req.Role != "" {
		if !model.ValidRole(req.Role) {
			response.ValidationError(c, "role must be candidate or hr_admin")
			return
		}
		role = model.UserRole(req.Role)
	}

	pwHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		h.Logger.Sugar().Errorw("failed to hash password", "err", err)
		response.InternalError(c, "")
		return
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: pwHash,
		Role:         role,
	}

	id, err := h.Store.CreateUser(c.Request.Context(), user)
	if err != nil {
		h.Logger.Sugar().Errorw("user create failed", "email", req.Email, "err", err)
		response.BadRequest(c, "could not create user")
		return
	}
	user.UserID = id

	response.Created(c, model.NewUserRes(user))
}

// Login verifies credentials and returns access and refresh tokens. The role
// claim is resolved here, once, and carried in the token for the rest of the
// session.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("login bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		h.Logger.Sugar().Warnw("login user not found", "email", req.Email, "err", err)
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if err := pkg.ComparePassword(user.PasswordHash, req.Password); err != nil {
		h.Logger.Sugar().Warnw("login password mismatch", "email", req.Email, "err", err)
		response.Unauthorized(c, "invalid credentials")
		return
	}

	accessToken, accessClaims, err := h.TokenMaker.GenerateToken(user.UserID, user.Email, user.Role, h.AccessTTL, "")
	if err != nil {
		h.Logger.Sugar().Errorw("error creating token", "err", err)
		response.InternalError(c, "could not generate token")
		return
	}

	refreshToken, refreshClaims, err := h.TokenMaker.GenerateToken(user.UserID, user.Email, user.Role, h.RefreshTTL, accessClaims.SessionID)
	if err != nil {
		h.Logger.Sugar().Errorw("error creating token", "err", err)
		response.InternalError(c, "could not generate token")
		return
	}

	tok, err := h.Store.CreateUserSession(ctx, &model.UserToken{
		UserTokenID:  refreshClaims.RegisteredClaims.ID,
		UserID:       user.UserID,
		RefreshToken: refreshToken,
		ExpiresAt:    refreshClaims.RegisteredClaims.ExpiresAt.Time,
		IsRevoked:    false,
	})
	if err != nil {
		h.Logger.Sugar().Errorw("error creating session", "err", err)
		response.InternalError(c, "could not create session")
		return
	}

	response.OK(c, model.LoginRes{
		SessionID:             tok.UserTokenID,
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessClaims.RegisteredClaims.ExpiresAt.Time,
		RefreshTokenExpiresAt: refreshClaims.RegisteredClaims.ExpiresAt.Time,
		User:                  model.NewUserRes(&user),
	})
}

// Me returns the current user profile and preferences.
func (h *Handler) Me(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	user, err := h.Store.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Unauthorized(c, "")
		return
	}

	response.OK(c, model.NewUserRes(&user))
}

// UpdatePreferences stores theme/language selections on the account.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.UpdatePreferencesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.Store.UpdateUserPreferences(c.Request.Context(), claims.UserID, req.Theme, req.Language); err != nil {
		h.Logger.Sugar().Errorw("update preferences failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c, "could not update preferences")
		return
	}
	response.Message(c, "preferences updated")
}

func (h *Handler) Logout(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	if err := h.Store.DeleteUserSession(c.Request.Context(), claims.SessionID); err != nil {
		response.InternalError(c, "could not revoke session")
		return
	}
	response.Message(c, "user logged out successfully")
}

func (h *Handler) RenewAccessToken(c *gin.Context) {
	var req model.RenewAccessTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	refreshClaims, err := h.TokenMaker.VerifyToken(req.RefreshToken)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	tok, err := h.Store.GetUserSession(c.Request.Context(), refreshClaims.RegisteredClaims.ID)
	if err != nil {
		response.Unauthorized(c, "unknown session")
		return
	}

	if tok.IsRevoked {
		response.Unauthorized(c, "session revoked")
		return
	}
	if tok.UserID != refreshClaims.UserID {
		response.Unauthorized(c, "incorrect session user")
		return
	}
	if time.Now().After(tok.ExpiresAt) {
		response.Unauthorized(c, "expired session")
		return
	}

	accessToken, accessClaims, err := h.TokenMaker.GenerateToken(refreshClaims.UserID, refreshClaims.Email, refreshClaims.Role, h.AccessTTL, refreshClaims.SessionID)
	if err != nil {
		response.InternalError(c, "could not generate access token")
		return
	}

	response.OK(c, model.RenewAccessTokenRes{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: accessClaims.RegisteredClaims.ExpiresAt.Time,
	})
}

func (h *Handler) RevokeSession(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	if err := h.Store.RevokeUserSession(c.Request.Context(), claims.SessionID); err != nil {
		response.InternalError(c, "could not revoke session")
		return
	}
	response.Message(c, "session revoked successfully")
}

// RequestPasswordReset issues a single-use reset token. The response is the
// same whether or not the email exists. Delivering the recovery link is the
// mail collaborator's job; in development the link is logged.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req model.PasswordResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		response.Message(c, "if the account exists, a recovery link has been sent")
		return
	}

	token, hash, err := pkg.NewResetToken()
	if err != nil {
		h.Logger.Sugar().Errorw("reset token generation failed", "err", err)
		response.InternalError(c, "")
		return
	}

	if err := h.Store.CreatePasswordReset(ctx, user.UserID, hash, time.Now().Add(resetTokenTTL)); err != nil {
		h.Logger.Sugar().Errorw("reset token store failed", "err", err)
		response.InternalError(c, "")
		return
	}

	if h.Development {
		h.Logger.Sugar().Infow("password reset link", "email", user.Email, "path", "/reset-password?token="+token)
	}

	response.Message(c, "if the account exists, a recovery link has been sent")
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req model.PasswordResetConfirmReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	userID, err := h.Store.ConsumePasswordReset(ctx, pkg.HashToken(req.Token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Unauthorized(c, "reset link is invalid or has expired")
			return
		}
		h.Logger.Sugar().Errorw("reset token consume failed", "err", err)
		response.InternalError(c, "")
		return
	}

	pwHash, err := pkg.HashPassword(req.NewPassword)
	if err != nil {
		response.InternalError(c, "")
		return
	}
	if err := h.Store.UpdateUserPassword(ctx, userID, pwHash); err != nil {
		h.Logger.Sugar().Errorw("password update failed", "user_id", userID, "err", err)
		response.InternalError(c, "")
		return
	}

	response.Message(c, "password updated, please log in")
}
