package handler

import (
	"errors"

	"github.com/arjunmehta/mockview/internal/repository"
	"github.com/arjunmehta/mockview/pkg/model"
	"github.com/arjunmehta/mockview/pkg/response"
	"github.com/gin-gonic/gin"
)

// GetReport returns one interview report. The owner-or-HR check is enforced
// by the repository; a requester without access gets 403 and the client
// redirects home.
func (h *Handler) GetReport(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	iv, err := h.Store.GetInterview(c.Request.Context(), c.Param("id"), claims.UserID, claims.IsHR())
	if err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			response.Forbidden(c, "you do not have permission to view this report")
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "interview not found")
			return
		}
		h.Logger.Sugar().Errorw("report fetch failed", "id", c.Param("id"), "err", err)
		response.InternalError(c, "could not fetch the interview report (check the interviews table access policy)")
		return
	}

	response.OK(c, iv)
}

// ListInterviews returns interview rows newest first. HR users see all rows
// and may filter by candidate; candidates only ever see their own.
func (h *Handler) ListInterviews(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var q model.ListInterviewsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	candidateID := q.CandidateID
	if !claims.IsHR() {
		candidateID = claims.UserID
	}

	offset := (q.Page - 1) * q.PageSize
	items, total, err := h.Store.ListInterviews(c.Request.Context(), candidateID, q.PageSize, offset)
	if err != nil {
		h.Logger.Sugar().Errorw("interview list failed", "err", err)
		response.InternalError(c, "could not list interviews")
		return
	}

	response.OKWithMeta(c, items, &response.Meta{
		Page:     q.Page,
		PageSize: q.PageSize,
		Total:    total,
		HasNext:  offset+len(items) < total,
	})
}

// InterviewStats returns the HR dashboard aggregates. Routed behind the HR
// middleware.
func (h *Handler) InterviewStats(c *gin.Context) {
	stats, err := h.Store.InterviewStats(c.Request.Context())
	if err != nil {
		h.Logger.Sugar().Errorw("interview stats failed", "err", err)
		response.InternalError(c, "could not compute stats")
		return
	}
	response.OK(c, stats)
}

// SkillHistory returns the caller's per-skill level series across their past
// interviews, for the candidate dashboard growth chart.
func (h *Handler) SkillHistory(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	history, err := h.Store.SkillHistory(c.Request.Context(), claims.UserID)
	if err != nil {
		h.Logger.Sugar().Errorw("skill history failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c, "could not load skill history")
		return
	}
	response.OK(c, history)
}
