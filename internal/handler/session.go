package handler

import (
	"errors"

	"github.com/arjunmehta/mockview/internal/gemini"
	"github.com/arjunmehta/mockview/internal/session"
	"github.com/arjunmehta/mockview/pkg/response"
	"github.com/gin-gonic/gin"
)

type analyzeReq struct {
	ResumeText string `json:"resume_text"`
	ResumeURL  string `json:"resume_url"`
	JobRole    string `json:"job_role"`
}

type answerReq struct {
	Text string `json:"text" binding:"required"`
}

type speechReq struct {
	Text string `json:"text" binding:"required"`
}

// CreateSession opens a new interview session in the setup stage.
func (h *Handler) CreateSession(c *gin.Context) {
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

	s := session.New(user.UserID, user.CandidateName())
	if err := h.Sessions.Save(c.Request.Context(), s); err != nil {
		h.Logger.Sugar().Errorw("session save failed", "err", err)
		response.InternalError(c, "could not create session")
		return
	}

	response.Created(c, s)
}

// GetSession returns the current session state for the owning candidate.
func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.loadOwnedSession(c)
	if !ok {
		return
	}
	response.OK(c, s)
}

// DeleteSession abandons an in-progress session. It takes the busy flag so a
// still-in-flight call cannot write the session back after the delete.
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.acquire(c, c.Param("id")) {
		return
	}
	defer h.release(c, c.Param("id"))

	s, ok := h.loadOwnedSession(c)
	if !ok {
		return
	}
	if err := h.Sessions.Delete(c.Request.Context(), s.ID); err != nil {
		h.Logger.Sugar().Errorw("session delete failed", "session_id", s.ID, "err", err)
		response.InternalError(c, "could not delete session")
		return
	}
	response.NoContent(c)
}

// AnalyzeSession runs the setup -> review transition: validate inputs,
// extract skills from the resume, present them for review. Extraction
// failure reverts to setup.
func (h *Handler) AnalyzeSession(c *gin.Context) {
	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !h.acquire(c, c.Param("id")) {
		return
	}
	defer h.release(c, c.Param("id"))

	s, ok := h.loadOwnedSession(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	resumeText := req.ResumeText
	if resumeText == "" && req.ResumeURL != "" {
		fetched, err := h.Fetcher.ResumeText(ctx, req.ResumeURL, c.Request.UserAgent())
		if err != nil {
			h.Logger.Sugar().Warnw("resume fetch failed", "session_id", s.ID, "err", err)
			response.BadRequest(c, "could not fetch resume from the given url")
			return
		}
		resumeText = fetched
	}

	err := h.Orchestrator.Analyze(ctx, s, resumeText, req.JobRole)
	h.saveSession(c, s)
	if err != nil {
		h.respondOrchestratorError(c, err, "could not analyze the resume, please try again")
		return
	}

	response.OK(c, s)
}

// StartSession runs review -> interview and returns the session with the
// greeting and first question appended.
func (h *Handler) StartSession(c *gin.Context) {
	if !h.acquire(c, c.Param("id")) {
		return
	}
	defer h.release(c, c.Param("id"))

	s, ok := h.loadOwnedSession(c)
	if !ok {
		return
	}

	err := h.Orchestrator.Begin(c.Request.Context(), s)
	h.saveSession(c, s)
	if err != nil {
		h.respondOrchestratorError(c, err, "could not start the interview, please try again")
		return
	}

	response.OK(c, s)
}

// SubmitAnswer runs one interview round and returns the evaluation plus
// either the next question or the completion result.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	var req answerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !h.acquire(c, c.Param("id")) {
		return
	}
	defer h.release(c, c.Param("id"))

	s, ok := h.loadOwnedSession(c)
	if !ok {
		return
	}

	result, err := h.Orchestrator.SubmitAnswer(c.Request.Context(), s, req.Text)
	h.saveSession(c, s)
	if err != nil {
		h.respondOrchestratorError(c, err, "could not process the answer, please try again")
		return
	}

	response.OK(c, gin.H{"session": s, "turn": result})
}

// SessionSpeech synthesizes audio for an utterance. After the first quota
// rejection the session stops issuing speech requests and responds 204. The
// busy flag is held across the synthesis call so the quota write-back cannot
// clobber a concurrent answer round.
func (h *Handler) SessionSpeech(c *gin.Context) {
	var req speechReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !h.acquire(c, c.Param("id")) {
		return
	}
	defer h.release(c, c.Param("id"))

	s, ok := h.loadOwnedSession(c)
	if !ok {
		return
	}

	if s.SpeechDisabled {
		response.NoContent(c)
		return
	}

	audio, err := h.Speech.SpeechAudio(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, gemini.ErrQuotaExceeded) {
			s.SpeechDisabled = true
			h.saveSession(c, s)
			response.TooManyRequests(c, "speech quota exceeded, speech is disabled for this session")
			return
		}
		h.Logger.Sugar().Warnw("speech synthesis failed", "session_id", s.ID, "err", err)
		response.BadGateway(c, "could not synthesize speech")
		return
	}

	c.Header("X-Audio-Sample-Rate", "24000")
	c.Header("X-Audio-Channels", "1")
	c.Data(200, "application/octet-stream", audio)
}

// loadOwnedSession fetches the path session and verifies the caller owns it.
func (h *Handler) loadOwnedSession(c *gin.Context) (*session.Session, bool) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return nil, false
	}

	s, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.NotFound(c, "session not found or expired")
			return nil, false
		}
		h.Logger.Sugar().Errorw("session load failed", "err", err)
		response.InternalError(c, "could not load session")
		return nil, false
	}

	if s.CandidateID != claims.UserID {
		response.Forbidden(c, "you do not own this session")
		return nil, false
	}
	return s, true
}

// acquire takes the per-session busy flag; only one AI call may be in flight
// per session.
func (h *Handler) acquire(c *gin.Context, id string) bool {
	ok, err := h.Sessions.Acquire(c.Request.Context(), id)
	if err != nil {
		h.Logger.Sugar().Errorw("session acquire failed", "session_id", id, "err", err)
		response.InternalError(c, "could not lock session")
		return false
	}
	if !ok {
		response.Conflict(c, "a request for this session is already in flight")
		return false
	}
	return true
}

func (h *Handler) release(c *gin.Context, id string) {
	if err := h.Sessions.Release(c.Request.Context(), id); err != nil {
		h.Logger.Sugar().Warnw("session release failed", "session_id", id, "err", err)
	}
}

// saveSession writes the session back after an orchestrator call. Failure
// transitions mutate the session too (e.g. analyzing reverting to setup), so
// this runs whether or not the call succeeded.
func (h *Handler) saveSession(c *gin.Context, s *session.Session) {
	if err := h.Sessions.Save(c.Request.Context(), s); err != nil {
		h.Logger.Sugar().Errorw("session save failed", "session_id", s.ID, "err", err)
	}
}

// respondOrchestratorError maps orchestrator failures onto HTTP responses.
func (h *Handler) respondOrchestratorError(c *gin.Context, err error, aiMessage string) {
	var vErr *session.ValidationError
	if errors.As(err, &vErr) {
		response.ValidationError(c, vErr.Msg)
		return
	}

	var sErr *session.StageError
	if errors.As(err, &sErr) {
		response.Conflict(c, sErr.Error())
		return
	}

	var pErr *session.PersistenceError
	if errors.As(err, &pErr) {
		h.Logger.Sugar().Errorw("interview persist failed", "err", pErr.Err)
		response.InternalError(c, pErr.Error()+" ("+pErr.Hint()+")")
		return
	}

	var aErr *gemini.AnalysisError
	if errors.As(err, &aErr) {
		h.Logger.Sugar().Warnw("ai call failed", "op", aErr.Op, "err", aErr.Err)
		response.BadGateway(c, aiMessage)
		return
	}

	h.Logger.Sugar().Errorw("session operation failed", "err", err)
	response.InternalError(c, "")
}
