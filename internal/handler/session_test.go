package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arjunmehta/mockview/internal/auth"
	"github.com/arjunmehta/mockview/internal/gemini"
	"github.com/arjunmehta/mockview/internal/session"
	"github.com/arjunmehta/mockview/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore satisfies Store; tests set only the fields they exercise.
type fakeStore struct {
	user    model.User
	userErr error

	interview    *model.Interview
	interviewErr error

	listItems       []model.InterviewListItem
	listTotal       int
	listCandidateID string

	history []model.SkillHistory
	stats   *model.InterviewStats

	createdUser    *model.User
	userSession    model.UserToken
	userSessionErr error

	consumeUserID string
	consumeErr    error
}

func (f *fakeStore) CreateUser(ctx context.Context, u *model.User) (string, error) {
	f.createdUser = u
	return "user-1", nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return f.user, f.userErr
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (model.User, error) {
	return f.user, f.userErr
}

func (f *fakeStore) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	return nil
}

func (f *fakeStore) UpdateUserPreferences(ctx context.Context, userID string, theme, language *string) error {
	return nil
}

func (f *fakeStore) CreateUserSession(ctx context.Context, t *model.UserToken) (*model.UserToken, error) {
	return t, nil
}

func (f *fakeStore) GetUserSession(ctx context.Context, tokenID string) (model.UserToken, error) {
	return f.userSession, f.userSessionErr
}

func (f *fakeStore) RevokeUserSession(ctx context.Context, tokenID string) error { return nil }
func (f *fakeStore) DeleteUserSession(ctx context.Context, tokenID string) error { return nil }

func (f *fakeStore) CreatePasswordReset(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return nil
}

func (f *fakeStore) ConsumePasswordReset(ctx context.Context, tokenHash string) (string, error) {
	return f.consumeUserID, f.consumeErr
}

func (f *fakeStore) GetInterview(ctx context.Context, id, requesterID string, requesterIsHR bool) (*model.Interview, error) {
	return f.interview, f.interviewErr
}

func (f *fakeStore) ListInterviews(ctx context.Context, candidateID string, limit, offset int) ([]model.InterviewListItem, int, error) {
	f.listCandidateID = candidateID
	return f.listItems, f.listTotal, nil
}

func (f *fakeStore) SkillHistory(ctx context.Context, candidateID string) ([]model.SkillHistory, error) {
	return f.history, nil
}

func (f *fakeStore) InterviewStats(ctx context.Context) (*model.InterviewStats, error) {
	return f.stats, nil
}

type fakeSpeech struct {
	audio []byte
	err   error
}

func (f *fakeSpeech) SpeechAudio(ctx context.Context, text string) ([]byte, error) {
	return f.audio, f.err
}

type speechFunc func(ctx context.Context, text string) ([]byte, error)

func (f speechFunc) SpeechAudio(ctx context.Context, text string) ([]byte, error) {
	return f(ctx, text)
}

type fakeFetcher struct {
	text string
	err  error
}

func (f *fakeFetcher) ResumeText(ctx context.Context, rawURL, userAgent string) (string, error) {
	return f.text, f.err
}

// fixed-output orchestrator collaborators
type stubGateway struct {
	skills []model.Skill
	err    error
}

func (s *stubGateway) ExtractSkills(ctx context.Context, resumeText string) ([]model.Skill, error) {
	return s.skills, s.err
}

func (s *stubGateway) NextQuestion(ctx context.Context, jobRole string, skills []model.Skill, priorContext string) (string, error) {
	return "Tell me about your experience.", s.err
}

func (s *stubGateway) EvaluateAnswer(ctx context.Context, question, answer string) (model.Feedback, error) {
	return model.Feedback{Feedback: "fine", Score: 70, Confidence: 70}, s.err
}

func (s *stubGateway) Summarize(ctx context.Context, transcript []model.Message) (string, error) {
	return "summary", s.err
}

type stubHistory struct{}

func (stubHistory) SkillsByJobTitle(ctx context.Context, jobTitle string) ([][]model.Skill, error) {
	return nil, nil
}

type stubRecorder struct{}

func (stubRecorder) CreateInterview(ctx context.Context, iv *model.Interview) (string, error) {
	return "iv-1", nil
}

type testEnv struct {
	handler  *Handler
	store    *fakeStore
	sessions *session.MemoryStore
	speech   *fakeSpeech
	fetcher  *fakeFetcher
	gateway  *stubGateway
}

func newTestEnv() *testEnv {
	store := &fakeStore{user: model.User{UserID: "cand-1", Email: "ada@example.com", Name: "Ada", Role: model.UserRoleCandidate}}
	sessions := session.NewMemoryStore()
	speech := &fakeSpeech{}
	fetcher := &fakeFetcher{}
	gateway := &stubGateway{skills: []model.Skill{{Skill: "Go", Level: 80, Justification: "services"}}}
	logger := zap.NewNop()

	h := &Handler{
		Logger:       logger,
		Store:        store,
		Sessions:     sessions,
		Orchestrator: session.NewOrchestrator(gateway, stubHistory{}, stubRecorder{}, logger, 5, 60),
		Speech:       speech,
		Fetcher:      fetcher,
		TokenMaker:   auth.NewJWTMaker("0123456789abcdef0123456789abcdef"),
		AccessTTL:    time.Hour,
		RefreshTTL:   7 * 24 * time.Hour,
	}
	return &testEnv{handler: h, store: store, sessions: sessions, speech: speech, fetcher: fetcher, gateway: gateway}
}

func claimsFor(userID string, role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := auth.NewUserClaims(userID, userID+"@example.com", role, time.Hour, "")
		c.Set("claims", claims)
		c.Next()
	}
}

func (e *testEnv) router(userID string, role model.UserRole) *gin.Engine {
	r := gin.New()
	r.Use(claimsFor(userID, role))
	r.POST("/sessions", e.handler.CreateSession)
	r.GET("/sessions/:id", e.handler.GetSession)
	r.DELETE("/sessions/:id", e.handler.DeleteSession)
	r.POST("/sessions/:id/analyze", e.handler.AnalyzeSession)
	r.POST("/sessions/:id/start", e.handler.StartSession)
	r.POST("/sessions/:id/answers", e.handler.SubmitAnswer)
	r.POST("/sessions/:id/speech", e.handler.SessionSpeech)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedSession(t *testing.T, stage session.Stage) *session.Session {
	t.Helper()
	s := session.New("cand-1", "Ada")
	s.Stage = stage
	if stage != session.StageSetup {
		s.JobRole = "Backend Engineer"
		s.Skills = e.gateway.skills
	}
	require.NoError(t, e.sessions.Save(context.Background(), s))
	return s
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv()
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Data session.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, session.StageSetup, body.Data.Stage)
	assert.Equal(t, "cand-1", body.Data.CandidateID)
	assert.Equal(t, "Ada", body.Data.CandidateName)
}

func TestGetSessionNotOwned(t *testing.T) {
	env := newTestEnv()
	s := env.seedSession(t, session.StageSetup)

	r := env.router("other-user", model.UserRoleCandidate)
	w := doJSON(t, r, http.MethodGet, "/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetSessionExpired(t *testing.T) {
	env := newTestEnv()
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodGet, "/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyzeSessionHappyPath(t *testing.T) {
	env := newTestEnv()
	s := env.seedSession(t, session.StageSetup)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/analyze", gin.H{
		"resume_text": "resume text",
		"job_role":    "Backend Engineer",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	saved, err := env.sessions.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StageReview, saved.Stage)
	assert.Len(t, saved.Skills, 1)
}

func TestAnalyzeSessionFromURL(t *testing.T) {
	env := newTestEnv()
	env.fetcher.text = "fetched resume text"
	s := env.seedSession(t, session.StageSetup)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/analyze", gin.H{
		"resume_url": "https://example.com/resume",
		"job_role":   "Backend Engineer",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyzeSessionFetchFailure(t *testing.T) {
	env := newTestEnv()
	env.fetcher.err = errors.New("connection refused")
	s := env.seedSession(t, session.StageSetup)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/analyze", gin.H{
		"resume_url": "https://example.com/resume",
		"job_role":   "Backend Engineer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeSessionMissingInput(t *testing.T) {
	env := newTestEnv()
	s := env.seedSession(t, session.StageSetup)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/analyze", gin.H{
		"resume_text": "",
		"job_role":    "Backend Engineer",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAnalyzeSessionBusy(t *testing.T) {
	env := newTestEnv()
	s := env.seedSession(t, session.StageSetup)

	ok, err := env.sessions.Acquire(context.Background(), s.ID)
	require.NoError(t, err)
	require.True(t, ok)

	r := env.router("cand-1", model.UserRoleCandidate)
	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/analyze", gin.H{
		"resume_text": "resume text",
		"job_role":    "Backend Engineer",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAnalyzeSessionUpstreamFailure(t *testing.T) {
	env := newTestEnv()
	env.gateway.err = &gemini.AnalysisError{Op: "extract skills", Err: errors.New("quota")}
	s := env.seedSession(t, session.StageSetup)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/analyze", gin.H{
		"resume_text": "resume text",
		"job_role":    "Backend Engineer",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// the failed transition reverts and is saved
	saved, err := env.sessions.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StageSetup, saved.Stage)
}

func TestStartSessionWrongStage(t *testing.T) {
	env := newTestEnv()
	s := env.seedSession(t, session.StageSetup)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/start", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStartAndAnswerRoundTrip(t *testing.T) {
	env := newTestEnv()
	s := env.seedSession(t, session.StageReview)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/answers", gin.H{"text": "my answer"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Turn session.TurnResult `json:"turn"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 70, body.Data.Turn.Feedback.Score)
	assert.False(t, body.Data.Turn.Completed)
	assert.NotEmpty(t, body.Data.Turn.NextQuestion)
}

func TestSubmitAnswerCompletes(t *testing.T) {
	env := newTestEnv()
	env.handler.Orchestrator = session.NewOrchestrator(env.gateway, stubHistory{}, stubRecorder{}, zap.NewNop(), 1, 60)
	s := env.seedSession(t, session.StageReview)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/answers", gin.H{"text": "my answer"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Turn session.TurnResult `json:"turn"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.Turn.Completed)
	assert.Equal(t, "iv-1", body.Data.Turn.InterviewID)

	saved, err := env.sessions.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StageComplete, saved.Stage)
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv()
	s := env.seedSession(t, session.StageSetup)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodDelete, "/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err := env.sessions.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionSpeech(t *testing.T) {
	env := newTestEnv()
	env.speech.audio = []byte{0x01, 0x02, 0x03}
	s := env.seedSession(t, session.StageInterview)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/speech", gin.H{"text": "Hello"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "24000", w.Header().Get("X-Audio-Sample-Rate"))
	assert.Equal(t, "1", w.Header().Get("X-Audio-Channels"))
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, w.Body.Bytes())
}

func TestSessionSpeechQuotaDisablesSpeech(t *testing.T) {
	env := newTestEnv()
	env.speech.err = fmt.Errorf("text to speech: %w", gemini.ErrQuotaExceeded)
	s := env.seedSession(t, session.StageInterview)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/speech", gin.H{"text": "Hello"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	saved, err := env.sessions.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, saved.SpeechDisabled)

	// further requests are suppressed without calling the synthesizer
	w = doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/speech", gin.H{"text": "Hello again"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSessionSpeechHoldsSessionLock(t *testing.T) {
	env := newTestEnv()
	s := env.seedSession(t, session.StageInterview)
	r := env.router("cand-1", model.UserRoleCandidate)

	// an answer submitted while synthesis is in flight must be rejected, not
	// silently erased by the speech handler's write-back
	env.handler.Speech = speechFunc(func(ctx context.Context, text string) ([]byte, error) {
		w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/answers", gin.H{"text": "mid-flight answer"})
		assert.Equal(t, http.StatusConflict, w.Code)
		return nil, gemini.ErrQuotaExceeded
	})

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/speech", gin.H{"text": "Hello"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	saved, err := env.sessions.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, saved.SpeechDisabled)
	assert.Equal(t, 0, saved.CandidateAnswers())
}

func TestDeleteSessionBusy(t *testing.T) {
	env := newTestEnv()
	s := env.seedSession(t, session.StageInterview)

	ok, err := env.sessions.Acquire(context.Background(), s.ID)
	require.NoError(t, err)
	require.True(t, ok)

	r := env.router("cand-1", model.UserRoleCandidate)
	w := doJSON(t, r, http.MethodDelete, "/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	_, err = env.sessions.Get(context.Background(), s.ID)
	assert.NoError(t, err)
}

func TestSessionSpeechUpstreamFailure(t *testing.T) {
	env := newTestEnv()
	env.speech.err = errors.New("boom")
	s := env.seedSession(t, session.StageInterview)
	r := env.router("cand-1", model.UserRoleCandidate)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+s.ID+"/speech", gin.H{"text": "Hello"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
