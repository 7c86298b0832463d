package session

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/arjunmehta/mockview/pkg/model"
	"go.uber.org/zap"
)

// Gateway is the slice of the AI client the orchestrator needs.
type Gateway interface {
	ExtractSkills(ctx context.Context, resumeText string) ([]model.Skill, error)
	NextQuestion(ctx context.Context, jobRole string, skills []model.Skill, priorContext string) (string, error)
	EvaluateAnswer(ctx context.Context, question, answer string) (model.Feedback, error)
	Summarize(ctx context.Context, transcript []model.Message) (string, error)
}

// History supplies skill lists of past interviews for peer benchmarking.
type History interface {
	SkillsByJobTitle(ctx context.Context, jobTitle string) ([][]model.Skill, error)
}

// Recorder persists the completed interview row.
type Recorder interface {
	CreateInterview(ctx context.Context, iv *model.Interview) (string, error)
}

const (
	// fallbackFeedbackText substitutes a failed per-answer evaluation. The
	// round still counts toward the question limit.
	fallbackFeedbackText = "Could not evaluate the answer at this time."
	fallbackScore        = 50

	fallbackSummary  = "Could not generate a summary for this interview."
	fallbackQuestion = "I'm sorry, I ran into an issue preparing the next question. Could you tell me about a recent project you are proud of?"
)

// Orchestrator drives the interview stage machine. It mutates the Session
// passed in; callers own loading it from and saving it back to the store, and
// serialize calls per session via the store's busy flag.
type Orchestrator struct {
	ai       Gateway
	history  History
	recorder Recorder
	logger   *zap.Logger

	questionLimit      int
	defaultPeerAverage int
}

func NewOrchestrator(ai Gateway, history History, recorder Recorder, logger *zap.Logger, questionLimit, defaultPeerAverage int) *Orchestrator {
	return &Orchestrator{
		ai:                 ai,
		history:            history,
		recorder:           recorder,
		logger:             logger,
		questionLimit:      questionLimit,
		defaultPeerAverage: defaultPeerAverage,
	}
}

// Analyze runs setup -> analyzing -> review. On extraction failure the
// session reverts to setup and the error surfaces to the caller.
func (o *Orchestrator) Analyze(ctx context.Context, s *Session, resumeText, jobRole string) error {
	if s.Stage != StageSetup {
		return stageErr("analyze", s.Stage)
	}

	resumeText = strings.TrimSpace(resumeText)
	jobRole = strings.TrimSpace(jobRole)
	if resumeText == "" || jobRole == "" {
		return validationErr("please provide both a resume and a job role")
	}

	s.Stage = StageAnalyzing
	s.ResumeText = resumeText
	s.JobRole = jobRole
	s.touch()

	skills, err := o.ai.ExtractSkills(ctx, resumeText)
	if err != nil {
		s.Stage = StageSetup
		s.touch()
		return fmt.Errorf("analyze resume: %w", err)
	}

	s.Skills = skills
	s.Stage = StageReview
	s.touch()
	return nil
}

// Begin runs review -> interview: it synthesizes the greeting and appends the
// first AI-generated question. If the first question cannot be generated the
// session reverts to review.
func (o *Orchestrator) Begin(ctx context.Context, s *Session) error {
	if s.Stage != StageReview {
		return stageErr("start interview", s.Stage)
	}

	s.Stage = StageInterview
	greeting := fmt.Sprintf("Hello! I'll be conducting your interview for the %s position today. I've reviewed your skills. Let's begin.", s.JobRole)
	s.append(model.SenderInterviewer, greeting)

	question, err := o.ai.NextQuestion(ctx, s.JobRole, s.Skills, greeting)
	if err != nil {
		s.Stage = StageReview
		s.Transcript = nil
		s.touch()
		return fmt.Errorf("first question: %w", err)
	}

	s.append(model.SenderInterviewer, question)
	s.touch()
	return nil
}

// TurnResult is the outcome of one answer submission.
type TurnResult struct {
	Feedback     model.Feedback `json:"feedback"`
	NextQuestion string         `json:"next_question,omitempty"`
	Completed    bool           `json:"completed"`
	InterviewID  string         `json:"interview_id,omitempty"`
	OverallScore int            `json:"overall_score,omitempty"`
}

// SubmitAnswer records one candidate answer, evaluates it and either appends
// the next question or, once the question limit is reached, completes the
// session. An evaluation failure never propagates: the answer receives the
// default feedback and the round still counts.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, s *Session, answer string) (*TurnResult, error) {
	if s.Stage != StageInterview {
		return nil, stageErr("submit answer", s.Stage)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, validationErr("answer must not be empty")
	}

	lastQuestion := s.LastQuestion()
	msg := s.append(model.SenderCandidate, answer)

	feedback, err := o.ai.EvaluateAnswer(ctx, lastQuestion, answer)
	if err != nil {
		o.logger.Sugar().Warnw("evaluation failed, using default feedback", "session_id", s.ID, "err", err)
		feedback = model.Feedback{Feedback: fallbackFeedbackText, Score: fallbackScore, Confidence: fallbackScore}
	}
	msg.Feedback = &feedback
	s.ConfidenceScores = append(s.ConfidenceScores, feedback.Confidence)
	s.touch()

	result := &TurnResult{Feedback: feedback}

	if s.CandidateAnswers() >= o.questionLimit {
		iv, err := o.complete(ctx, s)
		if err != nil {
			return nil, err
		}
		result.Completed = true
		result.InterviewID = iv.ID
		result.OverallScore = iv.OverallScore
		return result, nil
	}

	question, err := o.ai.NextQuestion(ctx, s.JobRole, s.Skills, priorContext(s.Transcript))
	if err != nil {
		o.logger.Sugar().Warnw("question generation failed, using fallback", "session_id", s.ID, "err", err)
		question = fallbackQuestion
	}
	s.append(model.SenderInterviewer, question)
	s.touch()

	result.NextQuestion = question
	return result, nil
}

// complete runs the terminal transition: summary, scoring, peer benchmark,
// badges, and the single interview insert. AI failures fall back to defaults;
// only the insert failure surfaces, leaving the session in complete with no
// interview id so the client can retry nothing but sees the error.
func (o *Orchestrator) complete(ctx context.Context, s *Session) (*model.Interview, error) {
	s.Stage = StageComplete
	s.touch()

	summary, err := o.ai.Summarize(ctx, s.Transcript)
	if err != nil {
		o.logger.Sugar().Warnw("summary failed, using default", "session_id", s.ID, "err", err)
		summary = fallbackSummary
	}

	benchmark := o.peerBenchmark(ctx, s)

	iv := &model.Interview{
		CandidateID:      s.CandidateID,
		CandidateName:    s.CandidateName,
		JobTitle:         s.JobRole,
		Skills:           s.Skills,
		Transcript:       s.Transcript,
		Summary:          summary,
		OverallScore:     OverallScore(s.Transcript),
		ConfidenceScores: s.ConfidenceScores,
		PeerBenchmark:    benchmark,
	}
	iv.Badges = AssignBadges(iv.OverallScore, s.Transcript, s.ConfidenceScores)

	id, err := o.recorder.CreateInterview(ctx, iv)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	iv.ID = id
	s.InterviewID = id
	s.touch()
	return iv, nil
}

func (o *Orchestrator) peerBenchmark(ctx context.Context, s *Session) []model.PeerBenchmark {
	past, err := o.history.SkillsByJobTitle(ctx, s.JobRole)
	if err != nil {
		o.logger.Sugar().Warnw("peer benchmark lookup failed, using defaults", "session_id", s.ID, "err", err)
		past = nil
	}
	return ComputePeerBenchmark(s.Skills, past, o.defaultPeerAverage)
}

// OverallScore is the rounded mean of the feedback scores over candidate
// messages; candidate messages without feedback contribute 0. Returns 0 for
// an empty transcript.
func OverallScore(transcript []model.Message) int {
	sum, count := 0, 0
	for _, m := range transcript {
		if m.Sender != model.SenderCandidate {
			continue
		}
		count++
		if m.Feedback != nil {
			sum += m.Feedback.Score
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

func priorContext(transcript []model.Message) string {
	var b strings.Builder
	for i, m := range transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(m.Sender))
		b.WriteString(": ")
		b.WriteString(m.Text)
	}
	return b.String()
}
