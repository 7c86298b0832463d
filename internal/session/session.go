package session

import (
	"time"

	"github.com/arjunmehta/mockview/pkg/model"
	"github.com/google/uuid"
)

// Stage is one state in the interview session's forward-only state machine.
// The only backward transition is analyzing -> setup on extraction failure.
type Stage string

const (
	StageSetup     Stage = "setup"
	StageAnalyzing Stage = "analyzing"
	StageReview    Stage = "review"
	StageInterview Stage = "interview"
	StageComplete  Stage = "complete"
)

// Session is the transient state of one interview run. It lives in the
// session store until completion or expiry and is never written to the
// interviews table; only the final Interview row is persisted.
type Session struct {
	ID               string          `json:"id"`
	CandidateID      string          `json:"candidate_id"`
	CandidateName    string          `json:"candidate_name"`
	Stage            Stage           `json:"stage"`
	ResumeText       string          `json:"resume_text"`
	JobRole          string          `json:"job_role"`
	Skills           []model.Skill   `json:"skills,omitempty"`
	Transcript       []model.Message `json:"transcript,omitempty"`
	ConfidenceScores []int           `json:"confidence_scores,omitempty"`
	SpeechDisabled   bool            `json:"speech_disabled"`
	InterviewID      string          `json:"interview_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func New(candidateID, candidateName string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:            uuid.New().String(),
		CandidateID:   candidateID,
		CandidateName: candidateName,
		Stage:         StageSetup,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CandidateAnswers counts the candidate messages in the transcript. One per
// completed round.
func (s *Session) CandidateAnswers() int {
	n := 0
	for _, m := range s.Transcript {
		if m.Sender == model.SenderCandidate {
			n++
		}
	}
	return n
}

// LastQuestion returns the text of the most recent interviewer message.
func (s *Session) LastQuestion() string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Sender == model.SenderInterviewer {
			return s.Transcript[i].Text
		}
	}
	return ""
}

func (s *Session) append(sender model.MessageSender, text string) *model.Message {
	s.Transcript = append(s.Transcript, model.Message{
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return &s.Transcript[len(s.Transcript)-1]
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
