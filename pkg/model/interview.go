package model

import "time"

// Skill is one entry extracted from a resume. Level is a 0-100 proficiency.
// JSON field names follow the stored interview row format.
type Skill struct {
	Skill         string `json:"skill"`
	Level         int    `json:"level"`
	Justification string `json:"justification"`
}

type MessageSender string

const (
	SenderCandidate   MessageSender = "candidate"
	SenderInterviewer MessageSender = "interviewer"
)

// Feedback is the per-answer evaluation attached to a candidate message.
type Feedback struct {
	Feedback   string `json:"feedback"`
	Score      int    `json:"score"`
	Confidence int    `json:"confidence"`
}

// Message is one transcript entry. Feedback is only ever set on candidate
// messages.
type Message struct {
	Sender    MessageSender `json:"sender"`
	Text      string        `json:"text"`
	Timestamp string        `json:"timestamp"` // ISO-8601
	Feedback  *Feedback     `json:"feedback,omitempty"`
}

// PeerBenchmark compares one skill level against the historical average for
// the same job title.
type PeerBenchmark struct {
	Skill       string `json:"skill"`
	Level       int    `json:"level"`
	PeerAverage int    `json:"peerAverage"`
}

// Interview is one completed interview row. Inserted exactly once at session
// completion and never mutated afterwards.
type Interview struct {
	ID               string          `json:"id" db:"id"`
	CandidateID      string          `json:"candidate_id" db:"candidate_id"`
	CandidateName    string          `json:"candidate_name" db:"candidate_name"`
	JobTitle         string          `json:"job_title" db:"job_title"`
	Skills           []Skill         `json:"skills" db:"skills"`
	Transcript       []Message       `json:"transcript" db:"transcript"`
	Summary          string          `json:"summary" db:"summary"`
	OverallScore     int             `json:"overall_score" db:"overall_score"`
	ConfidenceScores []int           `json:"confidence_scores" db:"confidence_scores"`
	Badges           []string        `json:"badges" db:"badges"`
	PeerBenchmark    []PeerBenchmark `json:"peer_benchmark" db:"peer_benchmark"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// InterviewListItem is the trimmed shape returned by list endpoints; the full
// transcript is only loaded for single reports.
type InterviewListItem struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	JobTitle      string    `json:"job_title"`
	OverallScore  int       `json:"overall_score"`
	Badges        []string  `json:"badges"`
	CreatedAt     time.Time `json:"created_at"`
}

type ListInterviewsQuery struct {
	CandidateID string `form:"candidate_id"`
	Page        int    `form:"page,default=1" binding:"min=1"`
	PageSize    int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

// SkillPoint is one historical observation of a skill level.
type SkillPoint struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// SkillHistory is the per-skill time series shown on the candidate dashboard.
type SkillHistory struct {
	Skill  string       `json:"skill"`
	Scores []SkillPoint `json:"scores"`
}

type JobTitleCount struct {
	JobTitle string `json:"job_title"`
	Count    int    `json:"count"`
}

// InterviewStats are the HR dashboard aggregates.
type InterviewStats struct {
	Total           int             `json:"total"`
	AverageScore    int             `json:"average_score"`
	TopJobTitles    []JobTitleCount `json:"top_job_titles"`
	TotalCandidates int             `json:"total_candidates"`
}
