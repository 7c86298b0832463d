package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arjunmehta/mockview/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateInterview inserts one completed interview row and returns the
// generated id. Rows are never updated after this insert.
func (r *Repository) CreateInterview(ctx context.Context, iv *model.Interview) (string, error) {
	id := uuid.New().String()
	const q = `
INSERT INTO interviews (
	id, candidate_id, candidate_name, job_title, skills, transcript,
	summary, overall_score, confidence_scores, badges, peer_benchmark, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
`
	_, err := r.db.Exec(ctx, q,
		id, iv.CandidateID, iv.CandidateName, iv.JobTitle, iv.Skills, iv.Transcript,
		iv.Summary, iv.OverallScore, iv.ConfidenceScores, iv.Badges, iv.PeerBenchmark,
	)
	if err != nil {
		return "", fmt.Errorf("insert interview: %w", err)
	}
	return id, nil
}

// GetInterview returns one interview row. Access control is enforced here: a
// row is only readable by its owning candidate or a requester holding the HR
// role; anyone else gets ErrForbidden.
func (r *Repository) GetInterview(ctx context.Context, id, requesterID string, requesterIsHR bool) (*model.Interview, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid interview id: %w", ErrNotFound)
	}

	const q = `
SELECT id, candidate_id, candidate_name, job_title, skills, transcript,
	summary, overall_score, confidence_scores, badges, peer_benchmark, created_at
FROM interviews WHERE id = $1
`
	var iv model.Interview
	row := r.db.QueryRow(ctx, q, id)
	err := row.Scan(
		&iv.ID, &iv.CandidateID, &iv.CandidateName, &iv.JobTitle, &iv.Skills, &iv.Transcript,
		&iv.Summary, &iv.OverallScore, &iv.ConfidenceScores, &iv.Badges, &iv.PeerBenchmark, &iv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("interview not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan interview: %w", err)
	}

	if !requesterIsHR && iv.CandidateID != requesterID {
		return nil, ErrForbidden
	}
	return &iv, nil
}

// ListInterviews returns interviews ordered by creation time descending,
// optionally filtered to one candidate.
func (r *Repository) ListInterviews(ctx context.Context, candidateID string, limit, offset int) ([]model.InterviewListItem, int, error) {
	var total int
	countQ := `SELECT COUNT(1) FROM interviews`
	countArgs := []interface{}{}
	if candidateID != "" {
		countQ += ` WHERE candidate_id = $1`
		countArgs = append(countArgs, candidateID)
	}
	if err := r.db.QueryRow(ctx, countQ, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count interviews: %w", err)
	}

	q := `
SELECT id, candidate_id, candidate_name, job_title, overall_score, badges, created_at
FROM interviews
`
	args := []interface{}{}
	if candidateID != "" {
		q += ` WHERE candidate_id = $1`
		args = append(args, candidateID)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query interviews: %w", err)
	}
	defer rows.Close()

	out := make([]model.InterviewListItem, 0, limit)
	for rows.Next() {
		var item model.InterviewListItem
		if err := rows.Scan(&item.ID, &item.CandidateID, &item.CandidateName, &item.JobTitle,
			&item.OverallScore, &item.Badges, &item.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan interview row: %w", err)
		}
		out = append(out, item)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

// SkillsByJobTitle returns the skill lists of all historical interviews for a
// job title. Used to compute peer benchmarks at session completion.
func (r *Repository) SkillsByJobTitle(ctx context.Context, jobTitle string) ([][]model.Skill, error) {
	const q = `SELECT skills FROM interviews WHERE job_title = $1`
	rows, err := r.db.Query(ctx, q, jobTitle)
	if err != nil {
		return nil, fmt.Errorf("query skills by job title: %w", err)
	}
	defer rows.Close()

	var out [][]model.Skill
	for rows.Next() {
		var skills []model.Skill
		if err := rows.Scan(&skills); err != nil {
			return nil, fmt.Errorf("scan skills: %w", err)
		}
		if len(skills) > 0 {
			out = append(out, skills)
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

// SkillHistory builds the per-skill level series across a candidate's
// interviews, oldest first.
func (r *Repository) SkillHistory(ctx context.Context, candidateID string) ([]model.SkillHistory, error) {
	const q = `
SELECT created_at, skills FROM interviews
WHERE candidate_id = $1
ORDER BY created_at ASC
`
	rows, err := r.db.Query(ctx, q, candidateID)
	if err != nil {
		return nil, fmt.Errorf("query skill history: %w", err)
	}
	defer rows.Close()

	series := map[string][]model.SkillPoint{}
	var order []string
	for rows.Next() {
		var createdAt time.Time
		var skills []model.Skill
		if err := rows.Scan(&createdAt, &skills); err != nil {
			return nil, fmt.Errorf("scan skill history: %w", err)
		}
		for _, s := range skills {
			if _, ok := series[s.Skill]; !ok {
				order = append(order, s.Skill)
			}
			series[s.Skill] = append(series[s.Skill], model.SkillPoint{
				Date:  createdAt.Format("2006-01-02"),
				Score: s.Level,
			})
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	out := make([]model.SkillHistory, 0, len(order))
	for _, skill := range order {
		out = append(out, model.SkillHistory{Skill: skill, Scores: series[skill]})
	}
	return out, nil
}

// InterviewStats returns the HR dashboard aggregates.
func (r *Repository) InterviewStats(ctx context.Context) (*model.InterviewStats, error) {
	var stats model.InterviewStats
	const q = `
SELECT COUNT(1),
	COALESCE(ROUND(AVG(overall_score)), 0),
	COUNT(DISTINCT candidate_id)
FROM interviews
`
	if err := r.db.QueryRow(ctx, q).Scan(&stats.Total, &stats.AverageScore, &stats.TotalCandidates); err != nil {
		return nil, fmt.Errorf("interview stats: %w", err)
	}

	const topQ = `
SELECT job_title, COUNT(1) AS n
FROM interviews
GROUP BY job_title
ORDER BY n DESC, job_title ASC
LIMIT 5
`
	rows, err := r.db.Query(ctx, topQ)
	if err != nil {
		return nil, fmt.Errorf("top job titles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var jc model.JobTitleCount
		if err := rows.Scan(&jc.JobTitle, &jc.Count); err != nil {
			return nil, fmt.Errorf("scan job title count: %w", err)
		}
		stats.TopJobTitles = append(stats.TopJobTitles, jc)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return &stats, nil
}
