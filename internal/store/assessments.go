// internal/store/assessments.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/scoring/rubric"

	"github.com/google/uuid"
)

var (
	ErrAssessmentNotFound = errors.New("ASSESSMENT_NOT_FOUND")
	ErrAssessmentNotDraft = errors.New("ASSESSMENT_NOT_DRAFT")
	ErrRubricEmpty        = errors.New("RUBRIC_NOT_FOUND")
	ErrResponseSave       = errors.New("RESPONSE_SAVE_FAILED")
)

type AssessmentStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewAssessmentStore(db *sql.DB, log logger.Logger) *AssessmentStore {
	return &AssessmentStore{db: db, logger: log}
}

// LoadRubric reads the pillar and criterion configuration rows. The rubric is
// data, not code: the aggregation is agnostic to its content.
func (s *AssessmentStore) LoadRubric(ctx context.Context) ([]rubric.Pillar, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, weight
		FROM pillars
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load pillars: %w", err)
	}
	defer rows.Close()

	var pillars []rubric.Pillar
	index := make(map[string]int)
	for rows.Next() {
		var p rubric.Pillar
		if err := rows.Scan(&p.ID, &p.Name, &p.Weight); err != nil {
			return nil, fmt.Errorf("scan pillar: %w", err)
		}
		index[p.ID] = len(pillars)
		pillars = append(pillars, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(pillars) == 0 {
		return nil, ErrRubricEmpty
	}

	crows, err := s.db.QueryContext(ctx, `
		SELECT id, pillar_id, weight, critical, question
		FROM criteria
		ORDER BY pillar_id, position`)
	if err != nil {
		return nil, fmt.Errorf("load criteria: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var c rubric.Criterion
		if err := crows.Scan(&c.ID, &c.PillarID, &c.Weight, &c.Critical, &c.Question); err != nil {
			return nil, fmt.Errorf("scan criterion: %w", err)
		}
		if i, ok := index[c.PillarID]; ok {
			pillars[i].Criteria = append(pillars[i].Criteria, c)
		}
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	return pillars, nil
}

// CreateAssessment opens a new draft for a candidate.
func (s *AssessmentStore) CreateAssessment(ctx context.Context, candidateID string, interviewDate time.Time) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assessments (id, candidate_id, interview_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		id, candidateID, interviewDate, string(rubric.StatusDraft), now,
	)
	if err != nil {
		return "", fmt.Errorf("create assessment: %w", err)
	}
	return id, nil
}

// GetAssessment fetches the assessment row together with its responses.
func (s *AssessmentStore) GetAssessment(ctx context.Context, id string) (*rubric.Assessment, error) {
	var a rubric.Assessment
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, candidate_id, interview_date, status
		FROM assessments
		WHERE id = $1`, id).Scan(&a.ID, &a.CandidateID, &a.InterviewDate, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	a.Status = rubric.Status(status)

	a.Responses, err = s.LoadResponses(ctx, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveResponse upserts one interviewer answer. Concurrent edits to the same
// criterion are last-writer-wins; updated_at is stamped on every write so a
// version check could be added at this boundary later.
func (s *AssessmentStore) SaveResponse(ctx context.Context, assessmentID string, r rubric.Response) error {
	var score sql.NullInt64
	if r.Score != nil {
		score = sql.NullInt64{Int64: int64(*r.Score), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO responses (assessment_id, criterion_id, score, notes, red_flags, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (assessment_id, criterion_id)
		DO UPDATE SET score = $3, notes = $4, red_flags = $5, updated_at = $6`,
		assessmentID, r.CriterionID, score, r.Notes, r.RedFlags,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResponseSave, err)
	}
	return nil
}

// LoadResponses returns the responses keyed by criterion id.
func (s *AssessmentStore) LoadResponses(ctx context.Context, assessmentID string) (map[string]rubric.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT criterion_id, score, notes, red_flags
		FROM responses
		WHERE assessment_id = $1`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	defer rows.Close()

	responses := make(map[string]rubric.Response)
	for rows.Next() {
		var r rubric.Response
		var score sql.NullInt64
		if err := rows.Scan(&r.CriterionID, &score, &r.Notes, &r.RedFlags); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if score.Valid {
			v := int(score.Int64)
			r.Score = &v
		}
		responses[r.CriterionID] = r
	}
	return responses, rows.Err()
}

// UpdateSummary persists the recomputed derived fields after a response edit.
func (s *AssessmentStore) UpdateSummary(ctx context.Context, assessmentID string, sum rubric.Summary) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE assessments
		SET overall_percentage = $2,
		    aggregate_score = $3,
		    onboard_recommendation = $4,
		    updated_at = $5
		WHERE id = $1`,
		assessmentID, sum.Overall, sum.AggregateScore, sum.OnboardRecommended,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: update summary: %v", ErrResponseSave, err)
	}
	return nil
}

// Complete transitions a draft to completed. The completion gate itself lives
// in the rubric engine; this only flips rows that are still drafts so a
// terminal status can never be overwritten.
func (s *AssessmentStore) Complete(ctx context.Context, assessmentID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE assessments
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4`,
		assessmentID, string(rubric.StatusCompleted),
		time.Now().UTC().Format(time.RFC3339),
		string(rubric.StatusDraft),
	)
	if err != nil {
		return fmt.Errorf("complete assessment: %w", err)
	}

	rows, err := res.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("%w: %s", ErrAssessmentNotDraft, assessmentID)
	}
	return nil
}
