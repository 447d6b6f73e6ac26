// internal/store/candidates.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruitment-workers/internal/common/logger"

	"github.com/google/uuid"
)

var (
	ErrDuplicatePhone      = errors.New("DUPLICATE_CANDIDATE")
	ErrCandidateNotFound   = errors.New("CANDIDATE_NOT_FOUND")
	ErrCandidateInsert     = errors.New("CANDIDATE_INSERT_FAILED")
	ErrCandidateUpdateFail = errors.New("CANDIDATE_UPDATE_FAILED")
)

// Candidate is the persisted pipeline record. Status and LostReason carry the
// eligibility verdict; the transient scoring input itself is never stored.
type Candidate struct {
	ID         string
	FullName   string
	Phone      string
	Email      string
	Role       string
	Status     string
	FitScore   int
	LostReason string
	Qualified  bool
}

type CandidateStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewCandidateStore(db *sql.DB, log logger.Logger) *CandidateStore {
	return &CandidateStore{db: db, logger: log}
}

// PhoneExists reports whether a candidate already submitted with this phone
// number. Applications are deduplicated by phone upstream of scoring.
func (s *CandidateStore) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM candidates
			WHERE phone = $1
		)`, phone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: duplicate check failed: %v", ErrCandidateInsert, err)
	}
	return exists, nil
}

// Create inserts a new candidate with its eligibility verdict and writes an
// audit-log row. The audit insert is non-critical: a failure is logged, not
// returned.
func (s *CandidateStore) Create(ctx context.Context, c Candidate) (string, error) {
	exists, err := s.PhoneExists(ctx, c.Phone)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: candidate already exists for phone %s", ErrDuplicatePhone, c.Phone)
	}

	id := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO candidates (
			id, full_name, phone, email, role,
			status, fit_score, lost_reason, qualified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		id,
		c.FullName,
		c.Phone,
		c.Email,
		c.Role,
		c.Status,
		c.FitScore,
		c.LostReason,
		c.Qualified,
		createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("%w: insert failed: %v", ErrCandidateInsert, err)
	}

	detailsJSON, err := json.Marshal(map[string]interface{}{
		"phone":    c.Phone,
		"role":     c.Role,
		"status":   c.Status,
		"fitScore": c.FitScore,
	})
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"candidate_created",
		"candidate",
		id,
		detailsJSON,
		createdAt,
	)
	if err != nil {
		s.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":       err,
			"candidateId": id,
		})
	}

	return id, nil
}

// UpdateStatus moves a candidate to a new routing status.
func (s *CandidateStore) UpdateStatus(ctx context.Context, id, status, lostReason string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE candidates
		SET status = $2, lost_reason = $3, updated_at = $4
		WHERE id = $1`,
		id, status, lostReason, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCandidateUpdateFail, err)
	}

	rows, err := res.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
	}
	return nil
}

// Get fetches one candidate by id.
func (s *CandidateStore) Get(ctx context.Context, id string) (*Candidate, error) {
	var c Candidate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, phone, email, role, status, fit_score, lost_reason, qualified
		FROM candidates
		WHERE id = $1`, id).Scan(
		&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Role,
		&c.Status, &c.FitScore, &c.LostReason, &c.Qualified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
