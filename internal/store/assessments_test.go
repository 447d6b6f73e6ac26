// internal/store/assessments_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/scoring/rubric"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestAssessmentStore_LoadRubric_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, weight\s+FROM pillars`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "weight"}).
			AddRow("cc", "Childcare Competence", 0.6).
			AddRow("hm", "Household Management", 0.4))

	mock.ExpectQuery(`SELECT id, pillar_id, weight, critical, question\s+FROM criteria`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pillar_id", "weight", "critical", "question"}).
			AddRow("cc-safety", "cc", 2.0, true, "How do you keep a child safe at home?").
			AddRow("cc-routine", "cc", 1.0, false, "Describe a daily routine for a toddler.").
			AddRow("hm-hygiene", "hm", 1.0, true, "How do you keep a kitchen hygienic?"))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	pillars, err := store.LoadRubric(context.Background())

	assert.NoError(t, err)
	assert.Len(t, pillars, 2)
	assert.Equal(t, "cc", pillars[0].ID)
	assert.Len(t, pillars[0].Criteria, 2)
	assert.True(t, pillars[0].Criteria[0].Critical)
	assert.Len(t, pillars[1].Criteria, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_LoadRubric_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM pillars`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "weight"}))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	pillars, err := store.LoadRubric(context.Background())

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrRubricEmpty))
	assert.Nil(t, pillars)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_CreateAssessment(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	interview := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO assessments`).
		WithArgs(
			sqlmock.AnyArg(), // assessment ID (UUID)
			"cand-001",
			interview,
			"draft",
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	id, err := store.CreateAssessment(context.Background(), "cand-001", interview)

	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_GetAssessment_WithResponses(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	interview := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, candidate_id, interview_date, status\s+FROM assessments`).
		WithArgs("assess-001").
		WillReturnRows(sqlmock.NewRows([]string{"id", "candidate_id", "interview_date", "status"}).
			AddRow("assess-001", "cand-001", interview, "draft"))

	mock.ExpectQuery(`FROM responses`).
		WithArgs("assess-001").
		WillReturnRows(sqlmock.NewRows([]string{"criterion_id", "score", "notes", "red_flags"}).
			AddRow("cc-safety", 4, "solid answer", "").
			AddRow("cc-routine", nil, "", ""))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	a, err := store.GetAssessment(context.Background(), "assess-001")

	assert.NoError(t, err)
	assert.Equal(t, rubric.StatusDraft, a.Status)
	assert.Len(t, a.Responses, 2)
	assert.NotNil(t, a.Responses["cc-safety"].Score)
	assert.Equal(t, 4, *a.Responses["cc-safety"].Score)
	assert.Nil(t, a.Responses["cc-routine"].Score)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_GetAssessment_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM assessments`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	a, err := store.GetAssessment(context.Background(), "missing")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrAssessmentNotFound))
	assert.Nil(t, a)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_SaveResponse_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO responses`).
		WithArgs(
			"assess-001",
			"cc-safety",
			sqlmock.AnyArg(), // nullable score
			"answered with specifics",
			"",
			sqlmock.AnyArg(), // updated_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	err = store.SaveResponse(context.Background(), "assess-001", rubric.Response{
		CriterionID: "cc-safety",
		Score:       rubric.IntPtr(4),
		Notes:       "answered with specifics",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_SaveResponse_NilScore(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO responses`).
		WithArgs("assess-001", "cc-routine", nil, "notes only", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	err = store.SaveResponse(context.Background(), "assess-001", rubric.Response{
		CriterionID: "cc-routine",
		Notes:       "notes only",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_SaveResponse_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO responses`).
		WillReturnError(errors.New("deadlock detected"))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	err = store.SaveResponse(context.Background(), "assess-001", rubric.Response{
		CriterionID: "cc-safety",
		Score:       rubric.IntPtr(3),
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrResponseSave))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_UpdateSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE assessments`).
		WithArgs("assess-001", 82.0, 4.1, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	err = store.UpdateSummary(context.Background(), "assess-001", rubric.Summary{
		Overall:            82.0,
		AggregateScore:     4.1,
		OnboardRecommended: true,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_Complete_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE assessments`).
		WithArgs("assess-001", "completed", sqlmock.AnyArg(), "draft").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	err = store.Complete(context.Background(), "assess-001")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentStore_Complete_NotDraft(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	// Row exists but is already completed, so the guarded update matches nothing
	mock.ExpectExec(`UPDATE assessments`).
		WithArgs("assess-001", "completed", sqlmock.AnyArg(), "draft").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewAssessmentStore(db, logger.NewNoOpLogger())
	err = store.Complete(context.Background(), "assess-001")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrAssessmentNotDraft))

	assert.NoError(t, mock.ExpectationsWereMet())
}
