// internal/workers/assessment/schedule-interview/handler_test.go
package scheduleinterview

import (
	"context"
	"errors"
	"testing"
	"time"

	"recruitment-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

type fakeCreator struct {
	id            string
	err           error
	candidateID   string
	interviewDate time.Time
	calls         int
}

func (f *fakeCreator) CreateAssessment(_ context.Context, candidateID string, interviewDate time.Time) (string, error) {
	f.calls++
	f.candidateID = candidateID
	f.interviewDate = interviewDate
	return f.id, f.err
}

func TestHandler_Execute_CreatesDraft(t *testing.T) {
	creator := &fakeCreator{id: "assess-001"}
	handler := NewHandler(LoadConfig(), creator, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		CandidateID:   "cand-001",
		InterviewDate: "2025-06-20",
	})

	assert.NoError(t, err)
	assert.Equal(t, "assess-001", output.AssessmentID)
	assert.Equal(t, "draft", output.Status)
	assert.Equal(t, 1, creator.calls)
	assert.Equal(t, "cand-001", creator.candidateID)
	assert.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), creator.interviewDate)
}

func TestHandler_Execute_InvalidDate(t *testing.T) {
	creator := &fakeCreator{id: "assess-001"}
	handler := NewHandler(LoadConfig(), creator, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		CandidateID:   "cand-001",
		InterviewDate: "20/06/2025",
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInterviewDate))
	assert.Nil(t, output)
	assert.Equal(t, 0, creator.calls)
}

func TestHandler_Execute_StoreError(t *testing.T) {
	creator := &fakeCreator{err: errors.New("insert failed")}
	handler := NewHandler(LoadConfig(), creator, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		CandidateID:   "cand-001",
		InterviewDate: "2025-06-20",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
}
