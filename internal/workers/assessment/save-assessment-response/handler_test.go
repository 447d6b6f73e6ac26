// internal/workers/assessment/save-assessment-response/handler_test.go
package saveassessmentresponse

import (
	"context"
	"errors"
	"testing"

	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/scoring/rubric"

	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	saved        []rubric.Response
	saveErr      error
	pillars      []rubric.Pillar
	rubricErr    error
	rubricCalls  int
	responses    map[string]rubric.Response
	responsesErr error
	summary      *rubric.Summary
	summaryErr   error
}

func (f *fakeStore) SaveResponse(_ context.Context, _ string, r rubric.Response) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, r)
	if f.responses == nil {
		f.responses = make(map[string]rubric.Response)
	}
	f.responses[r.CriterionID] = r
	return nil
}

func (f *fakeStore) LoadRubric(_ context.Context) ([]rubric.Pillar, error) {
	f.rubricCalls++
	return f.pillars, f.rubricErr
}

func (f *fakeStore) LoadResponses(_ context.Context, _ string) (map[string]rubric.Response, error) {
	return f.responses, f.responsesErr
}

func (f *fakeStore) UpdateSummary(_ context.Context, _ string, s rubric.Summary) error {
	if f.summaryErr != nil {
		return f.summaryErr
	}
	f.summary = &s
	return nil
}

type fakeCache struct {
	pillars  []rubric.Pillar
	found    bool
	getErr   error
	setErr   error
	setCalls int
}

func (f *fakeCache) Get(_ context.Context) ([]rubric.Pillar, bool, error) {
	return f.pillars, f.found, f.getErr
}

func (f *fakeCache) Set(_ context.Context, pillars []rubric.Pillar) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls++
	f.pillars = pillars
	return nil
}

func testPillars() []rubric.Pillar {
	return []rubric.Pillar{
		{
			ID:     "cc",
			Name:   "Childcare Competence",
			Weight: 0.6,
			Criteria: []rubric.Criterion{
				{ID: "cc-safety", PillarID: "cc", Weight: 2, Critical: true},
				{ID: "cc-routine", PillarID: "cc", Weight: 1},
			},
		},
		{
			ID:     "hm",
			Name:   "Household Management",
			Weight: 0.4,
			Criteria: []rubric.Criterion{
				{ID: "hm-hygiene", PillarID: "hm", Weight: 1, Critical: true},
			},
		},
	}
}

func createTestInput() *Input {
	return &Input{
		AssessmentID: "assess-001",
		CriterionID:  "cc-safety",
		Score:        rubric.IntPtr(5),
		Notes:        "confident, specific examples",
	}
}

func seededResponses() map[string]rubric.Response {
	return map[string]rubric.Response{
		"cc-routine": {CriterionID: "cc-routine", Score: rubric.IntPtr(4)},
		"hm-hygiene": {CriterionID: "hm-hygiene", Score: rubric.IntPtr(4)},
	}
}

func TestHandler_Execute_SavesAndRecomputes(t *testing.T) {
	st := &fakeStore{pillars: testPillars(), responses: seededResponses()}
	handler := NewHandler(LoadConfig(), st, &fakeCache{}, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.Len(t, st.saved, 1)
	assert.Equal(t, "cc-safety", st.saved[0].CriterionID)

	// cc: (5/5*2 + 4/5*1)/3 = 93.33, hm: 80 -> overall 93.33*0.6 + 80*0.4 = 88
	assert.InDelta(t, 88.0, output.Overall, 0.01)
	assert.InDelta(t, 4.4, output.AggregateScore, 0.01)
	assert.False(t, output.HasCriticalFailure)
	assert.True(t, output.OnboardRecommended)

	// Summary was persisted
	assert.NotNil(t, st.summary)
	assert.InDelta(t, 88.0, st.summary.Overall, 0.01)
}

func TestHandler_Execute_CriticalFailurePropagates(t *testing.T) {
	st := &fakeStore{pillars: testPillars(), responses: seededResponses()}
	handler := NewHandler(LoadConfig(), st, &fakeCache{}, logger.NewNoOpLogger())

	input := createTestInput()
	input.Score = rubric.IntPtr(2)

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.True(t, output.HasCriticalFailure)
	assert.False(t, output.OnboardRecommended)
}

func TestHandler_Execute_SaveErrorFailsJob(t *testing.T) {
	st := &fakeStore{saveErr: errors.New("deadlock")}
	handler := NewHandler(LoadConfig(), st, &fakeCache{}, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.Error(t, err)
	assert.Nil(t, output)
}

func TestHandler_Execute_CacheHitSkipsDatabase(t *testing.T) {
	st := &fakeStore{}
	cache := &fakeCache{pillars: testPillars(), found: true}
	handler := NewHandler(LoadConfig(), st, cache, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, 0, st.rubricCalls)
}

func TestHandler_Execute_CacheMissFillsCache(t *testing.T) {
	st := &fakeStore{pillars: testPillars()}
	cache := &fakeCache{}
	handler := NewHandler(LoadConfig(), st, cache, logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.Equal(t, 1, st.rubricCalls)
	assert.Equal(t, 1, cache.setCalls)
}

func TestHandler_Execute_CacheErrorDegradesToDatabase(t *testing.T) {
	st := &fakeStore{pillars: testPillars()}
	cache := &fakeCache{getErr: errors.New("connection refused"), setErr: errors.New("connection refused")}
	handler := NewHandler(LoadConfig(), st, cache, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, 1, st.rubricCalls)
}

func TestHandler_Execute_SummaryPersistFailureIsNonFatal(t *testing.T) {
	st := &fakeStore{pillars: testPillars(), summaryErr: errors.New("timeout")}
	handler := NewHandler(LoadConfig(), st, &fakeCache{}, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.Equal(t, float64(100), output.Overall)
}

func TestHandler_Execute_NilScoreSavedAsUnanswered(t *testing.T) {
	st := &fakeStore{pillars: testPillars()}
	handler := NewHandler(LoadConfig(), st, &fakeCache{}, logger.NewNoOpLogger())

	input := createTestInput()
	input.Score = nil
	input.Notes = "candidate declined to answer"

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, float64(0), output.Overall)
	assert.False(t, output.OnboardRecommended)
}
