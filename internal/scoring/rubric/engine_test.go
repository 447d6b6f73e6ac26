// internal/scoring/rubric/engine_test.go
package rubric

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRubric is a two-pillar vetting rubric: childcare (60%) and household
// management (40%). One critical criterion per pillar.
func testRubric() []Pillar {
	return []Pillar{
		{
			ID: "childcare", Name: "Childcare", Weight: 0.6,
			Criteria: []Criterion{
				{ID: "cc-safety", PillarID: "childcare", Weight: 2.0, Critical: true},
				{ID: "cc-routine", PillarID: "childcare", Weight: 1.0},
				{ID: "cc-firstaid", PillarID: "childcare", Weight: 1.0},
			},
		},
		{
			ID: "household", Name: "Household Management", Weight: 0.4,
			Criteria: []Criterion{
				{ID: "hm-hygiene", PillarID: "household", Weight: 1.0, Critical: true},
				{ID: "hm-cooking", PillarID: "household", Weight: 1.0},
			},
		},
	}
}

func answerAll(score int) map[string]Response {
	responses := make(map[string]Response)
	for _, p := range testRubric() {
		for _, c := range p.Criteria {
			responses[c.ID] = Response{CriterionID: c.ID, Score: IntPtr(score)}
		}
	}
	return responses
}

func TestCompute_AllTopScores(t *testing.T) {
	s := Compute(testRubric(), answerAll(5))

	assert.InDelta(t, 100, s.Overall, 1e-9)
	assert.InDelta(t, 5, s.AggregateScore, 1e-9)
	assert.False(t, s.HasCriticalFailure)
	assert.True(t, s.OnboardRecommended)
	for _, ps := range s.PillarScores {
		assert.InDelta(t, 100, ps.Score, 1e-9)
		assert.Equal(t, CategoryAdvanced, ps.Category)
	}
}

func TestCompute_WeightedPillarAverage(t *testing.T) {
	// Childcare: safety=5 (w2), routine=3 (w1), firstaid=1 (w1).
	// weighted_sum = 2.0 + 0.6 + 0.2 = 2.8, total_weight = 4 -> 70%.
	responses := map[string]Response{
		"cc-safety":   {CriterionID: "cc-safety", Score: IntPtr(5)},
		"cc-routine":  {CriterionID: "cc-routine", Score: IntPtr(3)},
		"cc-firstaid": {CriterionID: "cc-firstaid", Score: IntPtr(1)},
		"hm-hygiene":  {CriterionID: "hm-hygiene", Score: IntPtr(5)},
		"hm-cooking":  {CriterionID: "hm-cooking", Score: IntPtr(5)},
	}

	s := Compute(testRubric(), responses)

	require.Len(t, s.PillarScores, 2)
	assert.InDelta(t, 70, s.PillarScores[0].Score, 1e-9)
	assert.InDelta(t, 100, s.PillarScores[1].Score, 1e-9)
	// overall = 0.70*0.6 + 1.00*0.4 = 0.82
	assert.InDelta(t, 82, s.Overall, 1e-9)
	assert.InDelta(t, 4.1, s.AggregateScore, 1e-9)
	assert.True(t, s.OnboardRecommended)
}

func TestCompute_PartialAnswersExcludedFromDenominator(t *testing.T) {
	// One answered criterion at score 5 yields a 100% pillar, not 33%:
	// unanswered criteria are excluded from both sides of the average.
	responses := map[string]Response{
		"cc-routine": {CriterionID: "cc-routine", Score: IntPtr(5)},
	}

	s := Compute(testRubric(), responses)

	assert.InDelta(t, 100, s.PillarScores[0].Score, 1e-9)
	assert.Equal(t, 1, s.PillarScores[0].Answered)
	assert.Equal(t, 3, s.PillarScores[0].Total)
	// Household has no answers at all: scores 0 by the total_weight guard.
	assert.InDelta(t, 0, s.PillarScores[1].Score, 1e-9)
	assert.Equal(t, CategoryBasic, s.PillarScores[1].Category)
}

func TestCompute_NilScoreTreatedAsUnanswered(t *testing.T) {
	responses := map[string]Response{
		"cc-routine": {CriterionID: "cc-routine", Score: nil, Notes: "to revisit"},
		"cc-safety":  {CriterionID: "cc-safety", Score: IntPtr(4)},
	}

	s := Compute(testRubric(), responses)
	assert.Equal(t, 1, s.PillarScores[0].Answered)
	assert.InDelta(t, 80, s.PillarScores[0].Score, 1e-9)
}

func TestCompute_CriticalFailureOverridesHighOverall(t *testing.T) {
	// Everything at 5 except one critical criterion at 1: the overall stays
	// high but the recommendation must flip to false.
	responses := answerAll(5)
	responses["hm-hygiene"] = Response{CriterionID: "hm-hygiene", Score: IntPtr(1), RedFlags: "refused hygiene protocol"}

	s := Compute(testRubric(), responses)

	assert.Greater(t, s.Overall, 70.0)
	assert.True(t, s.HasCriticalFailure)
	assert.False(t, s.OnboardRecommended)
}

func TestCompute_CriticalAtTwoTrips(t *testing.T) {
	responses := answerAll(5)
	responses["cc-safety"] = Response{CriterionID: "cc-safety", Score: IntPtr(2)}

	s := Compute(testRubric(), responses)
	assert.True(t, s.HasCriticalFailure)
}

func TestCompute_CriticalAtThreeDoesNotTrip(t *testing.T) {
	responses := answerAll(5)
	responses["cc-safety"] = Response{CriterionID: "cc-safety", Score: IntPtr(3)}

	s := Compute(testRubric(), responses)
	assert.False(t, s.HasCriticalFailure)
}

func TestCompute_NonCriticalLowScoreDoesNotTrip(t *testing.T) {
	responses := answerAll(5)
	responses["cc-routine"] = Response{CriterionID: "cc-routine", Score: IntPtr(1)}

	s := Compute(testRubric(), responses)
	assert.False(t, s.HasCriticalFailure)
}

func TestCompute_OnboardThreshold(t *testing.T) {
	// All threes: every pillar 60%, overall 60 -> below the 70 threshold.
	s := Compute(testRubric(), answerAll(3))
	assert.InDelta(t, 60, s.Overall, 1e-9)
	assert.False(t, s.OnboardRecommended)

	// All fours: 80 overall -> recommended.
	s = Compute(testRubric(), answerAll(4))
	assert.InDelta(t, 80, s.Overall, 1e-9)
	assert.True(t, s.OnboardRecommended)
}

func TestCategoryFor(t *testing.T) {
	assert.Equal(t, CategoryAdvanced, CategoryFor(80))
	assert.Equal(t, CategoryIntermediate, CategoryFor(79.9))
	assert.Equal(t, CategoryIntermediate, CategoryFor(60))
	assert.Equal(t, CategoryBasic, CategoryFor(59.9))
	assert.Equal(t, CategoryBasic, CategoryFor(0))
}

func TestValidateComplete(t *testing.T) {
	assert.NoError(t, ValidateComplete(testRubric(), answerAll(4)))

	partial := answerAll(4)
	delete(partial, "hm-cooking")
	err := ValidateComplete(testRubric(), partial)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteAssessment))
	assert.Contains(t, err.Error(), "1 unanswered")
}

func TestCompleteAssessment(t *testing.T) {
	a := &Assessment{
		ID:            "asm-1",
		CandidateID:   "cand-1",
		InterviewDate: time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC),
		Status:        StatusDraft,
		Responses:     answerAll(4),
	}

	require.NoError(t, CompleteAssessment(a, testRubric()))
	assert.Equal(t, StatusCompleted, a.Status)
	assert.InDelta(t, 80, a.Summary.Overall, 1e-9)
	assert.InDelta(t, 4, a.Summary.AggregateScore, 1e-9)
	assert.True(t, a.Summary.OnboardRecommended)
}

func TestCompleteAssessment_GateLeavesStatusUntouched(t *testing.T) {
	responses := answerAll(4)
	responses["cc-firstaid"] = Response{CriterionID: "cc-firstaid", Score: nil}

	a := &Assessment{ID: "asm-2", Status: StatusDraft, Responses: responses}
	err := CompleteAssessment(a, testRubric())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteAssessment))
	assert.Equal(t, StatusDraft, a.Status)
}

func TestCompleteAssessment_RejectsNonDraft(t *testing.T) {
	a := &Assessment{ID: "asm-3", Status: StatusCompleted, Responses: answerAll(5)}
	err := CompleteAssessment(a, testRubric())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrIncompleteAssessment))
}
