// internal/workers/assessment/save-assessment-response/models.go
package saveassessmentresponse

import "recruitment-workers/internal/scoring/rubric"

type Input struct {
	AssessmentID string `json:"assessmentId"`
	CriterionID  string `json:"criterionId"`
	Score        *int   `json:"score,omitempty"`
	Notes        string `json:"notes"`
	RedFlags     string `json:"redFlags"`
}

type Output struct {
	AssessmentID       string               `json:"assessmentId"`
	PillarScores       []rubric.PillarScore `json:"pillarScores"`
	Overall            float64              `json:"overallPercentage"`
	AggregateScore     float64              `json:"aggregateScore"`
	HasCriticalFailure bool                 `json:"hasCriticalFailure"`
	OnboardRecommended bool                 `json:"onboardRecommended"`
}
