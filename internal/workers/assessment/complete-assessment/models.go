// internal/workers/assessment/complete-assessment/models.go
package completeassessment

import "recruitment-workers/internal/scoring/rubric"

type Input struct {
	AssessmentID string `json:"assessmentId"`
}

type Output struct {
	AssessmentID       string               `json:"assessmentId"`
	Status             string               `json:"assessmentStatus"`
	PillarScores       []rubric.PillarScore `json:"pillarScores"`
	Overall            float64              `json:"overallPercentage"`
	AggregateScore     float64              `json:"aggregateScore"`
	HasCriticalFailure bool                 `json:"hasCriticalFailure"`
	OnboardRecommended bool                 `json:"onboardRecommended"`
	CompletedAt        string               `json:"completedAt"`
}
