// internal/scoring/rubric/types.go
package rubric

import "time"

// Assessment lifecycle states. Locked exists in the schema but no transition
// in this service produces it.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusLocked    Status = "locked"
)

// Category labels derived from a pillar score, display only.
const (
	CategoryAdvanced     = "Advanced"
	CategoryIntermediate = "Intermediate"
	CategoryBasic        = "Basic"
)

// Criterion is one interview question within a pillar. Weight is relative to
// the other criteria of the same pillar; criteria weights need not sum to 1.
// Question and Guidance are display-only and never affect scoring.
type Criterion struct {
	ID       string            `json:"id"`
	PillarID string            `json:"pillarId"`
	Weight   float64           `json:"weight"`
	Critical bool              `json:"critical"`
	Question string            `json:"question"`
	Guidance map[string]string `json:"guidance,omitempty"`
}

// Pillar is a named assessment category. Pillar weights are expected to sum
// to 1.0 across the rubric; this is validated when the rubric is loaded, not
// at scoring time.
type Pillar struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Weight   float64     `json:"weight"`
	Criteria []Criterion `json:"criteria"`
}

// Response is one interviewer answer. A nil Score means unanswered; scores
// are on the 1-5 scale.
type Response struct {
	CriterionID string `json:"criterionId"`
	Score       *int   `json:"score"`
	Notes       string `json:"notes,omitempty"`
	RedFlags    string `json:"redFlags,omitempty"`
}

// PillarScore is the weighted result for one pillar.
type PillarScore struct {
	PillarID string  `json:"pillarId"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Category string  `json:"category"`
	Answered int     `json:"answered"`
	Total    int     `json:"total"`
}

// Summary is the derived assessment output persisted alongside the responses.
type Summary struct {
	PillarScores       []PillarScore `json:"pillarScores"`
	Overall            float64       `json:"overallPercentage"`
	AggregateScore     float64       `json:"aggregateScore"` // Overall / 20, a 0-5 display scale
	HasCriticalFailure bool          `json:"hasCriticalFailure"`
	OnboardRecommended bool          `json:"onboardRecommendation"`
}

// Assessment is one candidate's full rubric pass.
type Assessment struct {
	ID            string              `json:"id"`
	CandidateID   string              `json:"candidateId"`
	InterviewDate time.Time           `json:"interviewDate"`
	Status        Status              `json:"status"`
	Responses     map[string]Response `json:"responses"` // keyed by criterion id, at most one per criterion
	Summary       Summary             `json:"summary"`
}

// IntPtr is a convenience for building responses.
func IntPtr(v int) *int { return &v }
