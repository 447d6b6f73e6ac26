// internal/scoring/rubric/engine.go
package rubric

import (
	"errors"
	"fmt"
)

// ErrIncompleteAssessment is returned by the completion gate while any
// criterion is still unanswered.
var ErrIncompleteAssessment = errors.New("answer all questions before completing")

const (
	onboardThreshold  = 70.0
	criticalScoreCeil = 2
)

// Compute aggregates the responses into pillar scores and the overall
// summary. It is pure and total: callers recompute it after every response
// edit and persist the result separately.
func Compute(pillars []Pillar, responses map[string]Response) Summary {
	s := Summary{
		PillarScores: make([]PillarScore, 0, len(pillars)),
	}

	var overall float64
	for _, p := range pillars {
		ps := pillarScore(p, responses)
		overall += (ps.Score / 100) * p.Weight
		s.PillarScores = append(s.PillarScores, ps)
	}

	s.Overall = overall * 100
	s.AggregateScore = s.Overall / 20
	s.HasCriticalFailure = hasCriticalFailure(pillars, responses)
	s.OnboardRecommended = s.Overall >= onboardThreshold && !s.HasCriticalFailure
	return s
}

// pillarScore is the weighted average over answered criteria only. A
// partially answered pillar reflects its answered criteria; unanswered ones
// are excluded from both numerator and denominator.
func pillarScore(p Pillar, responses map[string]Response) PillarScore {
	ps := PillarScore{
		PillarID: p.ID,
		Name:     p.Name,
		Total:    len(p.Criteria),
	}

	var weightedSum, totalWeight float64
	for _, c := range p.Criteria {
		r, ok := responses[c.ID]
		if !ok || r.Score == nil {
			continue
		}
		weightedSum += (float64(*r.Score) / 5) * c.Weight
		totalWeight += c.Weight
		ps.Answered++
	}

	if totalWeight > 0 {
		ps.Score = (weightedSum / totalWeight) * 100
	}
	ps.Category = CategoryFor(ps.Score)
	return ps
}

// CategoryFor maps a 0-100 pillar score onto its display label.
func CategoryFor(score float64) string {
	switch {
	case score >= 80:
		return CategoryAdvanced
	case score >= 60:
		return CategoryIntermediate
	default:
		return CategoryBasic
	}
}

// hasCriticalFailure is independent of weighting: a single critical criterion
// scored 1 or 2 trips the flag regardless of the overall score.
func hasCriticalFailure(pillars []Pillar, responses map[string]Response) bool {
	for _, p := range pillars {
		for _, c := range p.Criteria {
			if !c.Critical {
				continue
			}
			if r, ok := responses[c.ID]; ok && r.Score != nil && *r.Score <= criticalScoreCeil {
				return true
			}
		}
	}
	return false
}

// ValidateComplete is the completion gate: every criterion across every
// pillar must carry a non-nil score.
func ValidateComplete(pillars []Pillar, responses map[string]Response) error {
	unanswered := 0
	for _, p := range pillars {
		for _, c := range p.Criteria {
			if r, ok := responses[c.ID]; !ok || r.Score == nil {
				unanswered++
			}
		}
	}
	if unanswered > 0 {
		return fmt.Errorf("%w: %d unanswered", ErrIncompleteAssessment, unanswered)
	}
	return nil
}

// CompleteAssessment transitions a draft to completed after the gate passes,
// stamping the final summary. The status is untouched on gate failure.
func CompleteAssessment(a *Assessment, pillars []Pillar) error {
	if a.Status != StatusDraft {
		return fmt.Errorf("assessment %s is %s, only drafts can be completed", a.ID, a.Status)
	}
	if err := ValidateComplete(pillars, a.Responses); err != nil {
		return err
	}
	a.Summary = Compute(pillars, a.Responses)
	a.Status = StatusCompleted
	return nil
}
