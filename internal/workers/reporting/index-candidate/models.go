// internal/workers/reporting/index-candidate/models.go
package indexcandidate

type Input struct {
	CandidateID string `json:"candidateId"`
}

type Output struct {
	CandidateID string `json:"candidateId"`
	Index       string `json:"index"`
	IndexedAt   string `json:"indexedAt"`
}

// document is the searchable projection of a candidate.
type document struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	FitScore   int    `json:"fitScore"`
	LostReason string `json:"lostReason,omitempty"`
	Qualified  bool   `json:"qualified"`
	IndexedAt  string `json:"indexedAt"`
}
