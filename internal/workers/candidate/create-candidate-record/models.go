// internal/workers/candidate/create-candidate-record/models.go
package createcandidaterecord

type Input struct {
	FullName  string   `json:"fullName"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	Qualified bool     `json:"qualified"`
	FitScore  int      `json:"fitScore"`
	Reasons   []string `json:"reasons"`
	Status    string   `json:"status"`
}

type Output struct {
	CandidateID string `json:"candidateId"`
	Status      string `json:"candidateStatus"`
	CreatedAt   string `json:"createdAt"`
}
