// internal/workers/candidate/score-eligibility/models.go
package scoreeligibility

import "recruitment-workers/internal/scoring/eligibility"

type Input struct {
	FullName          string                       `json:"fullName"`
	Phone             string                       `json:"phone"`
	DateOfBirth       string                       `json:"dateOfBirth"`
	Role              string                       `json:"role"`
	WorkExperiences   []eligibility.WorkExperience `json:"workExperiences"`
	GoodConductStatus eligibility.ConductStatus    `json:"goodConductStatus"`
	Referee1Name      string                       `json:"referee1Name"`
	Referee1Phone     string                       `json:"referee1Phone"`
	Referee2Name      string                       `json:"referee2Name"`
	Referee2Phone     string                       `json:"referee2Phone"`
}

type Output struct {
	Qualified bool     `json:"qualified"`
	FitScore  int      `json:"fitScore"`
	Reasons   []string `json:"reasons"`
	Status    string   `json:"status"`
}
