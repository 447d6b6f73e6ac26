// internal/workers/assessment/schedule-interview/models.go
package scheduleinterview

type Input struct {
	CandidateID   string `json:"candidateId"`
	InterviewDate string `json:"interviewDate"`
}

type Output struct {
	AssessmentID  string `json:"assessmentId"`
	CandidateID   string `json:"candidateId"`
	InterviewDate string `json:"interviewDate"`
	Status        string `json:"assessmentStatus"`
}
