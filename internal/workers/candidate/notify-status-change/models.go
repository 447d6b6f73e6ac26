// internal/workers/candidate/notify-status-change/models.go
package notifystatuschange

type Input struct {
	CandidateID   string `json:"candidateId"`
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Status        string `json:"candidateStatus"`
	Role          string `json:"role"`
	InterviewDate string `json:"interviewDate,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"notificationStatus"`
	SentAt         string `json:"sentAt"`
}

const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
)
