// internal/workers/candidate/notify-status-change/handler.go
package notifystatuschange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/common/metrics"
	"recruitment-workers/internal/scoring/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-status-change"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
	ErrUnknownStatus          = errors.New("UNKNOWN_STATUS")
)

// Narrow interfaces over the AWS wrappers so tests can substitute fakes.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message, senderID string) error
}

type EmailSender interface {
	SendPlainEmail(ctx context.Context, from, to, subject, body string) error
}

type Handler struct {
	config *Config
	sms    SMSSender
	email  EmailSender
	logger logger.Logger
}

func NewHandler(config *Config, sms SMSSender, email EmailSender, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		sms:    sms,
		email:  email,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "NOTIFICATION_SEND_FAILED").Inc()
		h.failJob(client, job, "NOTIFICATION_SEND_FAILED", err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	subject, body, err := h.composeMessage(input)
	if err != nil {
		return nil, err
	}

	sentAt := time.Now().UTC().Format(time.RFC3339)
	notificationID := uuid.New().String()

	smsSent := false
	emailSent := false

	if h.config.SMSEnabled && input.Phone != "" {
		if err := h.sms.SendSMS(ctx, input.Phone, body, h.config.SenderID); err != nil {
			return nil, fmt.Errorf("%w: sms to %s: %v", ErrNotificationSendFailed, input.Phone, err)
		}
		smsSent = true
	}

	if h.config.EmailEnabled && input.Email != "" {
		if err := h.email.SendPlainEmail(ctx, h.config.FromEmail, input.Email, subject, body); err != nil {
			return nil, fmt.Errorf("%w: email to %s: %v", ErrNotificationSendFailed, input.Email, err)
		}
		emailSent = true
	}

	status := StatusDisabled
	if smsSent || emailSent {
		status = StatusSent
	}

	h.logger.Info("status notification processed", map[string]interface{}{
		"candidateId": input.CandidateID,
		"status":      input.Status,
		"smsSent":     smsSent,
		"emailSent":   emailSent,
	})

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		SentAt:         sentAt,
	}, nil
}

// composeMessage maps a routing status to the applicant-facing text.
func (h *Handler) composeMessage(input *Input) (string, string, error) {
	firstName := input.FullName
	if idx := strings.IndexByte(firstName, ' '); idx > 0 {
		firstName = firstName[:idx]
	}

	switch input.Status {
	case eligibility.StatusPending:
		body := fmt.Sprintf(
			"Hello %s, your %s application has been accepted. We will contact you shortly to schedule your interview.",
			firstName, input.Role)
		if input.InterviewDate != "" {
			body = fmt.Sprintf(
				"Hello %s, your %s application has been accepted. Your interview is scheduled for %s.",
				firstName, input.Role, input.InterviewDate)
		}
		return "Application accepted", body, nil

	case eligibility.StatusPendingApplyingGC:
		return "Application accepted - certificate needed",
			fmt.Sprintf(
				"Hello %s, your %s application has been accepted. Please apply for your Good Conduct Certificate and share the receipt before your interview.",
				firstName, input.Role), nil

	case eligibility.StatusLostAge,
		eligibility.StatusLostExperience,
		eligibility.StatusLostNoReferences,
		eligibility.StatusLostNoGoodConduct:
		return "Application update",
			fmt.Sprintf(
				"Hello %s, thank you for applying. Unfortunately your application does not meet our current requirements. You are welcome to reapply in future.",
				firstName), nil

	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownStatus, input.Status)
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
