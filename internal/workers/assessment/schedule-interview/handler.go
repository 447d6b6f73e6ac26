// internal/workers/assessment/schedule-interview/handler.go
package scheduleinterview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/common/metrics"
	"recruitment-workers/internal/scoring/rubric"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "schedule-interview"
)

var (
	ErrInvalidInterviewDate = errors.New("INVALID_INTERVIEW_DATE")
)

type AssessmentCreator interface {
	CreateAssessment(ctx context.Context, candidateID string, interviewDate time.Time) (string, error)
}

type Handler struct {
	config      *Config
	assessments AssessmentCreator
	logger      logger.Logger
}

func NewHandler(config *Config, assessments AssessmentCreator, log logger.Logger) *Handler {
	return &Handler{
		config:      config,
		assessments: assessments,
		logger:      log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "SCHEDULE_FAILED"
		if errors.Is(err, ErrInvalidInterviewDate) {
			errorCode = "INVALID_INTERVIEW_DATE"
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	interviewDate, err := time.Parse("2006-01-02", input.InterviewDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInterviewDate, input.InterviewDate)
	}

	id, err := h.assessments.CreateAssessment(ctx, input.CandidateID, interviewDate)
	if err != nil {
		return nil, err
	}

	h.logger.Info("interview scheduled", map[string]interface{}{
		"assessmentId":  id,
		"candidateId":   input.CandidateID,
		"interviewDate": input.InterviewDate,
	})

	return &Output{
		AssessmentID:  id,
		CandidateID:   input.CandidateID,
		InterviewDate: input.InterviewDate,
		Status:        string(rubric.StatusDraft),
	}, nil
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
