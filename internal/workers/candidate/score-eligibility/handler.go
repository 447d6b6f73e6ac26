// internal/workers/candidate/score-eligibility/handler.go
package scoreeligibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/common/metrics"
	"recruitment-workers/internal/scoring/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-eligibility"
)

var (
	ErrInvalidDateOfBirth = errors.New("INVALID_DATE_OF_BIRTH")
)

type Handler struct {
	config *Config
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:    time.Now,
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "SCORING_FAILED").Inc()
		h.failJob(client, job, "SCORING_FAILED", err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.CandidatesScored.WithLabelValues(output.Status).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	dob, err := time.Parse("2006-01-02", input.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateOfBirth, input.DateOfBirth)
	}

	result := eligibility.Evaluate(eligibility.Input{
		WorkExperiences:   input.WorkExperiences,
		GoodConductStatus: input.GoodConductStatus,
		Referee1Name:      input.Referee1Name,
		Referee1Phone:     input.Referee1Phone,
		Referee2Name:      input.Referee2Name,
		Referee2Phone:     input.Referee2Phone,
		DateOfBirth:       dob,
		Role:              input.Role,
	}, h.now())

	h.logger.Info("candidate scored", map[string]interface{}{
		"phone":     input.Phone,
		"role":      input.Role,
		"qualified": result.Qualified,
		"fitScore":  result.Score,
		"status":    result.Status,
	})

	return &Output{
		Qualified: result.Qualified,
		FitScore:  result.Score,
		Reasons:   result.Reasons,
		Status:    result.Status,
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

// WithClock overrides the reference time used for age and experience math.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}
