// internal/workers/candidate/create-candidate-record/handler.go
package createcandidaterecord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	commonerrors "recruitment-workers/internal/common/errors"
	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/common/metrics"
	"recruitment-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "create-candidate-record"
)

type Handler struct {
	config     *Config
	candidates *store.CandidateStore
	errors     *commonerrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, candidates *store.CandidateStore, log logger.Logger) *Handler {
	scopedLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		candidates: candidates,
		errors:     commonerrors.NewErrorHandler(scopedLog),
		logger:     scopedLog,
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
		stdErr := classifyError(&input, err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errors.HandleJobError(ctx, client, job, stdErr)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	id, err := h.candidates.Create(ctx, store.Candidate{
		FullName:   input.FullName,
		Phone:      input.Phone,
		Email:      input.Email,
		Role:       input.Role,
		Status:     input.Status,
		FitScore:   input.FitScore,
		LostReason: strings.Join(input.Reasons, "; "),
		Qualified:  input.Qualified,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("candidate record created", map[string]interface{}{
		"candidateId": id,
		"status":      input.Status,
		"fitScore":    input.FitScore,
	})

	return &Output{
		CandidateID: id,
		Status:      input.Status,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
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

// classifyError maps store failures onto the error taxonomy: duplicate phone
// is a business rule and never retries, insert failures are transient.
func classifyError(input *Input, err error) *commonerrors.StandardError {
	if errors.Is(err, store.ErrDuplicatePhone) {
		return commonerrors.NewDuplicateCandidateError(input.Phone)
	}
	return commonerrors.NewCandidateInsertFailedError(err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
