// internal/workers/assessment/complete-assessment/handler.go
package completeassessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/common/metrics"
	"recruitment-workers/internal/scoring/rubric"
	"recruitment-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "complete-assessment"
)

type AssessmentStore interface {
	GetAssessment(ctx context.Context, id string) (*rubric.Assessment, error)
	LoadRubric(ctx context.Context) ([]rubric.Pillar, error)
	UpdateSummary(ctx context.Context, assessmentID string, s rubric.Summary) error
	Complete(ctx context.Context, assessmentID string) error
}

type RubricCache interface {
	Get(ctx context.Context) ([]rubric.Pillar, bool, error)
	Set(ctx context.Context, pillars []rubric.Pillar) error
}

type Handler struct {
	config *Config
	store  AssessmentStore
	cache  RubricCache
	logger logger.Logger
}

func NewHandler(config *Config, store AssessmentStore, cache RubricCache, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		cache:  cache,
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

	start := time.Now()
	output, err := h.execute(ctx, &input)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	if err != nil {
		errorCode := "ASSESSMENT_COMPLETE_FAILED"
		switch {
		case errors.Is(err, rubric.ErrIncompleteAssessment):
			errorCode = "ASSESSMENT_INCOMPLETE"
		case errors.Is(err, store.ErrAssessmentNotDraft):
			errorCode = "ASSESSMENT_NOT_DRAFT"
		case errors.Is(err, store.ErrAssessmentNotFound):
			errorCode = "ASSESSMENT_NOT_FOUND"
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.AssessmentsCompleted.Inc()
	h.completeJob(client, job, output)
}

// execute enforces the completion gate before any write: an assessment with
// unanswered criteria keeps its draft status untouched.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	assessment, err := h.store.GetAssessment(ctx, input.AssessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.Status != rubric.StatusDraft {
		return nil, fmt.Errorf("%w: status is %s", store.ErrAssessmentNotDraft, assessment.Status)
	}

	pillars, err := h.loadRubric(ctx)
	if err != nil {
		return nil, err
	}

	if err := rubric.ValidateComplete(pillars, assessment.Responses); err != nil {
		return nil, err
	}

	summary := rubric.Compute(pillars, assessment.Responses)

	if err := h.store.UpdateSummary(ctx, input.AssessmentID, summary); err != nil {
		return nil, err
	}
	if err := h.store.Complete(ctx, input.AssessmentID); err != nil {
		return nil, err
	}

	h.logger.Info("assessment completed", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"overall":      summary.Overall,
		"onboard":      summary.OnboardRecommended,
	})

	return &Output{
		AssessmentID:       input.AssessmentID,
		Status:             string(rubric.StatusCompleted),
		PillarScores:       summary.PillarScores,
		Overall:            summary.Overall,
		AggregateScore:     summary.AggregateScore,
		HasCriticalFailure: summary.HasCriticalFailure,
		OnboardRecommended: summary.OnboardRecommended,
		CompletedAt:        time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) loadRubric(ctx context.Context) ([]rubric.Pillar, error) {
	pillars, found, err := h.cache.Get(ctx)
	if err != nil {
		h.logger.Warn("rubric cache read failed", map[string]interface{}{
			"error": err,
		})
	}
	if found {
		return pillars, nil
	}

	pillars, err = h.store.LoadRubric(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Set(ctx, pillars); err != nil {
		h.logger.Warn("rubric cache write failed", map[string]interface{}{
			"error": err,
		})
	}
	return pillars, nil
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
