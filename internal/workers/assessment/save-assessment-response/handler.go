// internal/workers/assessment/save-assessment-response/handler.go
package saveassessmentresponse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/common/metrics"
	"recruitment-workers/internal/scoring/rubric"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "save-assessment-response"
)

// AssessmentStore is the slice of the persistence layer this worker touches.
type AssessmentStore interface {
	SaveResponse(ctx context.Context, assessmentID string, r rubric.Response) error
	LoadRubric(ctx context.Context) ([]rubric.Pillar, error)
	LoadResponses(ctx context.Context, assessmentID string) (map[string]rubric.Response, error)
	UpdateSummary(ctx context.Context, assessmentID string, s rubric.Summary) error
}

// RubricCache fronts the rubric configuration. A broken cache degrades to
// database reads, never to a failed job.
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "RESPONSE_SAVE_FAILED").Inc()
		h.failJob(client, job, "RESPONSE_SAVE_FAILED", err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

// execute saves the answer, then recomputes the derived scores from the full
// response set. The summary persist is best-effort: the scores returned to the
// process are correct even when the denormalized columns lag behind.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	err := h.store.SaveResponse(ctx, input.AssessmentID, rubric.Response{
		CriterionID: input.CriterionID,
		Score:       input.Score,
		Notes:       input.Notes,
		RedFlags:    input.RedFlags,
	})
	if err != nil {
		return nil, err
	}

	pillars, err := h.loadRubric(ctx)
	if err != nil {
		return nil, err
	}

	responses, err := h.store.LoadResponses(ctx, input.AssessmentID)
	if err != nil {
		return nil, err
	}

	summary := rubric.Compute(pillars, responses)

	if err := h.store.UpdateSummary(ctx, input.AssessmentID, summary); err != nil {
		h.logger.Warn("summary persist failed", map[string]interface{}{
			"assessmentId": input.AssessmentID,
			"error":        err,
		})
	}

	h.logger.Info("response saved", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"criterionId":  input.CriterionID,
		"overall":      summary.Overall,
	})

	return &Output{
		AssessmentID:       input.AssessmentID,
		PillarScores:       summary.PillarScores,
		Overall:            summary.Overall,
		AggregateScore:     summary.AggregateScore,
		HasCriticalFailure: summary.HasCriticalFailure,
		OnboardRecommended: summary.OnboardRecommended,
	}, nil
}

// loadRubric is cache-aside: Redis first, Postgres on miss, refill best-effort.
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
