// internal/workers/reporting/index-candidate/handler.go
package indexcandidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "recruitment-workers/internal/common/errors"
	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/common/metrics"
	"recruitment-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "index-candidate"
)

var (
	ErrIndexFailed = errors.New("SEARCH_INDEX_FAILED")
)

// CandidateSource provides the row to project into the search index.
type CandidateSource interface {
	Get(ctx context.Context, id string) (*store.Candidate, error)
}

// DocumentIndexer writes one document to the search backend.
type DocumentIndexer interface {
	IndexDocument(ctx context.Context, index, id string, body []byte) error
}

type Handler struct {
	config     *Config
	candidates CandidateSource
	indexer    DocumentIndexer
	errors     *commonerrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, candidates CandidateSource, indexer DocumentIndexer, log logger.Logger) *Handler {
	scopedLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		candidates: candidates,
		indexer:    indexer,
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
		if errors.Is(err, store.ErrCandidateNotFound) {
			metrics.WorkerJobsFailed.WithLabelValues(TaskType, "CANDIDATE_NOT_FOUND").Inc()
			h.failJob(client, job, "CANDIDATE_NOT_FOUND", err.Error())
			return
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "SEARCH_INDEX_FAILED").Inc()
		h.errors.HandleJobError(ctx, client, job, commonerrors.NewSearchIndexFailedError(err))
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	candidate, err := h.candidates.Get(ctx, input.CandidateID)
	if err != nil {
		return nil, err
	}

	indexedAt := time.Now().UTC().Format(time.RFC3339)
	doc := document{
		ID:         candidate.ID,
		FullName:   candidate.FullName,
		Phone:      candidate.Phone,
		Email:      candidate.Email,
		Role:       candidate.Role,
		Status:     candidate.Status,
		FitScore:   candidate.FitScore,
		LostReason: candidate.LostReason,
		Qualified:  candidate.Qualified,
		IndexedAt:  indexedAt,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal document: %v", ErrIndexFailed, err)
	}

	if err := h.indexer.IndexDocument(ctx, h.config.Index, candidate.ID, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}

	h.logger.Info("candidate indexed", map[string]interface{}{
		"candidateId": candidate.ID,
		"index":       h.config.Index,
	})

	return &Output{
		CandidateID: candidate.ID,
		Index:       h.config.Index,
		IndexedAt:   indexedAt,
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
