// internal/workers/reporting/pipeline-kpi/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type QueryType string

const (
	QueryTypeCandidatesByStatus QueryType = "candidates-by-status"
	QueryTypeInterviewsPerWeek  QueryType = "interviews-per-week"
	QueryTypeConversionRate     QueryType = "conversion-rate"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// QueryFunc returns: data, rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error)

var Registry = map[QueryType]QueryFunc{
	QueryTypeCandidatesByStatus: CandidatesByStatus,
	QueryTypeInterviewsPerWeek:  InterviewsPerWeek,
	QueryTypeConversionRate:     ConversionRate,
}

func Execute(ctx context.Context, db *sql.DB, queryType QueryType, params map[string]interface{}) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, db, params)
}
