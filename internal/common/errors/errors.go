// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDuplicateCandidate     ErrorCode = "DUPLICATE_CANDIDATE"
	ErrCodeCandidateInsertFailed  ErrorCode = "CANDIDATE_INSERT_FAILED"
	ErrCodeCandidateNotFound      ErrorCode = "CANDIDATE_NOT_FOUND"
	ErrCodeAssessmentNotFound     ErrorCode = "ASSESSMENT_NOT_FOUND"
	ErrCodeAssessmentIncomplete   ErrorCode = "ASSESSMENT_INCOMPLETE"
	ErrCodeAssessmentNotDraft     ErrorCode = "ASSESSMENT_NOT_DRAFT"
	ErrCodeResponseSaveFailed     ErrorCode = "RESPONSE_SAVE_FAILED"
	ErrCodeRubricNotFound         ErrorCode = "RUBRIC_NOT_FOUND"
	ErrCodeRubricInvalid          ErrorCode = "RUBRIC_INVALID"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeQueryExecutionFailed   ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeInvalidQueryType       ErrorCode = "INVALID_QUERY_TYPE"
	ErrCodeSearchIndexFailed      ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeDatabaseConnFailed     ErrorCode = "DATABASE_CONNECTION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ConvertToBPMNError maps a StandardError onto the workflow error shape.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(err.Code),
		Message:   err.Message,
		Details:   err.Details,
		Retryable: err.Retryable,
		Retries:   GetRetryCount(err.Code),
	}
}

// GetRetryCount returns the retry budget for a given error code. Business
// rule violations never retry; infrastructure failures do.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCandidateInsertFailed,
		ErrCodeResponseSaveFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeDatabaseConnFailed:
		return 3
	default:
		return 0
	}
}

// ==========================
// 3. Error Constructors
// ==========================

// NewDuplicateCandidateError marks a repeat submission for the same phone number.
func NewDuplicateCandidateError(phone string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateCandidate,
		Message:   "Candidate already exists for this phone number",
		Details:   fmt.Sprintf("phone: %s", phone),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateInsertFailedError creates a retryable database error.
func NewCandidateInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidateInsertFailed,
		Message:   "Database error while creating candidate record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentIncompleteError is the completion-gate violation: unanswered
// criteria remain, the assessment must stay in draft.
func NewAssessmentIncompleteError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentIncomplete,
		Message:   "Answer all questions before completing",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentNotDraftError rejects transitions from a terminal status.
func NewAssessmentNotDraftError(assessmentID, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentNotDraft,
		Message:   "Only draft assessments can be completed",
		Details:   fmt.Sprintf("assessment %s is %s", assessmentID, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseSaveFailedError creates a retryable persistence error; the
// computed summary stays valid but must not be treated as durably saved.
func NewResponseSaveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseSaveFailed,
		Message:   "Database error while saving assessment response",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRubricNotFoundError means no active rubric rows exist.
func NewRubricNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRubricNotFound,
		Message:   "Vetting rubric not found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRubricInvalidError flags a rubric definition that failed validation.
func NewRubricInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRubricInvalid,
		Message:   "Vetting rubric failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable delivery error.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send notification",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable reporting-query error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "KPI query execution failed",
		Details:   fmt.Sprintf("queryType %s: %v", queryType, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidQueryTypeError rejects unknown KPI query types.
func NewInvalidQueryTypeError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQueryType,
		Message:   "Unknown KPI query type",
		Details:   queryType,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchIndexFailedError creates a retryable indexing error.
func NewSearchIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchIndexFailed,
		Message:   "Failed to index candidate document",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
