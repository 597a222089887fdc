// Package errors provides the standardized error taxonomy for pipeline runs and
// its mapping onto BPMN errors for the Zeebe worker mode.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeAnalysisFailed        ErrorCode = "ANALYSIS_FAILED"
	ErrCodeGenerationFailed      ErrorCode = "GENERATION_FAILED"
	ErrCodeInsufficientQuestions ErrorCode = "INSUFFICIENT_QUESTIONS"

	ErrCodeArtifactWriteFailed    ErrorCode = "ARTIFACT_WRITE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error. Cause carries the
// underlying failure, if any, and is reachable through errors.Unwrap.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInputValidationError lists every offending field of the raw input record.
func NewInputValidationError(fieldErrors []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputValidationFailed,
		Message:   "Input record failed schema validation",
		Details:   strings.Join(fieldErrors, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fieldErrors},
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisFailedError wraps the single failed analysis attempt.
func NewAnalysisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisFailed,
		Message:   "Input analysis failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewGenerationFailedError marks a generation stage whose attempts are exhausted.
func NewGenerationFailedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   fmt.Sprintf("Stage %s failed to produce a valid artifact", stage),
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"stage": stage},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewInsufficientQuestionsError reports the quality gate ceiling.
func NewInsufficientQuestionsError(expected, actual, retries int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInsufficientQuestions,
		Message:   "Insufficient questions",
		Details:   fmt.Sprintf("expected at least %d question pairs, got %d after %d attempts", expected, actual, retries),
		Retryable: false,
		Metadata: map[string]interface{}{
			"expected": expected,
			"actual":   actual,
			"retries":  retries,
		},
		Timestamp: time.Now().UTC(),
	}
}

func NewArtifactWriteFailedError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactWriteFailed,
		Message:   "Failed to write run artifacts",
		Details:   fmt.Sprintf("sink: %s, error: %s", sink, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send run notification",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputValidationFailed:  "INPUT_VALIDATION_FAILED",
	ErrCodeAnalysisFailed:         "ANALYSIS_FAILED",
	ErrCodeGenerationFailed:       "GENERATION_FAILED",
	ErrCodeInsufficientQuestions:  "INSUFFICIENT_QUESTIONS",
	ErrCodeArtifactWriteFailed:    "ARTIFACT_WRITE_FAILED",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
	ErrCodeConfigInvalid:          "CONFIG_INVALID",
}

// GetRetryCount returns the job retry count for a code. Stage failures already
// retried inside the executor, so only infrastructure writes get job retries.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeArtifactWriteFailed,
		ErrCodeNotificationSendFailed:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INPUT") || strings.Contains(codeStr, "CONFIG"):
		return "VALIDATION"
	case strings.Contains(codeStr, "ANALYSIS") || strings.Contains(codeStr, "GENERATION"):
		return "AI"
	case strings.Contains(codeStr, "QUESTIONS"):
		return "QUALITY_GATE"
	case strings.Contains(codeStr, "ARTIFACT"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}

// Code returns the ErrorCode of err if it is (or wraps) a StandardError.
func Code(err error) ErrorCode {
	for err != nil {
		if stdErr, ok := err.(*StandardError); ok {
			return stdErr.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
