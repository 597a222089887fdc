// internal/workers/collateral/check-question-count/models.go
package checkquestioncount

import "collateral-pipeline/internal/models"

type Decision string

const (
	DecisionAdvance Decision = "advance"
	DecisionRetry   Decision = "retry"
	// DecisionAbort is only recorded in metrics; aborts surface as errors.
	DecisionAbort Decision = "abort"
)

type Input struct {
	Questions models.QuestionSet `json:"questions"`
	QARetries int                `json:"qa_retries"`
}

type Output struct {
	Decision Decision `json:"qa_decision"`
}
