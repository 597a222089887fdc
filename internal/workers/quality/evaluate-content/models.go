// internal/workers/quality/evaluate-content/models.go
package evaluatecontent

import (
	"collateral-pipeline/internal/common/validation"
	"collateral-pipeline/internal/models"
)

const (
	ReasonFormatError = "Output format error, failing open."
	ReasonErrorPrefix = "Evaluator error: "
)

type Input struct {
	ParsedInput models.ParsedInput   `json:"parsed_input"`
	Content     models.ContentResult `json:"content"`
}

type Output struct {
	Evaluation models.EvaluationResult `json:"evaluation"`
}

var OutputSchema = validation.JSONSchema{
	Title: "EvaluationResult",
	Type:  "object",
	Properties: map[string]validation.Property{
		"status": validation.Enum("PASS if accurate, FAIL if hallucinated or critically wrong",
			models.EvaluationPass, models.EvaluationFail),
		"reason": validation.String("explanation"),
	},
	Required: []string{"status", "reason"},
}
