// internal/workers/collateral/analyze-input/models.go
package analyzeinput

import (
	"collateral-pipeline/internal/common/validation"
	"collateral-pipeline/internal/models"
)

type Input struct {
	ParsedInput models.ParsedInput `json:"parsed_input"`
}

type Output struct {
	Analysis models.AnalysisResult `json:"analysis"`
}

var OutputSchema = validation.JSONSchema{
	Title: "AnalysisResult",
	Type:  "object",
	Properties: map[string]validation.Property{
		"key_questions": validation.ArrayOf("questions a shopper is likely to ask",
			validation.NonEmptyString("question")).Bounded(3, 5),
		"observations": validation.ArrayOf("analytical observations about the product data",
			validation.NonEmptyString("observation")).Bounded(3, 5),
	},
	Required: []string{"key_questions", "observations"},
}
