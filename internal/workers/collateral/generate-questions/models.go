// internal/workers/collateral/generate-questions/models.go
package generatequestions

import (
	"collateral-pipeline/internal/common/validation"
	"collateral-pipeline/internal/models"
)

type Input struct {
	ParsedInput models.ParsedInput `json:"parsed_input"`
	QARetries   int                `json:"qa_retries"`
}

// Output carries qa_retries so the question count gate sees how many
// generations have completed.
type Output struct {
	Questions models.QuestionSet `json:"questions"`
	QARetries int                `json:"qa_retries"`
}

// RequestedPairs is how many pairs the prompt asks for. The count is
// enforced by the question count gate, not by the schema.
const RequestedPairs = 15

var qaPairSchema = validation.Object("question and answer pair", map[string]validation.Property{
	"question": validation.NonEmptyString("shopper question"),
	"answer":   validation.String("answer grounded in the product data"),
	"category": validation.Enum("question category", models.QuestionCategories...),
}, "question", "category")

var OutputSchema = validation.JSONSchema{
	Title: "QuestionSet",
	Type:  "object",
	Properties: map[string]validation.Property{
		"qa_pairs": validation.ArrayOf("categorized question and answer pairs", qaPairSchema),
	},
	Required: []string{"qa_pairs"},
}
