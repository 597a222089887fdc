// internal/workers/collateral/build-pages/models.go
package buildpages

import "collateral-pipeline/internal/models"

// AnswerNotProvided replaces empty or absent FAQ answers.
const AnswerNotProvided = "Not provided."

type Input struct {
	ParsedInput models.ParsedInput   `json:"parsed_input"`
	Content     models.ContentResult `json:"content"`
	Questions   models.QuestionSet   `json:"questions"`
}

type Output struct {
	Pages models.PageBundle `json:"pages"`
}
