// internal/workers/collateral/generate-content/models.go
package generatecontent

import (
	"collateral-pipeline/internal/common/validation"
	"collateral-pipeline/internal/models"
)

type Input struct {
	ParsedInput models.ParsedInput    `json:"parsed_input"`
	Analysis    models.AnalysisResult `json:"analysis"`
}

type Output struct {
	Content models.ContentResult `json:"content"`
}

// Empty values are allowed: omission is preferred over invented facts.
var OutputSchema = validation.JSONSchema{
	Title: "ContentResult",
	Type:  "object",
	Properties: map[string]validation.Property{
		"headline": validation.String("short marketing headline"),
		"value_proposition": validation.ArrayOf("value proposition statements",
			validation.String("statement")),
		"feature_highlights": validation.ArrayOf("feature highlights grounded in the product data",
			validation.String("highlight")),
	},
	Required: []string{"headline", "value_proposition", "feature_highlights"},
}
