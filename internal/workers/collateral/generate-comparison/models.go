// internal/workers/collateral/generate-comparison/models.go
package generatecomparison

import (
	"collateral-pipeline/internal/common/validation"
	"collateral-pipeline/internal/models"
)

type Input struct {
	ParsedInput models.ParsedInput `json:"parsed_input"`
}

type Output struct {
	Comparison models.ComparisonResult `json:"comparison"`
}

var verdictSchema = validation.Object("winner for one skin type", map[string]validation.Property{
	"skin_type": validation.Enum("skin type", models.SkinTypes...),
	"winner":    validation.NonEmptyString("winning product name"),
	"reasoning": validation.NonEmptyString("why it wins"),
}, "skin_type", "winner", "reasoning")

var OutputSchema = validation.JSONSchema{
	Title: "ComparisonResult",
	Type:  "object",
	Properties: map[string]validation.Property{
		"product_b_name":        validation.NonEmptyString("competitor name, invented when none is given"),
		"ingredient_comparison": validation.String("ingredient comparison"),
		"benefit_comparison":    validation.String("benefit comparison"),
		"verdicts": validation.ArrayOf("one verdict per skin type: Oily, Dry, Sensitive",
			verdictSchema).Bounded(len(models.SkinTypes), len(models.SkinTypes)),
	},
	Required: []string{"product_b_name", "ingredient_comparison", "benefit_comparison", "verdicts"},
}
