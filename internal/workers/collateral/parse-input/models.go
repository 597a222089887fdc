// internal/workers/collateral/parse-input/models.go
package parseinput

import (
	"collateral-pipeline/internal/common/validation"
	"collateral-pipeline/internal/models"
)

type Input struct {
	RawInput map[string]interface{} `json:"raw_input"`
}

type Output struct {
	ParsedInput models.ParsedInput `json:"parsed_input"`
}

func stringList(description string) validation.Property {
	return validation.ArrayOf(description, validation.String(description))
}

var productSchema = validation.Object("product being marketed", map[string]validation.Property{
	"name":         validation.String("product name"),
	"description":  validation.String("product description"),
	"ingredients":  stringList("ingredient"),
	"benefits":     stringList("benefit"),
	"usage":        validation.String("usage instructions"),
	"skin_type":    stringList("applicable skin type"),
	"price":        validation.String("price"),
	"side_effects": stringList("side effect"),
}, "name", "description", "ingredients", "benefits", "usage", "skin_type", "price", "side_effects")

var competitorSchema = validation.Object("competitor product", map[string]validation.Property{
	"name":        validation.String("competitor name"),
	"description": validation.String("competitor description"),
	"ingredients": stringList("ingredient"),
	"price":       validation.String("price"),
}, "name", "description", "ingredients", "price")

// InputSchema is the raw input record: one product and any number of competitors.
var InputSchema = validation.JSONSchema{
	Title: "CollateralInput",
	Type:  "object",
	Properties: map[string]validation.Property{
		"product":     productSchema,
		"competitors": validation.ArrayOf("competitor products", competitorSchema),
	},
	Required:             []string{"product"},
	AdditionalProperties: true,
}
