package generatecomparison

import (
	"encoding/json"
	"strings"

	"collateral-pipeline/internal/common/genai"
	"collateral-pipeline/internal/models"
)

const systemPrompt = "You are a competitive analysis expert. Compare 'Product A' (our product) with 'Product B' (a competitor)."

// buildPrompt uses only the first competitor. An empty object cues the model
// to invent Product B.
func buildPrompt(parsed models.ParsedInput) genai.Prompt {
	productJSON, _ := json.MarshalIndent(parsed.Product, "", "  ")

	competitorJSON := []byte("{}")
	if c, ok := parsed.FirstCompetitor(); ok {
		competitorJSON, _ = json.MarshalIndent(c, "", "  ")
	}

	var parts []string
	parts = append(parts, "Product A:")
	parts = append(parts, string(productJSON))
	parts = append(parts, "\nProduct B:")
	parts = append(parts, string(competitorJSON))
	parts = append(parts, "\nTask:")
	parts = append(parts, "1. Compare ingredients and benefits.")
	parts = append(parts, "2. Declare a winner for each of Oily, Dry and Sensitive skin, once each.")
	parts = append(parts, "3. Give the reasoning for each verdict.")
	parts = append(parts, "4. If Product B is empty, invent a fictional competitor (for example 'Generic Vitamin C Serum') and put its name in product_b_name. It must differ from Product A's name.")

	return genai.Prompt{System: systemPrompt, User: strings.Join(parts, "\n")}
}
