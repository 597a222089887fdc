package generatecontent

import (
	"encoding/json"
	"strings"

	"collateral-pipeline/internal/common/genai"
	"collateral-pipeline/internal/models"
)

const systemPrompt = "You are a content generation assistant. You write marketing copy based strictly on the product information you are given."

func buildPrompt(parsed models.ParsedInput, analysis models.AnalysisResult) genai.Prompt {
	productJSON, _ := json.MarshalIndent(parsed, "", "  ")
	analysisJSON, _ := json.MarshalIndent(analysis, "", "  ")

	var parts []string
	parts = append(parts, "Constraints:")
	parts = append(parts, "1. Use ONLY the information in the Product Data. Do not invent facts.")
	parts = append(parts, "2. If some information is missing, leave the corresponding field empty.")
	parts = append(parts, "3. The Analysis is context only; do not copy its questions into the copy.")
	parts = append(parts, "\nProduct Data:")
	parts = append(parts, string(productJSON))
	parts = append(parts, "\nAnalysis:")
	parts = append(parts, string(analysisJSON))

	return genai.Prompt{System: systemPrompt, User: strings.Join(parts, "\n")}
}
