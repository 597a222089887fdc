package generatequestions

import (
	"encoding/json"
	"fmt"
	"strings"

	"collateral-pipeline/internal/common/genai"
	"collateral-pipeline/internal/models"
)

const systemPrompt = "You are a Q&A generation assistant. You write categorized shopper questions with answers drawn from product data."

func buildPrompt(parsed models.ParsedInput) genai.Prompt {
	data, _ := json.MarshalIndent(parsed, "", "  ")

	var parts []string
	parts = append(parts, fmt.Sprintf("Generate exactly %d Q&A pairs based on the product information below.", RequestedPairs))
	parts = append(parts, "\nConstraints:")
	parts = append(parts, "1. Answer every question from the product data.")
	parts = append(parts, fmt.Sprintf("2. Give each pair a category, one of: %s.", strings.Join(models.QuestionCategories, ", ")))
	if len(parsed.Competitors) == 0 {
		parts = append(parts, "3. No competitor is listed. Invent a fictional competitor called Product B for the Comparison questions.")
	} else {
		parts = append(parts, "3. Use the listed competitors for the Comparison questions.")
	}
	parts = append(parts, "\nProduct Data:")
	parts = append(parts, string(data))

	return genai.Prompt{System: systemPrompt, User: strings.Join(parts, "\n")}
}
