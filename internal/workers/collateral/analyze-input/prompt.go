package analyzeinput

import (
	"encoding/json"

	"collateral-pipeline/internal/common/genai"
	"collateral-pipeline/internal/models"
)

const systemPrompt = `You are an expert product analyst.
Your goal is to analyze the provided product data, identify gaps, and synthesize insights.

Instructions:
1. Identify any missing or empty product fields (price, ingredients, usage and so on).
2. Write 3 to 5 key questions a shopper might have.
3. Write 3 to 5 analytical observations.
4. If no competitors are listed, say so explicitly in the observations.`

func buildPrompt(parsed models.ParsedInput) genai.Prompt {
	data, _ := json.MarshalIndent(parsed, "", "  ")
	return genai.Prompt{System: systemPrompt, User: string(data)}
}
