package evaluatecontent

import (
	"encoding/json"
	"strings"

	"collateral-pipeline/internal/common/genai"
	"collateral-pipeline/internal/models"
)

const systemPrompt = "You are a quality assurance reviewer. Compare the Source Data with the Generated Content."

func buildPrompt(parsed models.ParsedInput, content models.ContentResult) genai.Prompt {
	sourceJSON, _ := json.MarshalIndent(parsed, "", "  ")
	contentJSON, _ := json.MarshalIndent(content, "", "  ")

	var parts []string
	parts = append(parts, "Source Data:")
	parts = append(parts, string(sourceJSON))
	parts = append(parts, "\nGenerated Content:")
	parts = append(parts, string(contentJSON))
	parts = append(parts, "\nTask:")
	parts = append(parts, "1. Check for hallucinations: features or ingredients that are not in the source.")
	parts = append(parts, "2. Check that the content does not contradict the source price.")
	parts = append(parts, "3. Answer PASS if accurate, FAIL if hallucinated or critically wrong, and give the reason.")

	return genai.Prompt{System: systemPrompt, User: strings.Join(parts, "\n")}
}
