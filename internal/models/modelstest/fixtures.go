// Package modelstest holds sample records and canned model replies for tests.
package modelstest

import (
	"encoding/json"
	"fmt"

	"collateral-pipeline/internal/models"
)

// RawRecord is a complete input record with one competitor.
const RawRecord = `{
  "product": {
    "name": "GlowBoost Vitamin C Serum",
    "description": "A lightweight brightening serum",
    "ingredients": ["Vitamin C", "Hyaluronic Acid"],
    "benefits": ["Brightening", "Fades dark spots"],
    "usage": "Apply 2-3 drops in the morning before sunscreen",
    "skin_type": ["Oily", "Combination"],
    "price": "₹699",
    "side_effects": ["Mild tingling for sensitive skin"]
  },
  "competitors": [
    {"name": "RadiantC Serum", "description": "Vitamin C serum", "ingredients": ["Vitamin C", "Niacinamide"], "price": "₹899"}
  ]
}`

// Raw decodes RawRecord, optionally dropping the competitors key.
func Raw(withCompetitors bool) map[string]interface{} {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(RawRecord), &raw); err != nil {
		panic(err)
	}
	if !withCompetitors {
		delete(raw, "competitors")
	}
	return raw
}

func Product() models.Product {
	return models.Product{
		Name:        "GlowBoost Vitamin C Serum",
		Description: "A lightweight brightening serum",
		Ingredients: []string{"Vitamin C", "Hyaluronic Acid"},
		Benefits:    []string{"Brightening", "Fades dark spots"},
		Usage:       "Apply 2-3 drops in the morning before sunscreen",
		SkinType:    []string{"Oily", "Combination"},
		Price:       "₹699",
		SideEffects: []string{"Mild tingling for sensitive skin"},
	}
}

func Competitor() models.Competitor {
	return models.Competitor{
		Name:        "RadiantC Serum",
		Description: "Vitamin C serum",
		Ingredients: []string{"Vitamin C", "Niacinamide"},
		Price:       "₹899",
	}
}

func ParsedInput(withCompetitor bool) models.ParsedInput {
	p := models.ParsedInput{Product: Product(), Competitors: []models.Competitor{}}
	if withCompetitor {
		p.Competitors = append(p.Competitors, Competitor())
	}
	return p
}

func Analysis() models.AnalysisResult {
	return models.AnalysisResult{
		KeyQuestions: []string{"Is it safe daily?", "Does it suit dry skin?", "How fast are results?"},
		Observations: []string{"Price is present", "Two ingredients listed", "Sensitive skin caveat"},
	}
}

func Content() models.ContentResult {
	return models.ContentResult{
		Headline:          "Brighter skin with GlowBoost",
		ValueProposition:  []string{"Brightening with Vitamin C"},
		FeatureHighlights: []string{"Hyaluronic Acid for hydration"},
	}
}

const AnalysisJSON = `{"key_questions":["Is it safe daily?","Does it suit dry skin?","How fast are results?"],"observations":["Price is present","Two ingredients listed","Sensitive skin caveat"]}`

const ContentJSON = "```json\n" + `{"headline":"Brighter skin with GlowBoost","value_proposition":["Brightening with Vitamin C"],"feature_highlights":["Hyaluronic Acid for hydration"]}` + "\n```"

// QuestionsJSON renders a question set reply with n pairs cycling through
// every category.
func QuestionsJSON(n int) string {
	pairs := make([]models.QAPair, n)
	for i := range pairs {
		pairs[i] = models.QAPair{
			Question: fmt.Sprintf("Question %d?", i+1),
			Answer:   fmt.Sprintf("Answer %d.", i+1),
			Category: models.QuestionCategories[i%len(models.QuestionCategories)],
		}
	}
	data, _ := json.Marshal(models.QuestionSet{QAPairs: pairs})
	return string(data)
}

// ComparisonJSON renders a comparison reply against productB.
func ComparisonJSON(productB string) string {
	c := models.ComparisonResult{
		ProductBName:         productB,
		IngredientComparison: "GlowBoost adds Hyaluronic Acid",
		BenefitComparison:    "Both brighten",
		Verdicts: []models.SkinTypeVerdict{
			{SkinType: models.SkinOily, Winner: "GlowBoost Vitamin C Serum", Reasoning: "Lightweight"},
			{SkinType: models.SkinDry, Winner: productB, Reasoning: "More emollient"},
			{SkinType: models.SkinSensitive, Winner: "GlowBoost Vitamin C Serum", Reasoning: "Gentler"},
		},
	}
	data, _ := json.Marshal(c)
	return string(data)
}

// Comparison is the decoded form of ComparisonJSON("RadiantC Serum").
func Comparison() models.ComparisonResult {
	var c models.ComparisonResult
	_ = json.Unmarshal([]byte(ComparisonJSON("RadiantC Serum")), &c)
	return c
}

// RunArtifacts is a complete artifact set for runID.
func RunArtifacts(runID string) models.RunArtifacts {
	return models.RunArtifacts{
		RunID:      runID,
		Analysis:   Analysis(),
		Content:    Content(),
		Comparison: Comparison(),
		Pages: models.PageBundle{
			ProductPage: models.ProductPage{
				Headline: "Brighter skin with GlowBoost",
				Benefits: []string{"Brightening"},
				SkinType: []string{"Oily"},
				Price:    "₹699",
			},
			FAQPage:        models.FAQPage{FAQs: []models.FAQ{{Question: "Price?", Answer: "₹699"}}},
			ComparisonPage: models.ComparisonPage{Product: "GlowBoost Vitamin C Serum", Competitors: []models.CompetitorSummary{}},
		},
	}
}
