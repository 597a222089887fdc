package buildpages

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/models"
	"collateral-pipeline/internal/models/modelstest"
)

func sampleQuestions() models.QuestionSet {
	return models.QuestionSet{QAPairs: []models.QAPair{
		{Question: "What is the price?", Answer: "₹699", Category: models.CategoryPurchase},
		{Question: "Is it safe for sensitive skin?", Category: models.CategorySafety},
		{Question: "How do I apply it?", Answer: "", Category: models.CategoryUsage},
	}}
}

func TestBuild_ProductPage(t *testing.T) {
	pages := Build(modelstest.ParsedInput(true), modelstest.Content(), sampleQuestions())

	p := pages.ProductPage
	assert.Equal(t, "Brighter skin with GlowBoost", p.Headline)
	assert.Equal(t, "A lightweight brightening serum", p.Description)
	assert.Equal(t, []string{"Brightening", "Fades dark spots"}, p.Benefits)
	assert.Equal(t, []string{"Oily", "Combination"}, p.SkinType)
	assert.Equal(t, "₹699", p.Price)
}

func TestBuild_FAQSentinel(t *testing.T) {
	content := modelstest.Content()
	content.FeatureHighlights = []string{}

	pages := Build(modelstest.ParsedInput(true), content, sampleQuestions())

	require.Len(t, pages.FAQPage.FAQs, 3)
	assert.Equal(t, "₹699", pages.FAQPage.FAQs[0].Answer)
	assert.Equal(t, "Not provided.", pages.FAQPage.FAQs[1].Answer)
	assert.Equal(t, "Not provided.", pages.FAQPage.FAQs[2].Answer)
	assert.Equal(t, "How do I apply it?", pages.FAQPage.FAQs[2].Question)
}

func TestBuild_ComparisonPage(t *testing.T) {
	parsed := modelstest.ParsedInput(true)
	parsed.Competitors = append(parsed.Competitors, models.Competitor{Name: "Budget C", Price: "₹299"})

	pages := Build(parsed, modelstest.Content(), sampleQuestions())

	cp := pages.ComparisonPage
	assert.Equal(t, "GlowBoost Vitamin C Serum", cp.Product)
	require.Len(t, cp.Competitors, 2)
	assert.Equal(t, models.CompetitorSummary{Name: "RadiantC Serum", Price: "₹899", Ingredients: []string{"Vitamin C", "Niacinamide"}}, cp.Competitors[0])
	assert.Equal(t, []string{}, cp.Competitors[1].Ingredients)
}

func TestBuild_EmptyInputsDefault(t *testing.T) {
	pages := Build(models.ParsedInput{}, models.ContentResult{}, models.QuestionSet{})

	data, err := json.Marshal(pages)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"product_page": {"headline":"","description":"","benefits":[],"usage":"","skin_type":[],"price":""},
		"faq_page": {"faqs":[]},
		"comparison_page": {"product":"","competitors":[]}
	}`, string(data))
}

func TestBuild_Idempotent(t *testing.T) {
	parsed := modelstest.ParsedInput(true)
	content := modelstest.Content()
	questions := sampleQuestions()

	first, err := json.Marshal(Build(parsed, content, questions))
	require.NoError(t, err)
	second, err := json.Marshal(Build(parsed, content, questions))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHandler_Execute(t *testing.T) {
	out, err := NewHandler(logger.NewTestLogger(t)).Execute(context.Background(), &Input{
		ParsedInput: modelstest.ParsedInput(false),
		Content:     modelstest.Content(),
		Questions:   sampleQuestions(),
	})

	require.NoError(t, err)
	assert.Empty(t, out.Pages.ComparisonPage.Competitors)
	assert.Len(t, out.Pages.FAQPage.FAQs, 3)
}
