// internal/models/artifacts.go
package models

const (
	CategoryInformational = "Informational"
	CategoryUsage         = "Usage"
	CategorySafety        = "Safety"
	CategoryPurchase      = "Purchase"
	CategoryComparison    = "Comparison"
)

// QuestionCategories lists every allowed QAPair category.
var QuestionCategories = []string{
	CategoryInformational,
	CategoryUsage,
	CategorySafety,
	CategoryPurchase,
	CategoryComparison,
}

const (
	SkinOily      = "Oily"
	SkinDry       = "Dry"
	SkinSensitive = "Sensitive"
)

// SkinTypes are the verdict categories every comparison must cover.
var SkinTypes = []string{SkinOily, SkinDry, SkinSensitive}

type AnalysisResult struct {
	KeyQuestions []string `json:"key_questions"`
	Observations []string `json:"observations"`
}

type ContentResult struct {
	Headline          string   `json:"headline"`
	ValueProposition  []string `json:"value_proposition"`
	FeatureHighlights []string `json:"feature_highlights"`
}

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Category string `json:"category"`
}

type QuestionSet struct {
	QAPairs []QAPair `json:"qa_pairs"`
}

type SkinTypeVerdict struct {
	SkinType  string `json:"skin_type"`
	Winner    string `json:"winner"`
	Reasoning string `json:"reasoning"`
}

type ComparisonResult struct {
	ProductBName         string            `json:"product_b_name"`
	IngredientComparison string            `json:"ingredient_comparison"`
	BenefitComparison    string            `json:"benefit_comparison"`
	Verdicts             []SkinTypeVerdict `json:"verdicts"`
}

type ProductPage struct {
	Headline    string   `json:"headline"`
	Description string   `json:"description"`
	Benefits    []string `json:"benefits"`
	Usage       string   `json:"usage"`
	SkinType    []string `json:"skin_type"`
	Price       string   `json:"price"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQPage struct {
	FAQs []FAQ `json:"faqs"`
}

type CompetitorSummary struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Ingredients []string `json:"ingredients"`
}

type ComparisonPage struct {
	Product     string              `json:"product"`
	Competitors []CompetitorSummary `json:"competitors"`
}

type PageBundle struct {
	ProductPage    ProductPage    `json:"product_page"`
	FAQPage        FAQPage        `json:"faq_page"`
	ComparisonPage ComparisonPage `json:"comparison_page"`
}

const (
	EvaluationPass = "PASS"
	EvaluationFail = "FAIL"
)

type EvaluationResult struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// RunArtifacts is what a successful run materializes.
type RunArtifacts struct {
	RunID      string           `json:"run_id"`
	Analysis   AnalysisResult   `json:"analysis"`
	Content    ContentResult    `json:"content"`
	Comparison ComparisonResult `json:"comparison"`
	Pages      PageBundle       `json:"pages"`
}
