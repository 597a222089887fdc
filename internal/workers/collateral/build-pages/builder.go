package buildpages

import "collateral-pipeline/internal/models"

// Build assembles the page bundle. It is deterministic and never fails;
// missing optional values become empty strings and lists.
func Build(parsed models.ParsedInput, content models.ContentResult, questions models.QuestionSet) models.PageBundle {
	product := parsed.Product

	faqs := make([]models.FAQ, 0, len(questions.QAPairs))
	for _, qa := range questions.QAPairs {
		answer := qa.Answer
		if answer == "" {
			answer = AnswerNotProvided
		}
		faqs = append(faqs, models.FAQ{Question: qa.Question, Answer: answer})
	}

	competitors := make([]models.CompetitorSummary, 0, len(parsed.Competitors))
	for _, c := range parsed.Competitors {
		competitors = append(competitors, models.CompetitorSummary{
			Name:        c.Name,
			Price:       c.Price,
			Ingredients: orEmpty(c.Ingredients),
		})
	}

	return models.PageBundle{
		ProductPage: models.ProductPage{
			Headline:    content.Headline,
			Description: product.Description,
			Benefits:    orEmpty(product.Benefits),
			Usage:       product.Usage,
			SkinType:    orEmpty(product.SkinType),
			Price:       product.Price,
		},
		FAQPage: models.FAQPage{FAQs: faqs},
		ComparisonPage: models.ComparisonPage{
			Product:     product.Name,
			Competitors: competitors,
		},
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
