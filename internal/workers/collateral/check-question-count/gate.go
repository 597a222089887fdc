package checkquestioncount

import "collateral-pipeline/internal/common/errors"

// Gate decides whether a question set is large enough to move on.
type Gate struct {
	MinQuestions int
	MaxAttempts  int
}

// Evaluate is pure. attempts is how many question generations have run.
func (g Gate) Evaluate(count, attempts int) (Decision, error) {
	if count >= g.MinQuestions {
		return DecisionAdvance, nil
	}
	if attempts < g.MaxAttempts {
		return DecisionRetry, nil
	}
	return DecisionAbort, errors.NewInsufficientQuestionsError(g.MinQuestions, count, attempts)
}
