// internal/workers/collateral/check-question-count/config.go
package checkquestioncount

import "collateral-pipeline/internal/common/config"

type Config struct {
	MinQuestions int
	MaxAttempts  int
}

const (
	DefaultMinQuestions = 15
	DefaultMaxAttempts  = 3
)

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		MinQuestions: cfg.Pipeline.MinQuestions,
		MaxAttempts:  cfg.Pipeline.MaxQuestionTries,
	}
	if c.MinQuestions <= 0 {
		c.MinQuestions = DefaultMinQuestions
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}
