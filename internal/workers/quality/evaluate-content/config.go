// internal/workers/quality/evaluate-content/config.go
package evaluatecontent

import (
	"time"

	"collateral-pipeline/internal/common/config"
)

type Config struct {
	MaxAttempts int
	Timeout     time.Duration
}

const DefaultMaxAttempts = 1

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		MaxAttempts: cfg.Pipeline.Attempts(TaskType, DefaultMaxAttempts),
		Timeout:     config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
