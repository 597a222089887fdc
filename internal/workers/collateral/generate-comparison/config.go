// internal/workers/collateral/generate-comparison/config.go
package generatecomparison

import (
	"time"

	"collateral-pipeline/internal/common/config"
)

type Config struct {
	MaxAttempts int
	Timeout     time.Duration
}

const DefaultMaxAttempts = 3

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		MaxAttempts: cfg.Pipeline.Attempts(TaskType, DefaultMaxAttempts),
		Timeout:     config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
