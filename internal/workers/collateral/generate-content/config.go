// internal/workers/collateral/generate-content/config.go
package generatecontent

import (
	"time"

	"collateral-pipeline/internal/common/config"
)

type Config struct {
	MaxAttempts int
	Timeout     time.Duration
}

const DefaultMaxAttempts = 5

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		MaxAttempts: cfg.Pipeline.Attempts(TaskType, DefaultMaxAttempts),
		Timeout:     config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
