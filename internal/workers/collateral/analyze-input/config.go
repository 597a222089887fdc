// internal/workers/collateral/analyze-input/config.go
package analyzeinput

import (
	"time"

	"collateral-pipeline/internal/common/config"
)

type Config struct {
	MaxAttempts int
	Timeout     time.Duration
}

// DefaultMaxAttempts is a single attempt: analysis failures are fatal.
// It is not configurable.
const DefaultMaxAttempts = 1

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		MaxAttempts: DefaultMaxAttempts,
		Timeout:     config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
