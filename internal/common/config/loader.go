// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default attempt bounds per stage task type.
var DefaultStageAttempts = map[string]int{
	"analyze-input":       1,
	"generate-content":    5,
	"generate-questions":  5,
	"generate-comparison": 3,
	"evaluate-content":    1,
}

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"

	GroqBaseURL      = "https://api.groq.com/openai/v1"
	GroqDefaultModel = "llama-3.3-70b-versatile"
	OpenAIBaseURL    = "https://api.openai.com/v1"
	OpenAIModel      = "gpt-4o-mini"
)

// Load reads configs/config.yaml (or path when given), merges
// config.<APP_ENVIRONMENT>.yaml and applies defaults and env fallbacks.
func Load(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../../configs")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading base config: %w", err)
			}
		}

		env := os.Getenv("APP_ENVIRONMENT")
		if env == "" {
			env = "development"
		}
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		_ = v.MergeInConfig()
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from conventional env vars.
func overrideEmptyConfig(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case ProviderGroq:
			cfg.LLM.APIKey = os.Getenv("GROQ_API_KEY")
		case ProviderOpenAI:
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "collateral-pipeline"
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderGroq
	}
	if cfg.LLM.BaseURL == "" {
		if cfg.LLM.Provider == ProviderOpenAI {
			cfg.LLM.BaseURL = OpenAIBaseURL
		} else {
			cfg.LLM.BaseURL = GroqBaseURL
		}
	}
	if cfg.LLM.Model == "" {
		if cfg.LLM.Provider == ProviderOpenAI {
			cfg.LLM.Model = OpenAIModel
		} else {
			cfg.LLM.Model = GroqDefaultModel
		}
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60000
	}

	if cfg.Pipeline.StageAttempts == nil {
		cfg.Pipeline.StageAttempts = map[string]int{}
	}
	for stage, n := range DefaultStageAttempts {
		if cfg.Pipeline.StageAttempts[stage] == 0 {
			cfg.Pipeline.StageAttempts[stage] = n
		}
	}
	if cfg.Pipeline.MinQuestions == 0 {
		cfg.Pipeline.MinQuestions = 15
	}
	if cfg.Pipeline.MaxQuestionTries == 0 {
		cfg.Pipeline.MaxQuestionTries = 3
	}
	if cfg.Pipeline.MaxConcurrentRuns == 0 {
		cfg.Pipeline.MaxConcurrentRuns = 4
	}

	if cfg.Output.Sink == "" {
		cfg.Output.Sink = "file"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "output"
	}
	if cfg.Output.Redis.KeyPrefix == "" {
		cfg.Output.Redis.KeyPrefix = "collateral:run:"
	}
	if cfg.Output.Redis.TTL == 0 {
		cfg.Output.Redis.TTL = 86400
	}
	if cfg.Output.Postgres.Table == "" {
		cfg.Output.Postgres.Table = "collateral_artifacts"
	}
	if cfg.Output.Elasticsearch.Index == "" {
		cfg.Output.Elasticsearch.Index = "collateral-artifacts"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 60000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}
	if cfg.Camunda.HealthPort == 0 {
		cfg.Camunda.HealthPort = 8080
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 60000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}

	if cfg.Observability.MetricsPort == 0 {
		cfg.Observability.MetricsPort = 9090
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.LLM.Provider {
	case ProviderGroq, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be one of [groq openai], got %q", cfg.LLM.Provider)
	}

	if cfg.Pipeline.MinQuestions < 1 {
		return fmt.Errorf("pipeline.min_questions must be positive")
	}
	if cfg.Pipeline.MaxQuestionTries < 1 {
		return fmt.Errorf("pipeline.max_question_attempts must be positive")
	}
	if n, ok := cfg.Pipeline.StageAttempts["analyze-input"]; ok && n != 1 {
		return fmt.Errorf("pipeline.stage_attempts.analyze-input must be 1, got %d", n)
	}
	if cfg.Pipeline.RetryBackoff < 0 {
		return fmt.Errorf("pipeline.retry_backoff must not be negative")
	}

	switch cfg.Output.Sink {
	case "file":
	case "redis":
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required for the redis sink")
		}
	case "postgres":
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required for the postgres sink")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required for the postgres sink")
		}
	case "elasticsearch":
		if len(cfg.Database.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("database.elasticsearch.addresses is required for the elasticsearch sink")
		}
	default:
		return fmt.Errorf("output.sink must be one of [file redis postgres elasticsearch], got %q", cfg.Output.Sink)
	}

	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.sns.topic_arn is required when sns is enabled")
	}

	return nil
}
