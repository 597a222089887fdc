package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"collateral-pipeline/internal/common/config"
	"collateral-pipeline/internal/common/genai"
	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/common/observability"
	"collateral-pipeline/internal/pipeline"
	analyzeinput "collateral-pipeline/internal/workers/collateral/analyze-input"
	buildpages "collateral-pipeline/internal/workers/collateral/build-pages"
	checkquestioncount "collateral-pipeline/internal/workers/collateral/check-question-count"
	generatecomparison "collateral-pipeline/internal/workers/collateral/generate-comparison"
	generatecontent "collateral-pipeline/internal/workers/collateral/generate-content"
	generatequestions "collateral-pipeline/internal/workers/collateral/generate-questions"
	parseinput "collateral-pipeline/internal/workers/collateral/parse-input"
	evaluatecontent "collateral-pipeline/internal/workers/quality/evaluate-content"
)

// app holds everything a subcommand needs once config is loaded.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	obs       *observability.Observability
	stages    pipeline.Stages
	evaluator *evaluatecontent.Handler
}

func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	client, err := genai.NewOpenAIClient(genai.OpenAISettings{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     config.GetDuration(cfg.LLM.Timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	var obs *observability.Observability
	if cfg.Observability.MetricsEnabled {
		obs, err = observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			return nil, fmt.Errorf("observability: %w", err)
		}
	}

	exec := genai.NewExecutor(client, log, config.GetDuration(cfg.Pipeline.RetryBackoff))

	a := &app{
		cfg: cfg,
		log: log,
		obs: obs,
		stages: pipeline.Stages{
			Parse:      parseinput.NewHandler(parseinput.LoadConfig(cfg), log),
			Analyze:    analyzeinput.NewHandler(analyzeinput.LoadConfig(cfg), exec, log),
			Content:    generatecontent.NewHandler(generatecontent.LoadConfig(cfg), exec, log),
			Questions:  generatequestions.NewHandler(generatequestions.LoadConfig(cfg), exec, log),
			Gate:       checkquestioncount.NewHandler(checkquestioncount.LoadConfig(cfg), log),
			Comparison: generatecomparison.NewHandler(generatecomparison.LoadConfig(cfg), exec, log),
			Pages:      buildpages.NewHandler(log),
		},
		evaluator: evaluatecontent.NewHandler(evaluatecontent.LoadConfig(cfg), exec, log),
	}

	log.Info("configuration loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
		"provider":    cfg.LLM.Provider,
		"model":       cfg.LLM.Model,
		"sink":        cfg.Output.Sink,
	})
	return a, nil
}

func (a *app) Close() {
	a.obs.Shutdown()
}
