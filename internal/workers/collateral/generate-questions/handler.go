// internal/workers/collateral/generate-questions/handler.go
package generatequestions

import (
	"context"
	"encoding/json"
	"fmt"

	"collateral-pipeline/internal/common/camunda"
	"collateral-pipeline/internal/common/errors"
	"collateral-pipeline/internal/common/genai"
	"collateral-pipeline/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-questions"
)

type Handler struct {
	config     *Config
	executor   *genai.Executor
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, executor *genai.Executor, log logger.Logger) *Handler {
	l := log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		executor:   executor,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, errors.NewGenerationFailedError(TaskType, fmt.Errorf("parse variables: %w", err)))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

// Execute returns whatever number of pairs the model produced.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var output Output
	err := h.executor.Execute(ctx, genai.Request{
		Stage:       TaskType,
		Prompt:      buildPrompt(input.ParsedInput),
		Schema:      OutputSchema,
		MaxAttempts: h.config.MaxAttempts,
	}, &output.Questions)
	if err != nil {
		return nil, errors.NewGenerationFailedError(TaskType, err)
	}
	output.QARetries = input.QARetries + 1

	h.logger.Info("questions generated", map[string]interface{}{
		"count":     len(output.Questions.QAPairs),
		"requested": RequestedPairs,
		"attempt":   output.QARetries,
	})
	return &output, nil
}
