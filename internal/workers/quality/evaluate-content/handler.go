// internal/workers/quality/evaluate-content/handler.go
package evaluatecontent

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"collateral-pipeline/internal/common/camunda"
	"collateral-pipeline/internal/common/errors"
	"collateral-pipeline/internal/common/genai"
	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "evaluate-content"
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
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, fmt.Errorf("parse variables: %w", err))
		return
	}

	output, _ := h.Execute(ctx, &input)
	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

// Execute fails open: it always returns a verdict and a nil error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var result models.EvaluationResult
	err := h.executor.Execute(ctx, genai.Request{
		Stage:       TaskType,
		Prompt:      buildPrompt(input.ParsedInput, input.Content),
		Schema:      OutputSchema,
		MaxAttempts: h.config.MaxAttempts,
	}, &result)

	switch {
	case err == nil:
	case stderrors.Is(err, genai.ErrSchemaValidation):
		result = models.EvaluationResult{Status: models.EvaluationPass, Reason: ReasonFormatError}
	default:
		result = models.EvaluationResult{Status: models.EvaluationPass, Reason: ReasonErrorPrefix + err.Error()}
	}

	if err != nil {
		h.logger.Warn("evaluator failed open", map[string]interface{}{"error": err.Error()})
	} else {
		h.logger.Info("content evaluated", map[string]interface{}{
			"status": result.Status,
			"reason": result.Reason,
		})
	}

	return &Output{Evaluation: result}, nil
}
