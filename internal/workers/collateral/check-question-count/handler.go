// internal/workers/collateral/check-question-count/handler.go
package checkquestioncount

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"collateral-pipeline/internal/common/camunda"
	"collateral-pipeline/internal/common/errors"
	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "check-question-count"
)

type Handler struct {
	gate       Gate
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		gate:       Gate{MinQuestions: config.MinQuestions, MaxAttempts: config.MaxAttempts},
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
	}
}

// Handle routes the process on qa_decision; the process model loops back to
// generate-questions on "retry".
func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, fmt.Errorf("parse variables: %w", err))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	count := len(input.Questions.QAPairs)
	decision, err := h.gate.Evaluate(count, input.QARetries)
	metrics.QualityGateDecisions.WithLabelValues(string(decision)).Inc()

	fields := map[string]interface{}{
		"count":    count,
		"attempts": input.QARetries,
		"decision": string(decision),
	}
	if err != nil {
		h.logger.Error("question count below minimum after final attempt", fields)
		return nil, err
	}
	h.logger.Info("question count checked", fields)

	return &Output{Decision: decision}, nil
}
