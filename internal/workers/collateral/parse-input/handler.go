// internal/workers/collateral/parse-input/handler.go
package parseinput

import (
	"context"
	"encoding/json"
	"fmt"

	"collateral-pipeline/internal/common/camunda"
	"collateral-pipeline/internal/common/errors"
	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/common/validation"
	"collateral-pipeline/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "parse-input"
)

type Handler struct {
	config     *Config
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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
		h.errHandler.HandleJobError(ctx, client, job, errors.NewInputValidationError([]string{fmt.Sprintf("variables: %v", err)}))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

// Execute checks field presence and types, then maps the raw record onto
// ParsedInput without normalizing or defaulting any value.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.RawInput == nil {
		return nil, errors.NewInputValidationError([]string{"product: required field missing"})
	}

	result := validation.ValidateInput(input.RawInput, InputSchema)
	if !result.Valid {
		fields := result.GetErrorMessages()
		h.logger.Warn("input record rejected", map[string]interface{}{
			"errorCount": len(fields),
			"fields":     fields,
		})
		return nil, errors.NewInputValidationError(fields)
	}

	data, err := json.Marshal(input.RawInput)
	if err != nil {
		return nil, errors.NewInputValidationError([]string{fmt.Sprintf("record: %v", err)})
	}
	var parsed models.ParsedInput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, errors.NewInputValidationError([]string{fmt.Sprintf("record: %v", err)})
	}
	if parsed.Competitors == nil {
		parsed.Competitors = []models.Competitor{}
	}

	h.logger.Info("input parsed", map[string]interface{}{
		"product":     parsed.Product.Name,
		"competitors": len(parsed.Competitors),
	})

	return &Output{ParsedInput: parsed}, nil
}
