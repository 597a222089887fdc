// internal/workers/collateral/build-pages/handler.go
package buildpages

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"collateral-pipeline/internal/common/camunda"
	"collateral-pipeline/internal/common/errors"
	"collateral-pipeline/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "build-pages"
)

type Handler struct {
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(log logger.Logger) *Handler {
	l := log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{logger: l, errHandler: errors.NewErrorHandler(l)}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, fmt.Errorf("parse variables: %w", err))
		return
	}

	output, _ := h.Execute(ctx, &input)
	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

// Execute never returns an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	pages := Build(input.ParsedInput, input.Content, input.Questions)
	h.logger.Info("pages built", map[string]interface{}{
		"faqs":        len(pages.FAQPage.FAQs),
		"competitors": len(pages.ComparisonPage.Competitors),
	})
	return &Output{Pages: pages}, nil
}
