package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/common/metrics"
	"collateral-pipeline/internal/common/validation"
)

var (
	ErrGenerationFailed  = errors.New("GENERATION_FAILED")
	ErrSchemaValidation  = errors.New("SCHEMA_VALIDATION_FAILED")
	ErrMalformedResponse = errors.New("MALFORMED_RESPONSE")
	ErrCheckFailed       = errors.New("CHECK_FAILED")
)

// Request is one structured generation call.
type Request struct {
	Stage       string
	Prompt      Prompt
	Schema      validation.JSONSchema
	MaxAttempts int
	// Check runs after schema validation on the decoded document.
	Check func(doc map[string]interface{}) error
}

// GenerationError is returned when every attempt of a request failed.
type GenerationError struct {
	Stage    string
	Attempts int
	Last     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: stage %s failed after %d attempt(s): %v", ErrGenerationFailed, e.Stage, e.Attempts, e.Last)
}

func (e *GenerationError) Unwrap() error { return e.Last }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// Executor calls the client until a response decodes to a schema-valid
// record or the attempt bound is reached.
type Executor struct {
	client  Client
	logger  logger.Logger
	backoff time.Duration
}

func NewExecutor(client Client, log logger.Logger, backoff time.Duration) *Executor {
	return &Executor{client: client, logger: log, backoff: backoff}
}

// Execute decodes the first valid response into out.
func (e *Executor) Execute(ctx context.Context, req Request, out interface{}) error {
	maxAttempts := req.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	prompt := Prompt{System: req.Prompt.System, User: req.Prompt.User + formatInstructions(req.Schema)}

	var last error
	attempts := 0
	for attempts < maxAttempts {
		if err := ctx.Err(); err != nil {
			last = err
			break
		}
		if attempts > 0 && e.backoff > 0 {
			select {
			case <-ctx.Done():
				last = ctx.Err()
				return &GenerationError{Stage: req.Stage, Attempts: attempts, Last: last}
			case <-time.After(e.backoff):
			}
		}
		attempts++

		raw, outcome, err := e.attempt(ctx, req, prompt)
		metrics.GenerationAttempts.WithLabelValues(req.Stage, outcome).Inc()
		if err == nil {
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("%w: decode into %T: %v", ErrMalformedResponse, out, err)
			}
			e.logger.Debug("structured call succeeded", map[string]interface{}{
				"stage":   req.Stage,
				"attempt": attempts,
			})
			return nil
		}

		last = err
		e.logger.Warn("structured call attempt failed", map[string]interface{}{
			"stage":       req.Stage,
			"attempt":     attempts,
			"maxAttempts": maxAttempts,
			"outcome":     outcome,
			"error":       err.Error(),
		})
	}

	return &GenerationError{Stage: req.Stage, Attempts: attempts, Last: last}
}

func (e *Executor) attempt(ctx context.Context, req Request, prompt Prompt) ([]byte, string, error) {
	text, err := e.client.Complete(ctx, prompt)
	if err != nil {
		return nil, metrics.OutcomeTransport, err
	}

	body := StripFences(text)
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, metrics.OutcomeMalformed, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if doc == nil {
		return nil, metrics.OutcomeMalformed, fmt.Errorf("%w: expected a JSON object", ErrMalformedResponse)
	}

	result, err := validation.ValidateDocument(doc, req.Schema)
	if err != nil {
		return nil, metrics.OutcomeSchema, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if !result.Valid {
		return nil, metrics.OutcomeSchema, fmt.Errorf("%w: %s", ErrSchemaValidation, strings.Join(result.GetErrorMessages(), "; "))
	}

	if req.Check != nil {
		if err := req.Check(doc); err != nil {
			return nil, metrics.OutcomeCheck, fmt.Errorf("%w: %v", ErrCheckFailed, err)
		}
	}

	return []byte(body), metrics.OutcomeSuccess, nil
}

func formatInstructions(schema validation.JSONSchema) string {
	return "\n\nRespond with a single JSON object that conforms to this JSON Schema. Do not add commentary.\n" +
		validation.Describe(schema)
}
