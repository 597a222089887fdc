package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"collateral-pipeline/internal/artifacts"
	"collateral-pipeline/internal/common/errors"
	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/common/metrics"
	"collateral-pipeline/internal/common/observability"
	"collateral-pipeline/internal/models"
	"collateral-pipeline/internal/notify"
)

// Result is what a caller gets back from one run.
type Result struct {
	RunID     string
	Artifacts models.RunArtifacts
	Trace     []StateID
	QARetries int
	Duration  time.Duration
}

// Coordinator runs the engine, persists artifacts of successful runs and
// reports every terminal state.
type Coordinator struct {
	engine   *Engine
	sink     artifacts.Sink
	notifier notify.Notifier
	obs      *observability.Observability
	logger   logger.Logger
	newID    func() string
}

type Option func(*Coordinator)

func WithNotifier(n notify.Notifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

func WithObservability(o *observability.Observability) Option {
	return func(c *Coordinator) { c.obs = o }
}

// WithRunIDs replaces uuid generation.
func WithRunIDs(fn func() string) Option {
	return func(c *Coordinator) { c.newID = fn }
}

func NewCoordinator(engine *Engine, sink artifacts.Sink, log logger.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine:   engine,
		sink:     sink,
		notifier: notify.Nop{},
		logger:   log,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one record end to end. Result is non-nil even on failure so
// callers can inspect the trace; artifacts are written only on success.
func (c *Coordinator) Run(ctx context.Context, raw map[string]interface{}) (*Result, error) {
	runID := c.newID()
	start := time.Now()

	state, err := c.engine.Run(ctx, runID, raw)
	result := &Result{
		RunID:     runID,
		Trace:     state.Trace,
		QARetries: state.QARetries,
	}

	if err == nil {
		result.Artifacts = state.Artifacts()
		if werr := c.sink.Write(ctx, result.Artifacts); werr != nil {
			err = errors.NewArtifactWriteFailedError(c.sink.Name(), werr)
		}
	}
	result.Duration = time.Since(start)

	status := notify.StatusSucceeded
	if err != nil {
		status = notify.StatusFailed
	}
	metrics.RunsTotal.WithLabelValues(status).Inc()
	c.obs.RecordRun(ctx, result.Duration, status)

	c.notify(ctx, result, err)

	log := c.logger.With(map[string]interface{}{"runId": runID})
	if err != nil {
		log.Error("run failed", map[string]interface{}{
			"errorCode":  string(errors.Code(err)),
			"error":      err.Error(),
			"durationMs": result.Duration.Milliseconds(),
		})
		return result, err
	}
	log.Info("run completed", map[string]interface{}{
		"sink":       c.sink.Name(),
		"durationMs": result.Duration.Milliseconds(),
	})
	return result, nil
}

func (c *Coordinator) notify(ctx context.Context, r *Result, runErr error) {
	s := notify.Summary{
		RunID:      r.RunID,
		Status:     notify.StatusSucceeded,
		QARetries:  r.QARetries,
		Sink:       c.sink.Name(),
		DurationMs: r.Duration.Milliseconds(),
		FinishedAt: time.Now().UTC(),
	}
	for _, id := range r.Trace {
		s.Trace = append(s.Trace, string(id))
	}
	if runErr != nil {
		s.Status = notify.StatusFailed
		s.ErrorCode = string(errors.Code(runErr))
		s.Error = runErr.Error()
	}

	// A cancelled run still gets reported.
	notifyCtx := context.WithoutCancel(ctx)
	if err := c.notifier.Notify(notifyCtx, s); err != nil {
		c.logger.Warn("run notification failed", map[string]interface{}{
			"runId": r.RunID,
			"error": err.Error(),
		})
	}
}
