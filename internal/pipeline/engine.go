package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"collateral-pipeline/internal/common/errors"
	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/common/metrics"
	"collateral-pipeline/internal/common/observability"
	analyzeinput "collateral-pipeline/internal/workers/collateral/analyze-input"
	buildpages "collateral-pipeline/internal/workers/collateral/build-pages"
	checkquestioncount "collateral-pipeline/internal/workers/collateral/check-question-count"
	generatecomparison "collateral-pipeline/internal/workers/collateral/generate-comparison"
	generatecontent "collateral-pipeline/internal/workers/collateral/generate-content"
	generatequestions "collateral-pipeline/internal/workers/collateral/generate-questions"
	parseinput "collateral-pipeline/internal/workers/collateral/parse-input"
)

// Stages are the handlers the engine runs in-process.
type Stages struct {
	Parse      *parseinput.Handler
	Analyze    *analyzeinput.Handler
	Content    *generatecontent.Handler
	Questions  *generatequestions.Handler
	Gate       *checkquestioncount.Handler
	Comparison *generatecomparison.Handler
	Pages      *buildpages.Handler
}

// step runs one state against a snapshot and names the next state.
type step func(ctx context.Context, s State) (Delta, StateID, error)

// Engine is the workflow state machine. One Engine may serve many runs
// concurrently; each run owns its State.
type Engine struct {
	steps  map[StateID]step
	stages map[StateID]string
	tracer trace.Tracer
	logger logger.Logger
}

func NewEngine(st Stages, log logger.Logger) *Engine {
	e := &Engine{
		tracer: observability.Tracer(),
		logger: log,
		stages: map[StateID]string{
			StateParse:      parseinput.TaskType,
			StateAnalyze:    analyzeinput.TaskType,
			StateContent:    generatecontent.TaskType,
			StateQuestions:  generatequestions.TaskType,
			StateGate:       checkquestioncount.TaskType,
			StateComparison: generatecomparison.TaskType,
			StatePageBuild:  buildpages.TaskType,
		},
	}

	e.steps = map[StateID]step{
		StateParse: func(ctx context.Context, s State) (Delta, StateID, error) {
			out, err := st.Parse.Execute(ctx, &parseinput.Input{RawInput: s.RawInput})
			if err != nil {
				return Delta{}, StateFatal, err
			}
			return Delta{ParsedInput: &out.ParsedInput}, StateAnalyze, nil
		},
		StateAnalyze: func(ctx context.Context, s State) (Delta, StateID, error) {
			out, err := st.Analyze.Execute(ctx, &analyzeinput.Input{ParsedInput: *s.ParsedInput})
			if err != nil {
				return Delta{}, StateFatal, err
			}
			return Delta{Analysis: &out.Analysis}, StateContent, nil
		},
		StateContent: func(ctx context.Context, s State) (Delta, StateID, error) {
			out, err := st.Content.Execute(ctx, &generatecontent.Input{ParsedInput: *s.ParsedInput, Analysis: *s.Analysis})
			if err != nil {
				return Delta{}, StateFatal, err
			}
			return Delta{Content: &out.Content}, StateQuestions, nil
		},
		StateQuestions: func(ctx context.Context, s State) (Delta, StateID, error) {
			out, err := st.Questions.Execute(ctx, &generatequestions.Input{ParsedInput: *s.ParsedInput, QARetries: s.QARetries})
			if err != nil {
				return Delta{}, StateFatal, err
			}
			return Delta{Questions: &out.Questions, QuestionAttempt: true}, StateGate, nil
		},
		StateGate: func(ctx context.Context, s State) (Delta, StateID, error) {
			out, err := st.Gate.Execute(ctx, &checkquestioncount.Input{Questions: *s.Questions, QARetries: s.QARetries})
			if err != nil {
				return Delta{}, StateFatal, err
			}
			if out.Decision == checkquestioncount.DecisionRetry {
				return Delta{}, StateQuestions, nil
			}
			return Delta{}, StateComparison, nil
		},
		StateComparison: func(ctx context.Context, s State) (Delta, StateID, error) {
			out, err := st.Comparison.Execute(ctx, &generatecomparison.Input{ParsedInput: *s.ParsedInput})
			if err != nil {
				return Delta{}, StateFatal, err
			}
			return Delta{Comparison: &out.Comparison}, StatePageBuild, nil
		},
		StatePageBuild: func(ctx context.Context, s State) (Delta, StateID, error) {
			out, err := st.Pages.Execute(ctx, &buildpages.Input{ParsedInput: *s.ParsedInput, Content: *s.Content, Questions: *s.Questions})
			if err != nil {
				return Delta{}, StateFatal, err
			}
			return Delta{Pages: &out.Pages}, StateSuccess, nil
		},
	}

	return e
}

// Run drives raw through every state until Success or Fatal. The returned
// State is always non-nil; on failure Err holds the terminal error.
func (e *Engine) Run(ctx context.Context, runID string, raw map[string]interface{}) (*State, error) {
	state := &State{RunID: runID, RawInput: raw, Current: StateParse}
	log := e.logger.With(map[string]interface{}{"runId": runID})

	ctx, runSpan := e.tracer.Start(ctx, "collateral.run", trace.WithAttributes(attribute.String("run.id", runID)))
	defer runSpan.End()

	for !state.Current.Terminal() {
		if err := ctx.Err(); err != nil {
			state.Err = errors.Normalize(err)
			break
		}
		current := state.Current
		state.Trace = append(state.Trace, current)

		fn, ok := e.steps[current]
		if !ok {
			state.Err = errors.Normalize(fmt.Errorf("no step registered for state %q", current))
			break
		}

		attempt := 1
		if current == StateQuestions {
			attempt = state.QARetries + 1
		}
		log.Info("entering state", map[string]interface{}{
			"state":   string(current),
			"attempt": attempt,
		})

		delta, next, err := e.runStep(ctx, fn, current, *state)
		if err != nil {
			state.Err = err
			log.Error("run aborted", map[string]interface{}{
				"state":     string(current),
				"errorCode": string(errors.Code(err)),
				"error":     err.Error(),
			})
			break
		}

		state.apply(delta)
		state.Current = next
	}

	if state.Err != nil {
		state.Current = StateFatal
		state.Trace = append(state.Trace, StateFatal)
		runSpan.RecordError(state.Err)
		runSpan.SetStatus(codes.Error, string(errors.Code(state.Err)))
		return state, state.Err
	}

	state.Trace = append(state.Trace, StateSuccess)
	log.Info("run succeeded", map[string]interface{}{
		"states":    len(state.Trace),
		"qaRetries": state.QARetries,
	})
	return state, nil
}

func (e *Engine) runStep(ctx context.Context, fn step, id StateID, snapshot State) (Delta, StateID, error) {
	stage := e.stages[id]
	ctx, span := e.tracer.Start(ctx, "collateral.stage."+stage)
	defer span.End()

	start := time.Now()
	delta, next, err := fn(ctx, snapshot)
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())

	span.SetAttributes(attribute.String("state.next", string(next)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return delta, next, err
}
