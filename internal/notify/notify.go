// Package notify publishes a summary when a run reaches a terminal state.
package notify

import (
	"context"
	"time"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Summary describes a finished run.
type Summary struct {
	RunID     string   `json:"run_id"`
	Status    string   `json:"status"`
	ErrorCode string   `json:"error_code,omitempty"`
	Error     string   `json:"error,omitempty"`
	Trace     []string `json:"trace"`
	QARetries int      `json:"qa_retries"`
	Sink      string   `json:"sink,omitempty"`
	// DurationMs is wall time for the whole run.
	DurationMs int64     `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

type Notifier interface {
	Notify(ctx context.Context, s Summary) error
}

// Nop discards every summary.
type Nop struct{}

func (Nop) Notify(context.Context, Summary) error { return nil }
