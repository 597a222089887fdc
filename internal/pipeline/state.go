// Package pipeline drives a single collateral run through its stages.
package pipeline

import (
	"collateral-pipeline/internal/models"
)

// StateID names a workflow state.
type StateID string

const (
	StateParse      StateID = "parse"
	StateAnalyze    StateID = "analyze"
	StateContent    StateID = "content"
	StateQuestions  StateID = "questions"
	StateGate       StateID = "gate"
	StateComparison StateID = "comparison"
	StatePageBuild  StateID = "page_build"
	StateSuccess    StateID = "success"
	StateFatal      StateID = "fatal"
)

// Terminal reports whether no further transition exists.
func (s StateID) Terminal() bool {
	return s == StateSuccess || s == StateFatal
}

// State is the per-run record. Only the Engine mutates it; stages see value
// snapshots and return a Delta.
type State struct {
	RunID    string
	RawInput map[string]interface{}

	ParsedInput *models.ParsedInput
	Analysis    *models.AnalysisResult
	Content     *models.ContentResult
	Questions   *models.QuestionSet
	QARetries   int
	Comparison  *models.ComparisonResult
	Pages       *models.PageBundle

	Current StateID
	Trace   []StateID
	Err     error
}

// Delta is a stage's contribution to State. Nil fields are left unchanged.
type Delta struct {
	ParsedInput *models.ParsedInput
	Analysis    *models.AnalysisResult
	Content     *models.ContentResult
	Questions   *models.QuestionSet
	// QuestionAttempt counts one more question generation.
	QuestionAttempt bool
	Comparison      *models.ComparisonResult
	Pages           *models.PageBundle
}

func (s *State) apply(d Delta) {
	if d.ParsedInput != nil {
		s.ParsedInput = d.ParsedInput
	}
	if d.Analysis != nil {
		s.Analysis = d.Analysis
	}
	if d.Content != nil {
		s.Content = d.Content
	}
	if d.Questions != nil {
		s.Questions = d.Questions
	}
	if d.QuestionAttempt {
		s.QARetries++
	}
	if d.Comparison != nil {
		s.Comparison = d.Comparison
	}
	if d.Pages != nil {
		s.Pages = d.Pages
	}
}

// Artifacts collects the materialized outputs of a successful run.
func (s *State) Artifacts() models.RunArtifacts {
	a := models.RunArtifacts{RunID: s.RunID}
	if s.Analysis != nil {
		a.Analysis = *s.Analysis
	}
	if s.Content != nil {
		a.Content = *s.Content
	}
	if s.Comparison != nil {
		a.Comparison = *s.Comparison
	}
	if s.Pages != nil {
		a.Pages = *s.Pages
	}
	return a
}
