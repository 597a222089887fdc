// Package genai wraps the text generation capability and the structured-call
// executor that turns free text into schema-valid records.
package genai

import "context"

// Client returns the raw text of one completion.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

type Prompt struct {
	System string
	User   string
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, prompt Prompt) (string, error)

func (f ClientFunc) Complete(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}
