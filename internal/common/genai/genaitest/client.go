// Package genaitest provides scripted generation clients for tests.
package genaitest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"collateral-pipeline/internal/common/genai"
)

// Reply is one scripted completion: Text, or Err when set.
type Reply struct {
	Text string
	Err  error
}

// ScriptedClient replays replies in order and repeats the last one once the
// script is exhausted. Routes, when set, pick a script by prompt content.
type ScriptedClient struct {
	mu      sync.Mutex
	script  []Reply
	routes  []route
	prompts []genai.Prompt
}

type route struct {
	marker string
	script []Reply
	next   int
}

func NewScriptedClient(replies ...Reply) *ScriptedClient {
	return &ScriptedClient{script: replies}
}

// Text builds a successful Reply.
func Text(s string) Reply { return Reply{Text: s} }

// Fail builds a failing Reply.
func Fail(msg string) Reply { return Reply{Err: errors.New(msg)} }

// Route serves replies for prompts whose system or user text contains marker.
func (c *ScriptedClient) Route(marker string, replies ...Reply) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes = append(c.routes, route{marker: marker, script: replies})
	return c
}

func (c *ScriptedClient) Complete(ctx context.Context, prompt genai.Prompt) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	for i := range c.routes {
		r := &c.routes[i]
		if strings.Contains(prompt.System, r.marker) || strings.Contains(prompt.User, r.marker) {
			return r.take()
		}
	}

	if len(c.script) == 0 {
		return "", errors.New("genaitest: no scripted reply")
	}
	reply := c.script[0]
	if len(c.script) > 1 {
		c.script = c.script[1:]
	}
	return reply.Text, reply.Err
}

func (r *route) take() (string, error) {
	if len(r.script) == 0 {
		return "", errors.New("genaitest: no scripted reply for " + r.marker)
	}
	idx := r.next
	if idx >= len(r.script) {
		idx = len(r.script) - 1
	} else {
		r.next++
	}
	return r.script[idx].Text, r.script[idx].Err
}

// Calls returns the number of Complete calls.
func (c *ScriptedClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

// CallsMatching counts calls whose prompt contains marker.
func (c *ScriptedClient) CallsMatching(marker string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.prompts {
		if strings.Contains(p.System, marker) || strings.Contains(p.User, marker) {
			n++
		}
	}
	return n
}

// Prompts returns a copy of every prompt received.
func (c *ScriptedClient) Prompts() []genai.Prompt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]genai.Prompt(nil), c.prompts...)
}
