// Package mock provides the local fallback responder used whenever the
// upstream agent is unconfigured, failing, or too slow. It simulates
// upstream latency so the perceived behavior of the chat endpoint is
// the same whichever side produced the answer.
package mock

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// rule pairs a lowercase keyword with its canned response. Rules are
// evaluated top-to-bottom, first match wins, so the match order is an
// inspectable data structure rather than map iteration order.
type rule struct {
	keyword  string
	response string
}

type Responder struct {
	rules    []rule
	generics []string
	minDelay time.Duration
	maxDelay time.Duration
}

// NewResponder creates a responder with the given simulated latency
// bounds. Both bounds zero disables the delay (used by tests).
func NewResponder(minDelay, maxDelay time.Duration) *Responder {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Responder{
		rules:    categoryRules,
		generics: genericTemplates,
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Respond produces a canned answer for the prompt. Keyword categories
// are checked in declaration order against the lowercased prompt; an
// unmatched prompt gets one pseudo-randomly chosen generic template
// echoing the original prompt text. Total over all strings.
func (r *Responder) Respond(ctx context.Context, prompt string) string {
	r.sleep(ctx)

	lower := strings.ToLower(prompt)
	for _, rl := range r.rules {
		if strings.Contains(lower, rl.keyword) {
			return rl.response
		}
	}

	tmpl := r.generics[rand.Intn(len(r.generics))]
	return fmt.Sprintf(tmpl, prompt)
}

// Categories returns the keyword match order.
func (r *Responder) Categories() []string {
	out := make([]string, len(r.rules))
	for i, rl := range r.rules {
		out[i] = rl.keyword
	}
	return out
}

// sleep blocks for a uniform duration in [minDelay, maxDelay], or until
// the context is done, whichever comes first.
func (r *Responder) sleep(ctx context.Context) {
	if r.maxDelay <= 0 {
		return
	}
	d := r.minDelay
	if span := r.maxDelay - r.minDelay; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
