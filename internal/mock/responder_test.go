package mock

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestResponder() *Responder {
	return NewResponder(0, 0)
}

func TestRespond_CoursesCategory(t *testing.T) {
	r := newTestResponder()
	got := r.Respond(context.Background(), "Show me available courses")
	if !strings.Contains(got, "Available Courses") {
		t.Errorf("expected courses response to contain heading 'Available Courses', got %q", got)
	}
}

func TestRespond_CategoryKeywords(t *testing.T) {
	r := newTestResponder()

	tests := []struct {
		prompt   string
		fragment string
	}{
		{"what courses should I take?", "Available Courses"},
		{"any RECENT JOBS in dallas?", "Job Market"},
		{"explain these terms to me", "Terms Explained"},
		{"help with project planning", "Project Planning"},
		{"got any learning resources?", "Learning Resources"},
	}

	for _, tt := range tests {
		got := r.Respond(context.Background(), tt.prompt)
		if !strings.Contains(got, tt.fragment) {
			t.Errorf("Respond(%q) missing fragment %q", tt.prompt, tt.fragment)
		}
	}
}

func TestRespond_MatchOrderIsDeclarationOrder(t *testing.T) {
	r := newTestResponder()

	// Prompt contains both "courses" and "learning resources";
	// "courses" is declared first and must win.
	got := r.Respond(context.Background(), "courses or learning resources?")
	if !strings.Contains(got, "Available Courses") {
		t.Errorf("expected first-declared category to win, got %q", got)
	}

	want := []string{"courses", "recent jobs", "terms", "project planning", "learning resources"}
	cats := r.Categories()
	if len(cats) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(cats))
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("category[%d] = %q, want %q", i, cats[i], want[i])
		}
	}
}

func TestRespond_GenericEchoesPrompt(t *testing.T) {
	r := newTestResponder()

	prompt := "Tell Me About Quantum Basket Weaving"
	got := r.Respond(context.Background(), prompt)
	if got == "" {
		t.Fatal("expected non-empty generic response")
	}
	// The echo must preserve the original casing.
	if !strings.Contains(got, prompt) {
		t.Errorf("expected generic response to echo prompt verbatim, got %q", got)
	}
}

func TestRespond_TotalOverAllInputs(t *testing.T) {
	r := newTestResponder()

	for _, prompt := range []string{"", "   ", "?", strings.Repeat("x", 10000)} {
		if got := r.Respond(context.Background(), prompt); got == "" {
			t.Errorf("expected non-empty response for prompt %q", prompt)
		}
	}
}

func TestRespond_DelayRespectsContext(t *testing.T) {
	r := NewResponder(5*time.Second, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	got := r.Respond(ctx, "courses")
	elapsed := time.Since(start)

	if got == "" {
		t.Error("expected a response even when the context expires mid-delay")
	}
	if elapsed > 2*time.Second {
		t.Errorf("expected cancellation to cut the delay short, took %s", elapsed)
	}
}

func TestNewResponder_SwappedBounds(t *testing.T) {
	r := NewResponder(3*time.Second, 1*time.Second)
	if r.maxDelay != r.minDelay {
		t.Errorf("expected maxDelay clamped up to minDelay, got min=%s max=%s", r.minDelay, r.maxDelay)
	}
}
