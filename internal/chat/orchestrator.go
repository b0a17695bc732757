// Package chat implements the request orchestration core: validate,
// consult the cache, attempt the upstream once, and fall back to the
// mock responder on any failure so every valid request gets an answer.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/skillbridge-ai/skillbridge/internal/cache"
	"github.com/skillbridge-ai/skillbridge/internal/telemetry"
	"github.com/skillbridge-ai/skillbridge/internal/upstream"
)

const (
	maxMessageChars = 10000

	defaultTemperature = 0.7
	defaultMaxTokens   = 1000

	// Error tags surfaced alongside a usable mock answer. The caller
	// still gets a 200; these only say why the upstream was bypassed.
	errTagTimeout  = "upstream timeout"
	errTagUpstream = "upstream error"
)

// ResponseCache is the advisory answer cache consulted before the
// upstream attempt.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Enabled() bool
}

// Invoker makes the single bounded upstream attempt.
type Invoker interface {
	Invoke(ctx context.Context, message, conversationID string, settings upstream.Settings) upstream.Outcome
}

// Fallback produces the local answer when the upstream cannot.
type Fallback interface {
	Respond(ctx context.Context, prompt string) string
}

type Orchestrator struct {
	cache   ResponseCache
	invoker Invoker
	mock    Fallback
	health  *upstream.HealthTracker
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

func NewOrchestrator(rc ResponseCache, inv Invoker, fb Fallback, health *upstream.HealthTracker, metrics *telemetry.Metrics, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cache:   rc,
		invoker: inv,
		mock:    fb,
		health:  health,
		metrics: metrics,
		logger:  logger,
	}
}

// cachedPayload is the serialized form stored in the response cache.
type cachedPayload struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources,omitempty"`
}

// Handle runs one request through the pipeline. It returns a
// *ValidationError for rejected input; any other error is internal.
// Side effects per call: at most one upstream attempt and at most one
// mock invocation, never both.
func (o *Orchestrator) Handle(ctx context.Context, req *Request) (*Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &ValidationError{Reason: "message is required"}
	}
	if utf8.RuneCountInString(req.Message) > maxMessageChars {
		return nil, &ValidationError{Reason: fmt.Sprintf("message too long: maximum %d characters", maxMessageChars)}
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = newSessionID()
	}

	settings := clampSettings(req.Settings)
	started := time.Now()

	key := cache.Normalize(message)
	if cached, ok := o.cache.Get(ctx, key); ok {
		var payload cachedPayload
		if err := json.Unmarshal([]byte(cached), &payload); err == nil && payload.Response != "" {
			o.logger.Info("chat served from cache",
				"conversation_id", conversationID,
				"duration_ms", time.Since(started).Milliseconds(),
			)
			o.record(SourceCache, upstream.OutcomeSuccess, started)
			return o.respond(payload.Response, conversationID, SourceCache, payload.Sources, ""), nil
		}
		// Unreadable entry: fall through as a miss.
		o.logger.Debug("discarding malformed cache entry", "key", key)
	}

	outcome := o.invoker.Invoke(ctx, message, conversationID, settings)
	switch outcome.Kind {
	case upstream.OutcomeSuccess:
		o.health.RecordSuccess()
		if data, err := json.Marshal(cachedPayload{Response: outcome.Text, Sources: outcome.Sources}); err == nil {
			o.cache.Set(ctx, key, string(data))
		}
		o.logger.Info("chat served from upstream",
			"conversation_id", conversationID,
			"duration_ms", time.Since(started).Milliseconds(),
		)
		o.record(SourceUpstream, outcome.Kind, started)
		return o.respond(outcome.Text, conversationID, SourceUpstream, outcome.Sources, ""), nil

	case upstream.OutcomeNotConfigured:
		// Not an upstream fault: config decides this path, so the
		// health tracker is left alone.

	default:
		o.health.RecordFailure()
	}

	errTag := errTagUpstream
	if outcome.Kind == upstream.OutcomeTimeout {
		errTag = errTagTimeout
	}

	o.logger.Warn("upstream failed, using mock fallback",
		"conversation_id", conversationID,
		"outcome", outcome.Kind.String(),
		"status", outcome.Status,
		"detail", outcome.Message,
	)

	text := o.mock.Respond(ctx, message)
	o.logger.Info("chat served from mock",
		"conversation_id", conversationID,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	o.record(SourceMock, outcome.Kind, started)
	return o.respond(text, conversationID, SourceMock, nil, errTag), nil
}

func (o *Orchestrator) respond(text, conversationID string, source Source, sources []string, errTag string) *Response {
	resp := &Response{
		Response:       text,
		ConversationID: conversationID,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Source:         source,
		Error:          errTag,
	}
	if len(sources) > 0 {
		resp.Metadata = &Metadata{Sources: sources}
	}
	return resp
}

func (o *Orchestrator) record(source Source, outcome upstream.OutcomeKind, started time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordChat(telemetry.ChatLabels{
		Source:     string(source),
		Outcome:    outcome.String(),
		DurationMs: float64(time.Since(started).Milliseconds()),
	})
}

// clampSettings applies defaults for absent knobs and silently clamps
// out-of-range values into their valid intervals.
func clampSettings(s *RequestSettings) upstream.Settings {
	out := upstream.Settings{
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}
	if s == nil {
		return out
	}
	if s.Temperature != nil {
		out.Temperature = clampFloat(*s.Temperature, 0, 1)
	}
	if s.MaxTokens != nil {
		out.MaxTokens = clampInt(*s.MaxTokens, 1, 4000)
	}
	return out
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func newSessionID() string {
	return fmt.Sprintf("session_%d", time.Now().UnixMilli())
}
