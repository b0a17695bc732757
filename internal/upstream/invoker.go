// Package upstream issues the single bounded HTTP call to the managed
// agent endpoint and classifies its result into a closed outcome set.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/skillbridge-ai/skillbridge/internal/config"
)

// Invoker sends chat prompts to the upstream agent. Configuration is
// read through a getter so hot-reloads take effect without rebuilding
// the invoker.
type Invoker struct {
	cfg    func() config.UpstreamConfig
	client *http.Client
}

func NewInvoker(cfg func() config.UpstreamConfig, client *http.Client) *Invoker {
	if client == nil {
		client = &http.Client{}
	}
	return &Invoker{cfg: cfg, client: client}
}

type invokeRequestBody struct {
	InputText      string   `json:"inputText"`
	ConversationID string   `json:"conversationId"`
	Settings       Settings `json:"settings"`
}

type invokeResponseBody struct {
	OutputText string `json:"outputText"`
	Response   string `json:"response"`
	Message    string `json:"message"`
	Metadata   struct {
		Sources []string `json:"sources"`
	} `json:"metadata"`
}

// text returns the first non-empty payload field, in priority order.
func (b invokeResponseBody) text() string {
	for _, s := range []string{b.OutputText, b.Response, b.Message} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Invoke makes exactly one upstream attempt — no retry — and maps the
// result onto the Outcome taxonomy. A client-side abort after the
// configured timeout is reported as OutcomeTimeout, distinct from
// other transport failures.
func (inv *Invoker) Invoke(ctx context.Context, message, conversationID string, settings Settings) Outcome {
	cfg := inv.cfg()
	if cfg.ChatURL == "" {
		return Outcome{Kind: OutcomeNotConfigured, Message: "upstream endpoint not configured"}
	}
	return inv.post(ctx, cfg.ChatURL, invokeRequestBody{
		InputText:      message,
		ConversationID: conversationID,
		Settings:       settings,
	})
}

func (inv *Invoker) post(ctx context.Context, url string, payload interface{}) Outcome {
	cfg := inv.cfg()

	data, err := json.Marshal(payload)
	if err != nil {
		return Outcome{Kind: OutcomeNetworkFailure, Message: fmt.Sprintf("marshal upstream request: %v", err)}
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return Outcome{Kind: OutcomeNetworkFailure, Message: fmt.Sprintf("create upstream request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.BearerToken)
	}

	resp, err := inv.client.Do(req)
	if err != nil {
		if isTimeout(callCtx, err) {
			return Outcome{Kind: OutcomeTimeout, Message: "upstream call exceeded timeout"}
		}
		return Outcome{Kind: OutcomeNetworkFailure, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(callCtx, err) {
			return Outcome{Kind: OutcomeTimeout, Message: "upstream call exceeded timeout"}
		}
		return Outcome{Kind: OutcomeNetworkFailure, Message: fmt.Sprintf("read upstream response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return Outcome{Kind: OutcomeUpstreamError, Status: resp.StatusCode, Message: msg}
	}

	var parsed invokeResponseBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Outcome{Kind: OutcomeNetworkFailure, Message: fmt.Sprintf("decode upstream response: %v", err)}
	}

	text := parsed.text()
	if text == "" {
		// Parseable but useless; the caller must still get an answer.
		return Outcome{Kind: OutcomeUpstreamError, Status: resp.StatusCode, Message: "upstream returned empty response"}
	}

	return Outcome{
		Kind:    OutcomeSuccess,
		Text:    text,
		Sources: parsed.Metadata.Sources,
	}
}

// isTimeout distinguishes the per-call deadline firing from other
// transport errors.
func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
