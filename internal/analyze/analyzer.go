// Package analyze turns an uploaded resume into structured career
// guidance via the analysis upstream, with a deterministic local
// fallback so the endpoint stays useful when the upstream cannot help.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/skillbridge-ai/skillbridge/internal/config"
)

// Analysis is the structured result shape returned to the caller.
type Analysis struct {
	Insights         string   `json:"insights"`
	RecommendedRoles []string `json:"recommendedRoles"`
	MissingSkills    []string `json:"missingSkills"`
	ProjectIdeas     []string `json:"projectIdeas"`
	RelevantCourses  []string `json:"relevantCourses"`
}

// Source identifies which side produced the analysis.
const (
	SourceUpstream = "upstream"
	SourceMock     = "mock"
)

type Analyzer struct {
	cfg    func() config.UpstreamConfig
	client *http.Client
	logger *slog.Logger
}

func NewAnalyzer(cfg func() config.UpstreamConfig, client *http.Client, logger *slog.Logger) *Analyzer {
	if client == nil {
		client = &http.Client{}
	}
	return &Analyzer{cfg: cfg, client: client, logger: logger}
}

type analyzeRequestBody struct {
	S3Key          string `json:"s3Key"`
	UserPrompt     string `json:"userPrompt"`
	ConversationID string `json:"conversationId"`
}

type analyzeResponseBody struct {
	Analysis Analysis `json:"analysis"`
}

// Analyze makes at most one upstream attempt and falls back to the
// canned analysis on any failure. The returned source tags which side
// answered; the Analysis itself is always usable.
func (a *Analyzer) Analyze(ctx context.Context, s3Key, userPrompt, conversationID string) (*Analysis, string) {
	cfg := a.cfg()
	if cfg.AnalyzeURL == "" {
		return fallbackAnalysis(userPrompt), SourceMock
	}

	result, err := a.post(ctx, cfg, analyzeRequestBody{
		S3Key:          s3Key,
		UserPrompt:     userPrompt,
		ConversationID: conversationID,
	})
	if err != nil {
		a.logger.Warn("analysis upstream failed, using fallback",
			"conversation_id", conversationID,
			"s3_key", s3Key,
			"error", err,
		)
		return fallbackAnalysis(userPrompt), SourceMock
	}
	return result, SourceUpstream
}

func (a *Analyzer) post(ctx context.Context, cfg config.UpstreamConfig, payload analyzeRequestBody) (*Analysis, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, cfg.AnalyzeURL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.BearerToken)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{status: resp.StatusCode}
	}

	var parsed analyzeResponseBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	if parsed.Analysis.Insights == "" {
		return nil, errEmptyAnalysis
	}
	return &parsed.Analysis, nil
}
