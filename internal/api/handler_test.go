package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/skillbridge-ai/skillbridge/internal/analyze"
	"github.com/skillbridge-ai/skillbridge/internal/chat"
	"github.com/skillbridge-ai/skillbridge/internal/config"
	"github.com/skillbridge-ai/skillbridge/internal/httputil"
	"github.com/skillbridge-ai/skillbridge/internal/mock"
	"github.com/skillbridge-ai/skillbridge/internal/upstream"
)

type stubInvoker struct {
	outcome upstream.Outcome
}

func (s *stubInvoker) Invoke(ctx context.Context, message, conversationID string, settings upstream.Settings) upstream.Outcome {
	return s.outcome
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) (string, bool) { return "", false }
func (noopCache) Set(ctx context.Context, key, value string)         {}
func (noopCache) Enabled() bool                                      { return false }

type fakeStore struct {
	key string
	err error
}

func (f *fakeStore) Put(ctx context.Context, conversationID, fileName, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.key, nil
}

func newTestHandler(t *testing.T, inv *stubInvoker, store *fakeStore) *Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	health := upstream.NewHealthTracker(5, 15*time.Second)
	orch := chat.NewOrchestrator(noopCache{}, inv, mock.NewResponder(0, 0), health, nil, logger)

	analyzer := analyze.NewAnalyzer(func() config.UpstreamConfig {
		return config.UpstreamConfig{Timeout: time.Second}
	}, nil, logger)

	cfg := config.DefaultConfig()
	cfg.Storage.MaxUploadBytes = 1 << 20

	return NewHandler(orch, analyzer, store, health,
		func() bool { return false },
		func() *config.Config { return cfg },
		nil, "test")
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-test")
	h(rec, req)
	return rec
}

func TestChat_Success(t *testing.T) {
	inv := &stubInvoker{outcome: upstream.Outcome{Kind: upstream.OutcomeSuccess, Text: "an answer", Sources: []string{"kb.pdf"}}}
	h := newTestHandler(t, inv, &fakeStore{})

	rec := postJSON(t, h.Chat, `{"message":"what courses are available?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp chat.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Response != "an answer" {
		t.Errorf("expected upstream text, got %q", resp.Response)
	}
	if resp.Source != chat.SourceUpstream {
		t.Errorf("expected source upstream, got %s", resp.Source)
	}
	if resp.Metadata == nil || len(resp.Metadata.Sources) != 1 {
		t.Errorf("expected metadata sources, got %+v", resp.Metadata)
	}
}

func TestChat_EmptyMessage_BadRequest(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{})

	rec := postJSON(t, h.Chat, `{"message":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestChat_OversizedMessage_BadRequest(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{})

	body, _ := json.Marshal(map[string]string{"message": strings.Repeat("a", 10001)})
	rec := postJSON(t, h.Chat, string(body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "too long") {
		t.Errorf("expected body to mention 'too long', got %s", rec.Body.String())
	}
}

func TestChat_MalformedJSON_InternalError(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{})

	rec := postJSON(t, h.Chat, `{not json`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestChat_UnconfiguredUpstream_MockFallback(t *testing.T) {
	inv := &stubInvoker{outcome: upstream.Outcome{Kind: upstream.OutcomeNotConfigured}}
	h := newTestHandler(t, inv, &fakeStore{})

	rec := postJSON(t, h.Chat, `{"message":"Show me available courses"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp chat.Response
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Source != chat.SourceMock {
		t.Errorf("expected source mock, got %s", resp.Source)
	}
	if !strings.Contains(resp.Response, "Available Courses") {
		t.Errorf("expected canned courses response, got %q", resp.Response)
	}
}

func multipartBody(t *testing.T, fieldFile, fileName, contents, conversationID string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fieldFile != "" {
		fw, err := mw.CreateFormFile(fieldFile, fileName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(contents))
	}
	if conversationID != "" {
		mw.WriteField("conversationId", conversationID)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func postMultipart(t *testing.T, h http.HandlerFunc, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-test")
	h(rec, req)
	return rec
}

func TestUploadProxy_Success(t *testing.T) {
	store := &fakeStore{key: "resumes/conv-1/1700000000_ab12cd34_cv.pdf"}
	h := newTestHandler(t, &stubInvoker{}, store)

	body, ct := multipartBody(t, "file", "cv.pdf", "%PDF-1.4 fake", "conv-1")
	rec := postMultipart(t, h.UploadProxy, body, ct)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp uploadResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.S3Key != store.key {
		t.Errorf("expected key %q, got %q", store.key, resp.S3Key)
	}
	if resp.Timestamp == "" {
		t.Error("expected timestamp set")
	}
}

func TestUploadProxy_MissingFile(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{})

	body, ct := multipartBody(t, "", "", "", "conv-1")
	rec := postMultipart(t, h.UploadProxy, body, ct)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUploadProxy_UnsupportedType(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{})

	body, ct := multipartBody(t, "file", "malware.exe", "MZ", "conv-1")
	rec := postMultipart(t, h.UploadProxy, body, ct)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unsupported file type") {
		t.Errorf("expected type rejection message, got %s", rec.Body.String())
	}
}

func TestUploadProxy_TooLarge(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{})
	// handler config caps at 1MiB
	big := strings.Repeat("x", (1<<20)+1)

	body, ct := multipartBody(t, "file", "cv.pdf", big, "conv-1")
	rec := postMultipart(t, h.UploadProxy, body, ct)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for oversized file, got %d", rec.Code)
	}
}

func TestUploadProxy_StoreFailure(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{err: errors.New("s3 down")})

	body, ct := multipartBody(t, "file", "cv.pdf", "content", "conv-1")
	rec := postMultipart(t, h.UploadProxy, body, ct)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestAnalyze_MissingFields(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{})

	tests := []string{
		`{"userPrompt":"p"}`,
		`{"s3Key":"k"}`,
		`{}`,
	}
	for _, body := range tests {
		rec := postJSON(t, h.Analyze, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAnalyze_FallbackSuccess(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{})

	rec := postJSON(t, h.Analyze, `{"s3Key":"resumes/c/1_x_cv.pdf","userPrompt":"which roles fit?","conversationId":"conv-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Analysis == nil || resp.Analysis.Insights == "" {
		t.Error("expected populated analysis")
	}
	if resp.S3Key != "resumes/c/1_x_cv.pdf" {
		t.Errorf("expected s3Key echoed, got %q", resp.S3Key)
	}
}

func TestUploadURL_Deprecated(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{})

	rec := postJSON(t, h.UploadURL, `{"fileName":"cv.pdf","fileType":"application/pdf"}`)
	if rec.Code != http.StatusGone {
		t.Fatalf("expected 410, got %d", rec.Code)
	}

	var apiErr httputil.APIError
	json.Unmarshal(rec.Body.Bytes(), &apiErr)
	if !strings.Contains(apiErr.Error.Message, "/api/upload-proxy") {
		t.Errorf("expected pointer to proxy endpoint, got %q", apiErr.Error.Message)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", body["status"])
	}
	if body["upstream"] != "healthy" {
		t.Errorf("expected upstream healthy, got %v", body["upstream"])
	}
	if body["cache_enabled"] != false {
		t.Errorf("expected cache_enabled false, got %v", body["cache_enabled"])
	}
}
