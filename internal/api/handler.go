package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillbridge-ai/skillbridge/internal/analyze"
	"github.com/skillbridge-ai/skillbridge/internal/chat"
	"github.com/skillbridge-ai/skillbridge/internal/config"
	"github.com/skillbridge-ai/skillbridge/internal/httputil"
	"github.com/skillbridge-ai/skillbridge/internal/telemetry"
	"github.com/skillbridge-ai/skillbridge/internal/upstream"
)

// allowedUploadExts maps accepted resume extensions to their MIME type.
var allowedUploadExts = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// Handler holds dependencies for the gateway HTTP handlers.
type Handler struct {
	orchestrator *chat.Orchestrator
	analyzer     *analyze.Analyzer
	store        ResumeStore
	health       *upstream.HealthTracker
	cacheEnabled func() bool
	cfg          func() *config.Config
	metrics      *telemetry.Metrics
	version      string
}

// ResumeStore is the upload sink behind /api/upload-proxy.
type ResumeStore interface {
	Put(ctx context.Context, conversationID, fileName, contentType string, body io.Reader) (string, error)
}

func NewHandler(orchestrator *chat.Orchestrator, analyzer *analyze.Analyzer, store ResumeStore, health *upstream.HealthTracker, cacheEnabled func() bool, cfg func() *config.Config, metrics *telemetry.Metrics, version string) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		analyzer:     analyzer,
		store:        store,
		health:       health,
		cacheEnabled: cacheEnabled,
		cfg:          cfg,
		metrics:      metrics,
		version:      version,
	}
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteInternalError(w, reqID, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var chatReq chat.Request
	if err := json.Unmarshal(body, &chatReq); err != nil {
		httputil.WriteInternalError(w, reqID, "Internal server error")
		return
	}

	resp, err := h.orchestrator.Handle(r.Context(), &chatReq)
	if err != nil {
		var verr *chat.ValidationError
		if errors.As(err, &verr) {
			httputil.WriteBadRequestError(w, reqID, verr.Error())
			return
		}
		slog.Error("chat handling failed", "request_id", reqID, "error", err)
		httputil.WriteInternalError(w, reqID, "Internal server error")
		return
	}

	httputil.WriteJSON(w, reqID, http.StatusOK, resp)
}

type uploadResponse struct {
	Success   bool   `json:"success"`
	S3Key     string `json:"s3Key"`
	Timestamp string `json:"timestamp"`
}

// UploadProxy handles POST /api/upload-proxy: the single authoritative
// resume upload path (multipart form, streamed server-side to S3).
func (h *Handler) UploadProxy(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	maxBytes := h.cfg().Storage.MaxUploadBytes

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		h.recordUpload("rejected")
		httputil.WriteBadRequestError(w, reqID, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.recordUpload("rejected")
		httputil.WriteBadRequestError(w, reqID, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxBytes {
		h.recordUpload("rejected")
		httputil.WriteBadRequestError(w, reqID, fmt.Sprintf("file too large: maximum %d bytes", maxBytes))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedUploadExts[ext]
	if !ok {
		h.recordUpload("rejected")
		httputil.WriteBadRequestError(w, reqID, "unsupported file type: allowed types are pdf, doc, docx, txt")
		return
	}

	conversationID := r.FormValue("conversationId")

	key, err := h.store.Put(r.Context(), conversationID, header.Filename, contentType, file)
	if err != nil {
		h.recordUpload("failed")
		slog.Error("resume upload failed",
			"request_id", reqID,
			"conversation_id", conversationID,
			"file", header.Filename,
			"error", err,
		)
		httputil.WriteInternalError(w, reqID, "Upload failed")
		return
	}

	h.recordUpload("ok")
	slog.Info("resume uploaded",
		"request_id", reqID,
		"conversation_id", conversationID,
		"s3_key", key,
		"bytes", header.Size,
	)

	httputil.WriteJSON(w, reqID, http.StatusOK, uploadResponse{
		Success:   true,
		S3Key:     key,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

type analyzeRequest struct {
	S3Key          string `json:"s3Key"`
	UserPrompt     string `json:"userPrompt"`
	ConversationID string `json:"conversationId"`
}

type analyzeResponse struct {
	Success   bool              `json:"success"`
	Analysis  *analyze.Analysis `json:"analysis"`
	S3Key     string            `json:"s3Key"`
	Timestamp string            `json:"timestamp"`
}

// Analyze handles POST /api/analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteInternalError(w, reqID, "Internal server error")
		return
	}
	if req.S3Key == "" {
		httputil.WriteBadRequestError(w, reqID, "s3Key is required")
		return
	}
	if req.UserPrompt == "" {
		httputil.WriteBadRequestError(w, reqID, "userPrompt is required")
		return
	}

	result, source := h.analyzer.Analyze(r.Context(), req.S3Key, req.UserPrompt, req.ConversationID)
	if h.metrics != nil {
		h.metrics.RecordAnalysis(source)
	}

	httputil.WriteJSON(w, reqID, http.StatusOK, analyzeResponse{
		Success:   true,
		Analysis:  result,
		S3Key:     req.S3Key,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// UploadURL handles POST /api/upload-url. The presigned-URL flow is
// deprecated in favor of the server-side proxy upload.
func (h *Handler) UploadURL(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	httputil.WriteGoneError(w, reqID, "Presigned uploads are deprecated; use POST /api/upload-proxy")
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":        "healthy",
		"version":       h.version,
		"upstream":      h.health.State().String(),
		"cache_enabled": h.cacheEnabled(),
	})
}

func (h *Handler) recordUpload(status string) {
	if h.metrics != nil {
		h.metrics.RecordUpload(status)
	}
}
