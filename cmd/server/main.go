package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/skillbridge-ai/skillbridge/internal/analyze"
	"github.com/skillbridge-ai/skillbridge/internal/api"
	"github.com/skillbridge-ai/skillbridge/internal/cache"
	"github.com/skillbridge-ai/skillbridge/internal/chat"
	"github.com/skillbridge-ai/skillbridge/internal/config"
	"github.com/skillbridge-ai/skillbridge/internal/mock"
	"github.com/skillbridge-ai/skillbridge/internal/ratelimit"
	"github.com/skillbridge-ai/skillbridge/internal/storage"
	"github.com/skillbridge-ai/skillbridge/internal/telemetry"
	"github.com/skillbridge-ai/skillbridge/internal/upstream"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	loader := config.NewLoader(*configDir, bootLogger)
	if err := loader.Load(); err != nil {
		bootLogger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfg := loader.Config()

	logger := newLogger(cfg.Telemetry)
	slog.SetDefault(logger)

	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	// Connect to Redis. The gateway serves without it; caching and
	// rate limiting just disable themselves.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable (response cache disabled)", "error", err)
			rdb = nil
		} else {
			logger.Info("redis connected", "addr", cfg.Redis.Addr)
		}
	}

	// S3 client for resume uploads. Unconfigured bucket means the
	// upload endpoints reject with a storage error.
	var s3Client storage.S3API
	if cfg.Storage.Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Storage.Region))
		if err != nil {
			logger.Warn("failed to load AWS config (resume uploads disabled)", "error", err)
		} else {
			s3Client = s3.NewFromConfig(awsCfg)
			logger.Info("s3 storage configured", "bucket", cfg.Storage.Bucket, "region", cfg.Storage.Region)
		}
	}

	upstreamCfg := func() config.UpstreamConfig {
		return loader.Config().Upstream
	}

	metrics := telemetry.NewMetrics()
	responseCache := cache.NewResponseCache(rdb, logger)
	invoker := upstream.NewInvoker(upstreamCfg, nil)
	responder := mock.NewResponder(cfg.Mock.MinDelay, cfg.Mock.MaxDelay)
	health := upstream.NewHealthTracker(5, 30*time.Second)
	orchestrator := chat.NewOrchestrator(responseCache, invoker, responder, health, metrics, logger)
	analyzer := analyze.NewAnalyzer(upstreamCfg, nil, logger)
	store := storage.NewResumeStore(s3Client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)

	handler := api.NewHandler(orchestrator, analyzer, store, health,
		responseCache.Enabled,
		loader.Config,
		metrics, version)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	r.Get("/api/health", handler.Health)

	r.Group(func(r chi.Router) {
		if cfg.RateLimit.Enabled {
			limiter := ratelimit.NewLimiter(rdb)
			r.Use(ratelimit.Middleware(limiter, cfg.RateLimit.RequestsPerMinute, metrics))
		}
		r.Post("/api/chat", handler.Chat)
		r.Post("/api/upload-proxy", handler.UploadProxy)
		r.Post("/api/analyze", handler.Analyze)
		r.Post("/api/upload-url", handler.UploadURL)
	})

	// Metrics are served on a separate port so they stay off the
	// public surface.
	if cfg.Telemetry.MetricsPort > 0 {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			addr := fmt.Sprintf(":%d", cfg.Telemetry.MetricsPort)
			logger.Info("metrics server starting", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway starting", "addr", addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("gateway stopped")
}

func newLogger(cfg config.TelemetryConfig) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const requestIDKey contextKey = "request_id"

func generateRequestID() string {
	now := time.Now()
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", now.UnixMilli(), hex.EncodeToString(b))
}
