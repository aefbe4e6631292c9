package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/api"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/audit"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/config"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/explain"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/llm"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/negotiation"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/observability"
)

func runServer() int {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)
	logger := slog.Default().With("component", "server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile := config.DefaultProfile()
	if cfg.ProfilePath != "" {
		loaded, err := config.LoadProfile(cfg.ProfilePath)
		if err != nil {
			logger.Error("profile load failed", "path", cfg.ProfilePath, "error", err)
			return 1
		}
		profile = loaded
	}

	obs, err := observability.New(ctx, &observability.Config{
		ServiceName:    "omnitrack-resilience-engine",
		ServiceVersion: "1.0.0",
		Environment:    "production",
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     1.0,
		BatchTimeout:   5 * time.Second,
		Enabled:        cfg.OTLPEndpoint != "",
		Insecure:       true,
	})
	if err != nil {
		logger.Error("observability init failed", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	// Audit sinks: the in-process hash chain always, durable stores when
	// configured.
	chain := audit.NewStore()
	sinks := []audit.Sink{chain}

	db, err := sql.Open("sqlite", cfg.AuditDBPath)
	if err != nil {
		logger.Error("sqlite open failed", "path", cfg.AuditDBPath, "error", err)
		return 1
	}
	defer func() { _ = db.Close() }()
	sqliteSink, err := audit.NewSQLiteSink(db)
	if err != nil {
		logger.Error("sqlite sink init failed", "error", err)
		return 1
	}
	sinks = append(sinks, sqliteSink)

	if cfg.AuditPostgresURL != "" {
		pgDB, err := sql.Open("postgres", cfg.AuditPostgresURL)
		if err != nil {
			logger.Error("postgres open failed", "error", err)
			return 1
		}
		defer func() { _ = pgDB.Close() }()
		pgSink := audit.NewPostgresSink(pgDB)
		if err := pgSink.Init(ctx); err != nil {
			logger.Error("postgres sink init failed", "error", err)
			return 1
		}
		sinks = append(sinks, pgSink)
	}

	orchestrator := negotiation.NewOrchestrator(
		audit.NewEmitter(sinks...),
		negotiation.WithPriorityBoost(profile.PriorityBoost),
	)

	reasoningClient := llm.NewOpenAIClient(
		cfg.ReasoningServiceURL, cfg.ReasoningAPIKey, cfg.ReasoningModel,
		time.Duration(profile.ReasoningTimeoutMs)*time.Millisecond,
	)
	summarizer := explain.NewSummarizer(reasoningClient,
		time.Duration(profile.ReasoningTimeoutMs)*time.Millisecond)
	explainer := explain.NewService(summarizer, profile.UncertaintyBands, profile.BaselineConfidence)

	serverOpts := []api.ServerOption{
		api.WithAuditStore(chain),
		api.WithInstrumentation(obs.Instrument),
	}
	if cfg.RedisAddr != "" {
		cache := api.NewExplainCache(cfg.RedisAddr, 0)
		defer func() { _ = cache.Close() }()
		serverOpts = append(serverOpts, api.WithExplainCache(cache))
	}

	server := api.NewServer(orchestrator, explainer, serverOpts...)
	handler := server.Routes(api.NewGlobalRateLimiter(50, 100), api.NewIdentity(cfg.JWTSecret))

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			return 1
		}
	}
	return 0
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
