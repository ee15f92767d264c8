package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/idea-validator/internal/a2a"
	"github.com/BerylCAtieno/idea-validator/internal/analysis"
	"github.com/BerylCAtieno/idea-validator/internal/config"
	"github.com/BerylCAtieno/idea-validator/internal/evaluator"
	"github.com/BerylCAtieno/idea-validator/internal/logger"
	"github.com/BerylCAtieno/idea-validator/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is configured from cfg, so fall back to a default logger.
		fallback, _ := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	log, err := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fallback, _ := logger.New("info", "console")
		fallback.Fatal("logger init failed", zap.Error(err))
	}
	zapLog := log.Zap()
	defer zapLog.Sync()

	ctx := context.Background()

	generator, err := evaluator.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature)
	if err != nil {
		zapLog.Fatal("gemini client init failed", zap.Error(err))
	}
	client := evaluator.NewClient(generator, log, evaluator.WithWebSearch(cfg.Gemini.WebSearch))

	session := analysis.NewSession(client, analysis.Config{
		ResearchingDelay: cfg.Analysis.ResearchingDelay,
		ScoringDelay:     cfg.Analysis.ScoringDelay,
		RequestTimeout:   cfg.Analysis.RequestTimeout,
	}, log)

	gin.SetMode(cfg.Server.Mode)
	router, err := web.NewRouter(cfg.Server, web.NewHandler(session, log), a2a.NewHandler(session, log), log)
	if err != nil {
		zapLog.Fatal("router init failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("Idea Validator starting",
			zap.String("port", cfg.Server.Port),
			zap.String("model", generator.Model()),
			zap.Bool("webSearch", cfg.Gemini.WebSearch),
			zap.String("a2aEndpoint", "http://localhost:"+cfg.Server.Port+a2a.EndpointPath),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	session.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
