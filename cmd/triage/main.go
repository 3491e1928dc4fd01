package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/haqsetu/triage/internal/agent"
	"github.com/haqsetu/triage/internal/archive"
	"github.com/haqsetu/triage/internal/config"
	"github.com/haqsetu/triage/internal/httpapi"
	"github.com/haqsetu/triage/internal/llm"
	"github.com/haqsetu/triage/internal/observability"
	"github.com/haqsetu/triage/internal/translate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	turnArchive, err := archive.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("archive store init failed: %v", err)
	}
	defer turnArchive.Close()

	generator, err := llm.New(llm.Config{
		Mode:    cfg.LLMMode,
		URL:     cfg.LLMURL,
		Timeout: cfg.LLMTimeout,
		Retries: cfg.LLMRetries,
	})
	if err != nil {
		log.Fatalf("llm client init failed: %v", err)
	}

	translator := translate.New(translate.Config{
		URL:     cfg.TranslateURL,
		Timeout: cfg.TranslateTimeout,
		Retries: cfg.TranslateRetries,
	})
	if translator == nil {
		log.Printf("translation endpoint not configured; running pivot-language only")
	}

	agentService := agent.NewService(agent.Config{
		DefaultLanguage:  cfg.DefaultLanguage,
		MaxMessageChars:  cfg.MaxMessageChars,
		HistoryLimit:     cfg.HistoryLimit,
		SessionTTL:       cfg.SessionTTL,
		MaxSessions:      cfg.MaxSessions,
		LLMTimeout:       cfg.LLMTimeout,
		TranslateTimeout: cfg.TranslateTimeout,
	}, generator, translator, turnArchive, metrics)

	api := httpapi.New(cfg, agentService, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	agentService.StartJanitor(runCtx, cfg.SessionSweepInterval)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
