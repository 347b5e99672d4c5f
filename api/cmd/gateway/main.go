package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gemini-gateway/api/internal/config"
	"gemini-gateway/api/internal/gemini"
	"gemini-gateway/api/internal/handle"
	"gemini-gateway/api/internal/llm"
	"gemini-gateway/api/internal/logger"
	"gemini-gateway/api/internal/metrics"
	"gemini-gateway/api/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.DebugMode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalw("gateway stopped", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	engine, err := gemini.New(ctx, cfg.GeminiTransport, cfg.GeminiAPIKey, cfg.GeminiBaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = engine.Close() }()

	var (
		history store.Recorder = store.Nop{}
		repo    *store.GenerationRepo
	)
	if cfg.DatabaseURL != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		repo = store.NewGenerationRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		history = repo
		log.Infow("generation history enabled", "db", store.SafeDSNSummary(cfg.DatabaseURL))
	}

	m := metrics.NewManager()
	h := handle.New(engine, handle.Options{
		Models: llm.Models{
			Text:     cfg.TextModel,
			Vision:   cfg.VisionModel,
			Document: cfg.DocumentModel,
			Audio:    cfg.AudioModel,
		},
		Prompts: handle.Prompts{
			Image:    cfg.ImagePrompt,
			Document: cfg.DocumentPrompt,
			Audio:    cfg.AudioPrompt,
		},
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}, log.Named("handle"), m, history)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", m.Handler())
	h.Register(mux)
	if repo != nil {
		mux.HandleFunc("GET /history", handle.History(repo, log.Named("history")))
	}

	srv := &http.Server{Addr: cfg.Addr(), Handler: handle.RequestID(mux)}

	errc := make(chan error, 1)
	go func() {
		log.Infow("gemini gateway listening", "addr", srv.Addr, "transport", engine.Name(),
			"text_model", cfg.TextModel, "vision_model", cfg.VisionModel,
			"document_model", cfg.DocumentModel, "audio_model", cfg.AudioModel)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down", "timeout", cfg.ShutdownTimeout)
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
