package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"resume-scorer/internal/api"
	"resume-scorer/internal/cache"
	"resume-scorer/internal/config"
	"resume-scorer/internal/embeddings"
	"resume-scorer/internal/gemini"
	"resume-scorer/internal/logger"
	"resume-scorer/internal/s3"
	"resume-scorer/internal/scorestore"
	"resume-scorer/internal/scoring"
	"resume-scorer/internal/skills"
)

func main() {

	// .env is a development convenience, absence is fine
	_ = godotenv.Load()

	cfg := config.FromEnv()

	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	embedder, err := embeddings.NewProvider(embeddings.Config{
		Model:    cfg.EmbedModel,
		CacheDir: cfg.EmbedCacheDir,
	})
	if err != nil {
		log.Fatal("failed to initialize embedding model", zap.Error(err))
	}
	defer embedder.Close()

	log.Info("embedding model loaded",
		zap.String("model", cfg.EmbedModel),
		zap.Int("dimension", embedder.Dimension()),
	)

	classicalScorer := scoring.New(embedder, skills.NewDatabase(), log)

	geminiClient, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("failed to initialize gemini client", zap.Error(err))
	}
	llmScorer := gemini.NewScorer(geminiClient, cfg.GeminiTimeout, log)

	var resultCache api.ResultCache
	if cfg.ValkeyURL != "" {
		valkeyCache, err := cache.New(ctx, cfg.ValkeyURL, cfg.ValkeyPassword, cfg.CacheTTL)
		if err != nil {
			log.Fatal("failed to connect to valkey", zap.Error(err))
		}
		defer valkeyCache.Close()
		resultCache = valkeyCache
		log.Info("score cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}

	var store api.ScoreStore
	if cfg.DatabaseURL != "" {
		pgStore, err := scorestore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pgStore.Close()
		store = pgStore
		log.Info("score history enabled")
	}

	var uploader api.Uploader
	if cfg.S3.Bucket != "" {
		fileStore, err := s3.NewFileStore(ctx, s3.S3Config{
			EndpointURL: cfg.S3.EndpointURL,
			Region:      cfg.S3.Region,
			AccessKey:   cfg.S3.AccessKey,
			SecretKey:   cfg.S3.SecretKey,
		})
		if err != nil {
			log.Fatal("failed to create s3 file store", zap.Error(err))
		}
		uploader = fileStore
		log.Info("resume archival enabled", zap.String("bucket", cfg.S3.Bucket))
	}

	handler := api.NewAPIHandler(classicalScorer, llmScorer, resultCache, store, uploader, cfg.S3.Bucket, log)

	router := api.Chain(
		api.NewRouter(handler),
		api.RequestLogger(log),
		api.CORS,
		api.Auth(cfg.APIHeader),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	case <-sigChan:
		log.Info("shutdown signal received, stopping server...")

		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}

	log.Info("server shutdown complete")
}
