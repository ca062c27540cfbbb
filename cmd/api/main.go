package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/calmworks/stillness/backend/internal/config"
	"github.com/calmworks/stillness/backend/internal/handler"
	"github.com/calmworks/stillness/backend/internal/middleware"
	"github.com/calmworks/stillness/backend/internal/model/topic"
	"github.com/calmworks/stillness/backend/internal/service/ai"
	"github.com/calmworks/stillness/backend/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	topicStore := topic.NewMemoryStore(topic.Seed())
	sessionManager := session.NewManager()

	var orchestrator *ai.Orchestrator
	if cfg.LLM.Enabled() {
		gateway, err := buildGateway(ctx, cfg.LLM)
		if err != nil {
			log.Printf("warning: failed to initialize model gateway: %v", err)
			log.Println("continuing without conversation functionality")
		} else {
			orchestrator = ai.NewOrchestrator(gateway, ai.NewPromptBuilder(topicStore))
			log.Printf("model gateway initialized, provider=%s", cfg.LLM.Provider)
		}
	} else {
		log.Println("model credentials not configured, conversation routes disabled")
	}

	var rateLimit func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled() {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
		rateLimit = middleware.RateLimit(redisClient, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		log.Printf("rate limiting enabled, %d requests per %s", cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}

	router := handler.NewRouter(topicStore, orchestrator, sessionManager, rateLimit)

	startServer(ctx, cfg.Server, router)
}

// buildGateway constructs the configured provider variant. The gateway is
// built once here and injected; nothing else holds model client state.
func buildGateway(ctx context.Context, cfg config.LLMConfig) (ai.Gateway, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ai.NewOllamaGateway(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Timeout), nil
	default:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, err
		}
		return ai.NewArkGateway(ctx, chatModel, cfg.Timeout)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Stillness backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
