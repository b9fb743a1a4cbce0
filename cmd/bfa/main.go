package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chatdomain "github.com/fundascope/sme-funding-bfa-go/internal/chat/domain"
	chatinfra "github.com/fundascope/sme-funding-bfa-go/internal/chat/infra"
	chatservice "github.com/fundascope/sme-funding-bfa-go/internal/chat/service"
	"github.com/fundascope/sme-funding-bfa-go/internal/config"
	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/handler"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/cache"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/client"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/observability"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/resilience"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/supabase"
	"github.com/fundascope/sme-funding-bfa-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("catalog_ttl", cfg.CatalogTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "sme-funding-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Caches ---
	catalogCache := cache.New[[]domain.Product](cfg.CatalogTTL)
	sessionCache := cache.New[*chatdomain.SessionState](cfg.SessionTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("external-apis")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	if cfg.SupabaseURL == "" {
		logger.Fatal("SUPABASE_URL is required: profiles and the catalog live in Supabase")
	}
	supabaseClient := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cb,
		resilienceCfg,
		logger,
	)

	extractorClient := client.NewExtractorClient(httpClient, cfg.ExtractorURL, cb, resilienceCfg)
	responderClient := chatinfra.NewResponderClient(httpClient, cfg.ResponderURL, cb, resilienceCfg)

	// --- Services ---
	matchSvc := service.NewMatchService(supabaseClient, supabaseClient, catalogCache, metrics, logger)
	profileSvc := service.NewProfileService(supabaseClient, logger)

	var authSvc *service.AuthService
	if cfg.JWTSecret != "" {
		authSvc = service.NewAuthService(cfg.JWTSecret, cfg.AdminKeyHash, cfg.JWTAccessTTL, logger)
		logger.Info("auth enabled for protected routes")
	} else {
		logger.Warn("JWT_SECRET not set, protected routes are open")
	}

	chatSvc := chatservice.NewChatService(
		supabaseClient,
		extractorClient,
		responderClient,
		sessionCache,
		[]chatservice.ChatStrategy{
			chatservice.NewQuestionStrategy(logger),
			chatservice.NewResultsStrategy(matchSvc, logger),
		},
		logger,
	)

	// --- Router ---
	router := handler.NewRouter(matchSvc, profileSvc, chatSvc, authSvc, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
