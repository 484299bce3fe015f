package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/db"
	dbBadger "github.com/docsift/docsift/internal/db/badger"
	dbRedis "github.com/docsift/docsift/internal/db/redis"
	"github.com/docsift/docsift/internal/domain"
	"github.com/docsift/docsift/internal/extract"
	logpkg "github.com/docsift/docsift/internal/logger"
	"github.com/docsift/docsift/internal/metrics"
	budgetrepo "github.com/docsift/docsift/internal/repository/budget"
	documentrepo "github.com/docsift/docsift/internal/repository/document"
	"github.com/docsift/docsift/internal/repository/sentcache"
	"github.com/docsift/docsift/internal/sentiment"
	chiTransport "github.com/docsift/docsift/internal/transport/chi"
	openaiSent "github.com/docsift/docsift/internal/transport/openai"
	documentuc "github.com/docsift/docsift/internal/usecase/document"
	healthuc "github.com/docsift/docsift/internal/usecase/health"
	scoringuc "github.com/docsift/docsift/internal/usecase/scoring"
	searchuc "github.com/docsift/docsift/internal/usecase/search"
	usageuc "github.com/docsift/docsift/internal/usecase/usage"
	"github.com/docsift/docsift/internal/version"
)

func main() {
	_ = godotenv.Load()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docsift API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("sentiment_provider", cfg.Sentiment.Provider),
	)

	if cfg.Storage.KeyPrefix != "" {
		domain.KeyPrefix = cfg.Storage.KeyPrefix
	}

	// Create document store based on driver
	var store db.Store
	switch cfg.Storage.Driver {
	case "badger":
		store, err = dbBadger.NewStore(dbBadger.Config{
			Path:     cfg.Storage.Badger.Path,
			InMemory: cfg.Storage.Badger.InMemory,
		}, logger)
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Storage.Redis.Addrs,
			Username: cfg.Storage.Redis.Username,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
	default:
		logger.Fatal("Unknown storage driver", zap.String("driver", cfg.Storage.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Storage.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Store not ready", zap.Error(err))
	}
	logger.Info("Connected to store")

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	scorer, checker, budget := buildScorer(ctx, cfg, store, logger)

	// Worker pool for the CPU-bound ranking path. Size 0 means NumCPU;
	// negative disables offloading entirely.
	var pool *ants.Pool
	if cfg.Search.PoolSize >= 0 {
		size := cfg.Search.PoolSize
		if size == 0 {
			size = runtime.NumCPU()
		}
		pool, err = ants.NewPool(size)
		if err != nil {
			logger.Fatal("Failed to create worker pool", zap.Error(err))
		}
		defer pool.Release()
		logger.Info("Worker pool created", zap.Int("size", size))
	}

	docRepo := documentrepo.New(store)

	extractor := extract.NewExtractor().
		WithMaxFileSize(int64(cfg.Upload.MaxFileSizeMB) << 20)

	// Create use case services
	docSvc := documentuc.New(docRepo, extractor).
		WithMaxUploadFiles(cfg.Upload.MaxFiles)
	searchSvc := searchuc.New(docRepo, scorer).
		WithDefaultTopK(cfg.Search.DefaultTopK).
		WithMaxFeatures(cfg.Search.MaxFeatures).
		WithPool(pool)
	healthSvc := healthuc.New(store, checker)

	// Usage service — reads from shared BudgetTracker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}
	usageSvc := usageuc.New(budgetReader)

	// Create chi server
	server := chiTransport.NewServer(docSvc, searchSvc, healthSvc, usageSvc, logger).
		WithMaxTopK(cfg.Search.MaxTopK)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuth(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildScorer assembles the sentiment chain: provider, budget metering for
// the remote provider, then an optional store-backed cache decorator. Cache
// sits outermost so hits skip the budget check. The health checker is nil
// for providers with no remote dependency to probe.
func buildScorer(
	ctx context.Context,
	cfg config.Config,
	store db.Store,
	logger *zap.Logger,
) (domain.SentimentScorer, healthuc.SentimentChecker, *scoringuc.BudgetTracker) {
	var scorer domain.SentimentScorer
	var checker healthuc.SentimentChecker
	var budget *scoringuc.BudgetTracker

	switch cfg.Sentiment.Provider {
	case "vader":
		scorer = sentiment.NewScorer()
	case "openai":
		oa := openaiSent.NewScorer(&openaiSent.Config{
			APIKey:  cfg.Sentiment.OpenAI.APIKey,
			BaseURL: cfg.Sentiment.OpenAI.BaseURL,
			Model:   cfg.Sentiment.OpenAI.Model,
			Logger:  logger,
		})
		checker = oa

		budgetCfg := cfg.Sentiment.OpenAI.Budget
		if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
			action := scoringuc.BudgetActionWarn
			if budgetCfg.Action == "reject" {
				action = scoringuc.BudgetActionReject
			}
			budget = scoringuc.NewBudgetTracker(
				"openai", budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
			)
			// Connect persistence store — loads current counters from DB.
			budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
		}

		// Pass nil interface (not typed nil pointer!) if budget is not configured.
		// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
		var budgetChecker scoringuc.BudgetChecker
		if budget != nil {
			budgetChecker = budget
		}
		scorer = scoringuc.NewInstrumentedScorer(
			oa, "openai", cfg.Sentiment.OpenAI.Model, budgetChecker, logger,
		)
	default:
		logger.Fatal("Unknown sentiment provider", zap.String("provider", cfg.Sentiment.Provider))
	}

	if cfg.Sentiment.Cache.Enabled {
		cached := sentcache.New(scorer, store, metrics.SentimentCacheTotal, logger)
		if cfg.Sentiment.Cache.TTLSec > 0 {
			cached = cached.WithTTL(time.Duration(cfg.Sentiment.Cache.TTLSec) * time.Second)
		}
		scorer = cached
	}

	return scorer, checker, budget
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"error": map[string]string{
							"code":    "internal_error",
							"message": "internal error",
						},
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ToContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
