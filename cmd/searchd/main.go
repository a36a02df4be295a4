// Command searchd serves ranked search queries over HTTP from a memory-mapped
// index dump, with a redis query cache, Prometheus metrics, and health probes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zloyaloha/web-searcher/internal/index"
	"github.com/zloyaloha/web-searcher/internal/searcher"
	"github.com/zloyaloha/web-searcher/internal/service"
	"github.com/zloyaloha/web-searcher/internal/tokenizer"
	"github.com/zloyaloha/web-searcher/pkg/config"
	"github.com/zloyaloha/web-searcher/pkg/health"
	"github.com/zloyaloha/web-searcher/pkg/logger"
	"github.com/zloyaloha/web-searcher/pkg/metrics"
	"github.com/zloyaloha/web-searcher/pkg/middleware"
	pkgredis "github.com/zloyaloha/web-searcher/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	mapped, err := index.Open(cfg.Index.DumpPath)
	if err != nil {
		slog.Error("failed to map index", "path", cfg.Index.DumpPath, "error", err)
		os.Exit(1)
	}
	defer mapped.Close()
	slog.Info("index mapped",
		"path", cfg.Index.DumpPath,
		"version", mapped.Version(),
		"docs", mapped.NumDocs(),
		"terms", mapped.NumTerms(),
	)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	tok := tokenizer.New(tokenizer.Porter{})
	engine := searcher.NewTFIDF(mapped, tok)
	cache := service.NewQueryCache(redisClient, cfg.Redis, m)
	handler := service.NewHandler(engine, cache, cfg.Search, m)

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d docs, %d terms", mapped.NumDocs(), mapped.NumTerms()),
		}
	})
	if redisClient != nil {
		checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
			if err := redisClient.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", handler.Search)
	mux.HandleFunc("/healthz/live", checker.LiveHandler())
	mux.HandleFunc("/healthz/ready", checker.ReadyHandler())

	chain := middleware.Metrics(m)(middleware.Timeout(cfg.Search.QueryTimeout)(mux))
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		metricsSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: metrics.Handler(reg),
		}
		go func() {
			slog.Info("metrics server listening", "port", cfg.Metrics.Port)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer metricsSrv.Shutdown(context.Background())
	}

	go func() {
		slog.Info("search service listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("search service failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}
