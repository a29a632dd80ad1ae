package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/vertragscheck/vertragscheck/internal/analyze"
	"github.com/vertragscheck/vertragscheck/internal/api"
	"github.com/vertragscheck/vertragscheck/internal/config"
	"github.com/vertragscheck/vertragscheck/internal/llm"
	"github.com/vertragscheck/vertragscheck/internal/middleware"
	"github.com/vertragscheck/vertragscheck/internal/quota"
	iredis "github.com/vertragscheck/vertragscheck/internal/redis"
	"github.com/vertragscheck/vertragscheck/internal/server"
	"github.com/vertragscheck/vertragscheck/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("validating config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Quota
	codec := quota.NewCodec(cfg.Quota.Secret)

	// Redis (optional server-side quota hardening)
	routerCfg := api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	var counter *quota.Counter
	if cfg.Redis.Addr != "" {
		redisClient, err := iredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Error("connecting to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		counter = quota.NewCounter(redisClient)
		rl := middleware.NewRateLimiter(redisClient, cfg.Redis.RatePerMinute, 60)
		routerCfg.AnalyzeRateLimiter = rl.Middleware
		routerCfg.RedisPing = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	} else {
		slog.Info("redis not configured, quota is cookie-only")
	}

	// Analysis
	client := llm.NewClient(cfg.OpenAI)
	svc := analyze.NewService(client, cfg.Analyze.Mode)
	handler := analyze.NewHandler(svc, codec, counter, cfg)

	if cfg.Analyze.Mode == config.AnalyzeModeHeuristic {
		slog.Warn("running in offline heuristic mode, results are not model-backed")
	}

	// Router
	router := api.NewRouter(routerCfg, api.HandlerSet{
		Analyze: handler.Analyze,
		Static:  web.Handler(),
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
