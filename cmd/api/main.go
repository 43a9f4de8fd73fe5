package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/config"
	"github.com/pageza/recipe-assistant/backend/internal/database"
	"github.com/pageza/recipe-assistant/backend/internal/logger"
	"github.com/pageza/recipe-assistant/backend/internal/middleware"
	"github.com/pageza/recipe-assistant/backend/internal/router"
	"github.com/pageza/recipe-assistant/backend/internal/server"
	"github.com/pageza/recipe-assistant/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	production := config.IsProduction()
	zl, err := logger.New(production, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gens := service.NewStandIn(append(service.LatencyOptions(cfg.SimulatedLatency), service.WithLogger(zl))...)
	if cfg.LLMEnabled() {
		llm, err := service.NewLLMRecipeService(service.LLMConfig{
			APIKey: cfg.DeepSeekAPIKey,
			APIURL: cfg.DeepSeekAPIURL,
			Model:  cfg.LLMModel,
		}, nil, zl)
		if err != nil {
			zl.Fatal("failed to create LLM recipe service", zap.Error(err))
		}
		gens.Recipes = llm
	}

	var limiter *middleware.RateLimiter
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(ctx, cfg, zl)
		if err != nil {
			// Continue without rate limiting if Redis is not available
			zl.Warn("rate limiting disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			limiter = middleware.NewGenerationRateLimiter(redisClient, cfg.RateLimitPerMinute, zl)
		}
	}

	handler := router.SetupRouter(router.Options{
		Generators:     gens,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:    limiter,
		Logger:         zl,
	})

	zl.Info("starting server",
		zap.String("environment", string(config.GetEnvironment())),
		zap.Bool("simulated_latency", cfg.SimulatedLatency),
		zap.Bool("rate_limited", limiter != nil),
		zap.Bool("llm_recipes", cfg.LLMEnabled()),
	)
	if err := server.New(cfg, handler, zl).Run(ctx, shutdownTimeout); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
	zl.Info("server stopped")
}
