package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/api"
	"github.com/pageza/recipe-assistant/backend/internal/logger"
	"github.com/pageza/recipe-assistant/backend/internal/middleware"
	"github.com/pageza/recipe-assistant/backend/internal/service"
)

// Options holds everything SetupRouter needs
type Options struct {
	Generators     service.Generators
	AllowedOrigins []string
	// RateLimiter is optional; generation routes are unlimited without it
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	log := logger.OrNop(opts.Logger)

	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.CORS(opts.AllowedOrigins),
	)

	router.GET("/health", api.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.GET("/health", api.HealthCheck)

	var limits []gin.HandlerFunc
	if opts.RateLimiter != nil {
		limits = append(limits, opts.RateLimiter.RateLimitMiddleware())
	}
	api.NewGenerationHandler(opts.Generators, log).RegisterRoutes(v1, limits...)

	return router
}
