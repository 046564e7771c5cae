package api

import (
	"net/http"

	"feeder-fund-calc/internal/api/handlers"
	"feeder-fund-calc/internal/api/middleware"
	"feeder-fund-calc/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Options wires the router's dependencies.
type Options struct {
	Runs    *handlers.RunStore
	Metrics *metrics.Registry

	AllowedOrigins []string
	// RateLimitRPS of 0 disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	calc := handlers.NewCalcHandler(opts.Runs, opts.Metrics)

	api := router.Group("/api/v1")
	if opts.RateLimitRPS > 0 {
		api.Use(middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).Middleware())
	}
	{
		api.POST("/calculate", calc.Calculate)
		api.POST("/calculate/upload", calc.Upload)
		api.POST("/compare", calc.Compare)

		api.GET("/runs/:id/ledger", calc.Ledger)
		api.GET("/runs/:id/export", calc.Export)

		api.GET("/policies", handlers.ListPolicies)
		api.GET("/frequencies", handlers.ListFrequencies)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
