// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"removals/internal/http/handlers"
	"removals/internal/http/middleware"
	"removals/internal/metrics"
	"removals/internal/modules/lead"
	"removals/internal/modules/pricing"
	"removals/internal/modules/route"
)

type RouterDeps struct {
	Pricing *pricing.Service
	Route   *route.Service
	Lead    *lead.Service
	Reviews handlers.ReviewSource

	Logger         *slog.Logger
	CORSOrigins    []string
	RatePerMinute  int
	RateBurst      int
	Debounce       time.Duration
	LookupTimeout  time.Duration
	ReviewsPlaceID string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	metrics.Register()

	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(cors.New(corsConfig(deps.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	quoteHandler := handlers.NewQuoteHandler(deps.Pricing)
	routeHandler := handlers.NewRouteHandler(deps.Route, deps.LookupTimeout)
	leadHandler := handlers.NewLeadHandler(deps.Lead)
	reviewsHandler := handlers.NewReviewsHandler(deps.Reviews, deps.ReviewsPlaceID)
	liveHandler := handlers.NewLiveHandler(deps.Route, deps.Debounce, deps.LookupTimeout, deps.CORSOrigins, deps.Logger)

	limiter := middleware.NewRateLimiter(deps.RatePerMinute, deps.RateBurst)

	api := r.Group("/api")
	api.POST("/quote/calculate", quoteHandler.Calculate)
	api.GET("/quote/minimum", quoteHandler.Minimum)
	api.POST("/whatsapp-link", leadHandler.WhatsAppLink)

	// metered upstream calls
	metered := api.Group("", limiter.Middleware())
	metered.POST("/route/miles", routeHandler.Miles)
	metered.POST("/quote", leadHandler.Submit)
	metered.GET("/google-reviews", reviewsHandler.List)
	metered.GET("/live", liveHandler.Serve)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = append(cfg.AllowHeaders, middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
