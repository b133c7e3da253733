package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookhub/internal/metrics"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"
	"bookhub/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps is everything the HTTP API is built from. Metrics, Limiter and DB may be nil.
// A zero RequestTimeout means defaultRequestTimeout.
type RouterDeps struct {
	Auth            service.AuthService
	Catalog         service.CatalogService
	Shelves         service.ShelfService
	Reviews         service.ReviewService
	Recommendations service.RecommendationService
	Progress        service.ProgressService
	Profiles        service.ProfileService

	Metrics *metrics.Metrics
	Limiter *ratelimit.KeyedRateLimiter
	DB      Pinger
	Log     *slog.Logger

	RequestTimeout time.Duration
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	r.Use(middleware.Timeout(timeout))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/check-conn", func(c *gin.Context) {
		if d.DB != nil {
			if err := d.DB.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
	})

	api := r.Group("/api")
	if d.Limiter != nil {
		api.Use(middleware.RateLimit(d.Limiter))
	}

	required := middleware.AuthMiddleware(d.Auth)
	optional := middleware.OptionalAuth(d.Auth)

	NewAuthHandler(d.Auth).RegisterRoutes(api.Group("/auth"))

	books := NewBookHandler(d.Catalog, d.Recommendations)
	publicBooks := api.Group("/books", optional)
	books.RegisterRoutes(publicBooks)
	books.RegisterCategoryRoutes(api.Group("/categories"))

	reviews := NewReviewHandler(d.Reviews)
	reviews.RegisterBookRoutes(publicBooks, api.Group("/books", required))
	reviews.RegisterRoutes(api.Group("/reviews", required))

	NewShelfHandler(d.Shelves).RegisterRoutes(api.Group("/shelf", required))
	NewProgressHandler(d.Progress).RegisterRoutes(api.Group("/progress", required))
	NewProfileHandler(d.Profiles, d.Reviews).RegisterRoutes(api.Group("/users/me", required))
	NewAdminHandler(d.Catalog, d.Profiles).RegisterRoutes(api.Group("/admin", required, middleware.RequireAdmin()))

	return r
}
