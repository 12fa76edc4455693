package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"kaamsetu/internal/catalog"
	"kaamsetu/internal/metrics"
	"kaamsetu/internal/middleware"
	"kaamsetu/internal/model"
	"kaamsetu/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps is everything the HTTP layer needs
type RouterDeps struct {
	Auth        service.AuthService
	Bookings    service.BookingService
	Catalog     catalog.Provider
	Metrics     *metrics.Metrics
	Log         *slog.Logger
	DB          Pinger
	Limiter     *middleware.IPRateLimiter
	Cookie      CookieConfig
	CORSOrigins []string
	// TrustedProxies may set the client IP through X-Forwarded-For. Nil
	// trusts nobody, so ClientIP is the connection's remote address.
	TrustedProxies []string
}

// NewRouter wires middlewares, handlers and routes into a gin engine
func NewRouter(d RouterDeps) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Log, d.Metrics))

	if len(d.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length", "Location"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.Use(middleware.SessionMiddleware(d.Auth, d.Cookie.Name, d.Cookie.Secure, d.Log))

	limitMW := func(c *gin.Context) { c.Next() }
	if d.Limiter != nil {
		limitMW = middleware.RateLimit(d.Limiter, d.Log)
	}
	userMW := middleware.RequireRole(model.RoleUser)
	providerMW := middleware.RequireRole(model.RoleProvider)

	authHandler := NewAuthHandler(d.Auth, d.Cookie, d.Metrics, d.Log)
	catalogHandler := NewCatalogHandler(d.Catalog)
	bookingHandler := NewBookingHandler(d.Bookings, catalogHandler, d.Metrics, d.Log)
	providerHandler := NewProviderHandler(d.Bookings, d.Metrics, d.Log)

	authHandler.RegisterAuthRoutes(router, limitMW)
	catalogHandler.RegisterCatalogRoutes(router, userMW)
	bookingHandler.RegisterBookingRoutes(router, userMW)
	providerHandler.RegisterProviderRoutes(router, providerMW)

	router.GET("/health", func(c *gin.Context) {
		if d.DB != nil {
			if err := d.DB.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	return router, nil
}
