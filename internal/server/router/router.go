package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	"github.com/metung95-cpu/ajet-stock/internal/metrics"
	"github.com/metung95-cpu/ajet-stock/internal/server/handlers"
	"github.com/metung95-cpu/ajet-stock/internal/server/middleware"
)

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Inventory *handlers.InventoryHandler
	Shipments *handlers.ShipmentHandler
}

// Options configures cross-cutting middleware.
type Options struct {
	AllowedOrigins []string
	Metrics        *metrics.Metrics
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, auth middleware.Authenticator, opts Options, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware(opts.Metrics))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	api := r.Group("/api")
	api.POST("/login", h.Auth.Login)

	authed := api.Group("", middleware.RequireSession(auth))
	authed.POST("/logout", h.Auth.Logout)
	authed.GET("/me", h.Auth.Me)
	authed.GET("/inventory", h.Inventory.List)
	authed.POST("/inventory/refresh", h.Inventory.Refresh)

	writers := authed.Group("/shipments", middleware.RequireCapability(func(c models.Capabilities) bool { return c.CanWriteShipments }))
	writers.GET("/candidates", h.Shipments.Candidates)
	writers.POST("", h.Shipments.Submit)

	auditors := authed.Group("/shipments", middleware.RequireCapability(func(c models.Capabilities) bool { return c.CanReadAudit }))
	auditors.GET("/recent", h.Shipments.Recent)
	auditors.GET("/summary", h.Shipments.Summary)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
