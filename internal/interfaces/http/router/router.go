package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	applogger "github.com/thca-multistore/backend/internal/infrastructure/logger"
	"github.com/thca-multistore/backend/internal/interfaces/http/handler"
	"github.com/thca-multistore/backend/internal/interfaces/http/middleware"
)

const (
	maxBodyBytes = 1 << 20 // 1MB, config payloads are small
	rateLimit    = 120
	rateWindow   = time.Minute
)

// Config carries the router-level settings.
type Config struct {
	Environment string
	CORSOrigins []string
	AppName     string
	AppVersion  string
}

// Handlers groups the route handlers the router mounts.
type Handlers struct {
	Intelligence *handler.IntelligenceHandler
	Store        *handler.StoreHandler
	Email        *handler.EmailHandler
}

// New builds the gin engine with the middleware chain and all admin routes.
func New(cfg Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		applogger.GinMiddleware(log),
		applogger.Recovery(log),
		middleware.CORSWithConfig(corsConfig(cfg.CORSOrigins)),
		middleware.Secure(),
		middleware.BodyLimit(maxBodyBytes),
	)

	started := time.Now()
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"name":    cfg.AppName,
			"version": cfg.AppVersion,
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	})

	admin := engine.Group("/admin")
	admin.Use(middleware.RateLimit(middleware.NewRateLimiter(rateLimit, rateWindow)))
	{
		business := admin.Group("/business")
		business.GET("/intelligence", h.Intelligence.GetBusinessMetrics)
		business.GET("/stores", h.Store.ListStores)

		compliance := admin.Group("/compliance")
		compliance.PATCH("/stores/:id", h.Store.UpdateStoreStatus)
		compliance.GET("/config", h.Store.GetBusinessConfig)
		compliance.POST("/config", h.Store.SaveBusinessConfig)
		compliance.GET("/metrics", h.Store.GetComplianceMetrics)

		email := admin.Group("/email")
		email.POST("/test", h.Email.SendTest)
		email.GET("/analytics", h.Email.GetAnalytics)
		email.GET("/templates", h.Email.ListTemplates)
		email.GET("/templates/preview", h.Email.PreviewTemplate)
	}

	return engine
}

func corsConfig(origins []string) middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	cfg.AllowOrigins = origins
	return cfg
}
