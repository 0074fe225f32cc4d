package main

import (
	"context"
	"net/http"
	"time"

	"revivalhub/internal/logger"
	"revivalhub/internal/microservices/http-api/handler"
	"revivalhub/internal/microservices/http-api/middleware"
	"revivalhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// checkFunc reports whether a backing dependency is reachable.
type checkFunc func(ctx context.Context) error

type routerDeps struct {
	auth           service.AuthService
	collaborations service.CollaborationService
	notifications  service.NotificationService
	createLimiter  *middleware.RateLimiter
	corsOrigins    []string
	metrics        bool
	checkDB        checkFunc
	checkCache     checkFunc // nil when running without Redis
	log            *zap.Logger
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinLogger(d.log))
	r.Use(middleware.CORS(d.corsOrigins))

	r.GET("/health", healthHandler(d.checkDB, d.checkCache))
	if d.metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	handler.NewAuthHandler(d.auth, d.log).RegisterRoutes(r.Group("/auth"))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(d.auth))
	{
		var limit gin.HandlerFunc
		if d.createLimiter != nil {
			limit = d.createLimiter.Middleware()
		}
		handler.NewCollaborationHandler(d.collaborations, limit, d.log).RegisterRoutes(api.Group("/collaborations"))
		handler.NewNotificationHandler(d.notifications, d.log).RegisterRoutes(api.Group("/notifications"))
	}

	return r
}

func healthHandler(checkDB, checkCache checkFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := gin.H{"status": "ok", "database": "up", "redis": "disabled"}

		if err := checkDB(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "down"
		}
		if checkCache != nil {
			// the cache is optional, a failure does not degrade the service
			if err := checkCache(ctx); err != nil {
				body["redis"] = "down"
			} else {
				body["redis"] = "up"
			}
		}

		c.JSON(status, body)
	}
}
