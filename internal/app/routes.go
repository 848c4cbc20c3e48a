package app

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garyellow/casmate/internal/sentry"
)

// newRouter builds the gin engine with middleware and every route.
func (a *Application) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true, WaitForDelivery: false}))
	}
	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/healthz", a.livenessCheck)
	router.HEAD("/healthz", a.livenessCheck)
	router.GET("/ready", a.readinessCheck)
	router.HEAD("/ready", a.readinessCheck)
	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsPassword != "", a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1", timeoutMiddleware(a.cfg.RequestTimeout))
	api.POST("/chat", rateLimitMiddleware(a.limiter), a.chat)
	api.GET("/intent", a.intent)
	api.GET("/entities", a.entities)
	api.GET("/courses/resolve", a.resolveCourse)
	api.GET("/courses/:id/prerequisites", a.prerequisites)
	api.GET("/programs/resolve", a.resolveProgram)
	api.GET("/programs/:id/courses", a.programCourses)
	api.GET("/programs/:id/units", a.programUnits)

	admin := router.Group("/admin", adminAuthMiddleware(a.cfg.AdminToken))
	admin.POST("/reload", a.reload)

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "not_found", "no such endpoint")
	})
	return router
}

// timeoutMiddleware bounds the request context. Non-positive d leaves it alone.
func timeoutMiddleware(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (a *Application) readinessCheck(c *gin.Context) {
	e, err := a.engines.Current()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog not loaded",
		})
		return
	}
	body := gin.H{
		"status":    "ready",
		"source":    e.Source,
		"catalog":   e.Catalog.Stats(),
		"issues":    len(e.Catalog.Issues()),
		"loaded_at": e.LoadedAt.UTC().Format(time.RFC3339),
	}
	if a.sessions != nil {
		body["sessions"] = a.sessions.Len()
	}
	c.JSON(http.StatusOK, body)
}
