// Package router assembles the gin engine: middleware, operational
// endpoints and the API routes.
package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Options configures SetupRouter
type Options struct {
	CORSOrigins []string
	// MediaRoot is served under MediaURL when images are stored locally
	MediaRoot string
	MediaURL  string
	Health    map[string]HealthCheck
	Services  api.Services
	API       api.Options
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.Recovery(), middleware.CORS(opts.CORSOrigins))

	router.GET("/health", healthHandler(opts.Health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.MediaRoot != "" {
		mediaURL := strings.TrimSuffix(opts.MediaURL, "/")
		if mediaURL == "" {
			mediaURL = "/media"
		}
		router.Static(mediaURL, opts.MediaRoot)
	}

	api.SetupAPI(router, opts.Services, opts.API)
	return router
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "unavailable"
		}
		c.JSON(status, gin.H{"status": overall, "checks": results})
	}
}
