package router

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/seasonal-recipes/backend/internal/api"
	"github.com/pageza/seasonal-recipes/backend/internal/middleware"
)

// Options tunes the router
type Options struct {
	// StaticDir holds index.html and static/; empty disables the front-end
	StaticDir string
	// CORSOrigins lists allowed origins; empty allows all
	CORSOrigins []string
	// SearchLimiter throttles POST /search; nil disables rate limiting
	SearchLimiter middleware.Limiter
}

// SetupRouter configures the application routes. Every API route is served both
// at the root and under /api.
func SetupRouter(recipeHandler *api.RecipeHandler, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.CORS(opts.CORSOrigins),
	)

	var searchMiddleware []gin.HandlerFunc
	if opts.SearchLimiter != nil {
		searchMiddleware = append(searchMiddleware, middleware.RateLimit(opts.SearchLimiter))
	}

	recipeHandler.RegisterRoutes(router, searchMiddleware...)
	recipeHandler.RegisterRoutes(router.Group("/api"), searchMiddleware...)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupStaticFiles(router, opts.StaticDir)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}

// setupStaticFiles serves the front-end when dir contains an index.html
func setupStaticFiles(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		slog.Warn("front-end not found, serving API only", "static_dir", dir)
		return
	}

	router.StaticFile("/", index)
	router.Static("/static", filepath.Join(dir, "static"))
}
