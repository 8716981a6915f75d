package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/pageza/seasonal-recipes/backend/config"
	"github.com/pageza/seasonal-recipes/backend/internal/api"
	"github.com/pageza/seasonal-recipes/backend/internal/database"
	"github.com/pageza/seasonal-recipes/backend/internal/logger"
	"github.com/pageza/seasonal-recipes/backend/internal/lunar"
	"github.com/pageza/seasonal-recipes/backend/internal/metrics"
	"github.com/pageza/seasonal-recipes/backend/internal/middleware"
	"github.com/pageza/seasonal-recipes/backend/internal/model"
	"github.com/pageza/seasonal-recipes/backend/internal/router"
	"github.com/pageza/seasonal-recipes/backend/internal/server"
	"github.com/pageza/seasonal-recipes/backend/internal/service"
	"github.com/pageza/seasonal-recipes/backend/internal/store"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.Environment.GinMode())

	ctx := context.Background()

	recipes := store.OrEmpty(store.LoadSource(ctx, cfg.RecipesSource, cfg.AWSRegion))
	metrics.RecipesLoaded.Set(float64(recipes.Count()))
	slog.Info("recipes loaded",
		"source", cfg.RecipesSource,
		"total", recipes.Count(),
		"chinese", recipes.CountByCategory(model.CategoryChinese),
		"mediterranean", recipes.CountByCategory(model.CategoryMediterranean),
	)

	calendar := lunar.NewProvider(lunar.LunarGoConverter{})

	var generator service.Generator
	if cfg.AIEnabled() {
		generator = service.NewChatClient(service.ChatConfig{
			APIKey: cfg.AIAPIKey,
			URL:    cfg.AIURL,
			Model:  cfg.AIModel,
		}, &http.Client{})
	} else {
		slog.Warn("SILICONFLOW_API_KEY not set, AI augmentation disabled")
	}

	recommendService := service.NewRecommendService(recipes, calendar,
		service.WithLightPreference(cfg.PreferLightMeals),
	)
	searchService := service.NewSearchService(recipes, generator, service.SearchConfig{
		DefaultPageSize: cfg.SearchDefaultPageSize,
		MaxPageSize:     cfg.SearchMaxPageSize,
		Timeout:         cfg.AITimeout,
	})

	handler := api.NewRecipeHandler(recommendService, searchService, recipes)
	engine := router.SetupRouter(handler, router.Options{
		StaticDir:     cfg.StaticDir,
		CORSOrigins:   cfg.CORSAllowedOrigins,
		SearchLimiter: newSearchLimiter(ctx, cfg),
	})

	srv := server.New(cfg.Addr(), engine)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	slog.Info("server stopped")
}

// newSearchLimiter prefers Redis so limits hold across instances, and falls back
// to an in-process limiter when Redis is not configured or unreachable
func newSearchLimiter(ctx context.Context, cfg *config.Config) middleware.Limiter {
	if cfg.RateLimitPerMinute <= 0 {
		return nil
	}

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			return middleware.NewRedisLimiter(client, middleware.NewSearchRateLimitConfig(cfg.RateLimitPerMinute))
		}
		slog.Warn("Redis unavailable, using in-process rate limiting", "error", err)
	}
	return middleware.NewLocalLimiter(cfg.RateLimitPerMinute)
}
