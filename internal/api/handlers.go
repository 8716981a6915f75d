package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/seasonal-recipes/backend/internal/middleware"
	"github.com/pageza/seasonal-recipes/backend/internal/model"
	"github.com/pageza/seasonal-recipes/backend/internal/service"
	"github.com/pageza/seasonal-recipes/backend/internal/store"
)

const (
	defaultListPerPage = 20
	maxListPerPage     = 100

	invalidBodyMessage = "请求格式错误"
)

// RecipeHandler serves recommendations, search and the recipe catalogue
type RecipeHandler struct {
	recommend service.IRecommendService
	search    service.ISearchService
	store     *store.Store
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recommend service.IRecommendService, search service.ISearchService, s *store.Store) *RecipeHandler {
	return &RecipeHandler{
		recommend: recommend,
		search:    search,
		store:     s,
	}
}

// RegisterRoutes registers the recipe routes. searchMiddleware runs in front of
// the search handler only.
func (h *RecipeHandler) RegisterRoutes(router gin.IRoutes, searchMiddleware ...gin.HandlerFunc) {
	router.GET("/today", h.Today)
	search := append([]gin.HandlerFunc{}, searchMiddleware...)
	router.POST("/search", append(search, h.Search)...)
	router.GET("/recipes", h.ListRecipes)
	router.GET("/health", h.Health)
}

// Today returns breakfast, lunch and dinner recommendations for a diet type
func (h *RecipeHandler) Today(c *gin.Context) {
	dietType := c.DefaultQuery("diet_type", model.CategoryChinese)

	menu, err := h.recommend.Today(dietType)
	if err != nil {
		if errors.Is(err, service.ErrUnknownDietType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.internalError(c, "today recommendations failed", err)
		return
	}

	c.JSON(http.StatusOK, TodayResponse{
		Date:            menu.Calendar.SolarDateLabel(),
		Lunar:           menu.Calendar,
		Season:          menu.Calendar.Season,
		DietType:        dietType,
		Recommendations: *menu,
	})
}

// Search runs a keyword search with optional AI augmentation
func (h *RecipeHandler) Search(c *gin.Context) {
	var req service.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidBodyMessage})
		return
	}

	result, err := h.search.Search(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyKeyword),
			errors.Is(err, service.ErrInvalidPagination),
			errors.Is(err, service.ErrInvalidSearchType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.internalError(c, "search failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListRecipes pages through the catalogue, optionally filtered by category
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidPagination.Error()})
		return
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultListPerPage)))
	if err != nil || perPage < 1 || perPage > maxListPerPage {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidPagination.Error()})
		return
	}

	category := c.Query("category")
	if category != "" && !model.IsDietCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrUnknownDietType.Error()})
		return
	}

	recipes, total := h.store.List(category, page, perPage)
	c.JSON(http.StatusOK, RecipeListResponse{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Recipes: recipes,
	})
}

// Health reports catalogue size and whether AI augmentation is available
func (h *RecipeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:               "ok",
		TotalRecipes:         h.store.Count(),
		ChineseRecipes:       h.store.CountByCategory(model.CategoryChinese),
		MediterraneanRecipes: h.store.CountByCategory(model.CategoryMediterranean),
		AIEnabled:            h.search.AIEnabled(),
	})
}

func (h *RecipeHandler) internalError(c *gin.Context, msg string, err error) {
	slog.Error(msg, "error", err, "request_id", c.GetString(middleware.RequestIDKey))
	c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: middleware.InternalErrorMessage})
}
