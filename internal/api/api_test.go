package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/seasonal-recipes/backend/internal/lunar"
	"github.com/pageza/seasonal-recipes/backend/internal/mocks"
	"github.com/pageza/seasonal-recipes/backend/internal/model"
	"github.com/pageza/seasonal-recipes/backend/internal/service"
	"github.com/pageza/seasonal-recipes/backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testStore() *store.Store {
	return store.New([]model.Recipe{
		{Name: "小米粥", Category: model.CategoryChinese, MealType: []string{model.MealBreakfast}, Ingredients: []string{"小米"}},
		{Name: "清蒸鱼", Category: model.CategoryChinese, MealType: []string{model.MealDinner}, Ingredients: []string{"鲈鱼"}},
		{Name: "希腊沙拉", Category: model.CategoryMediterranean, MealType: []string{model.MealLunch}, Ingredients: []string{"番茄"}},
	})
}

func setupRouter(recommend *mocks.MockRecommendService, search *mocks.MockSearchService) *gin.Engine {
	router := gin.New()
	NewRecipeHandler(recommend, search, testStore()).RegisterRoutes(router.Group("/api"))
	return router
}

func perform(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRecipeHandler_Today(t *testing.T) {
	cal := lunar.Context{
		LunarDate: "正月初一",
		Festivals: []string{"春节"},
		SolarTerm: "",
		Year:      "甲辰",
		Month:     1,
		Day:       1,
		Season:    lunar.Winter,
		Solar:     time.Date(2024, 2, 10, 8, 0, 0, 0, time.Local),
	}

	t.Run("should return three meals", func(t *testing.T) {
		recommend := new(mocks.MockRecommendService)
		recommend.On("Today", model.CategoryMediterranean).Return(&service.DailyMenu{
			Calendar:  cal,
			Breakfast: []model.Recipe{},
			Lunch:     []model.Recipe{{Name: "希腊沙拉", Category: model.CategoryMediterranean}},
			Dinner:    []model.Recipe{},
		}, nil)

		rr := perform(setupRouter(recommend, new(mocks.MockSearchService)), http.MethodGet, "/api/today?diet_type="+url.QueryEscape("地中海"), nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "2024年02月10日", body["date"])
		assert.Equal(t, lunar.Winter, body["season"])
		assert.Equal(t, model.CategoryMediterranean, body["diet_type"])

		lunarInfo := body["lunar"].(map[string]any)
		assert.Equal(t, "正月初一", lunarInfo["lunar_date"])
		assert.Equal(t, []any{"春节"}, lunarInfo["festival"])
		assert.Equal(t, "甲辰", lunarInfo["year"])

		recs := body["recommendations"].(map[string]any)
		assert.Len(t, recs["breakfast"], 0)
		assert.Len(t, recs["lunch"], 1)
		assert.NotNil(t, recs["dinner"])
		recommend.AssertExpectations(t)
	})

	t.Run("should default to Chinese", func(t *testing.T) {
		recommend := new(mocks.MockRecommendService)
		recommend.On("Today", model.CategoryChinese).Return(&service.DailyMenu{Calendar: cal}, nil)

		rr := perform(setupRouter(recommend, new(mocks.MockSearchService)), http.MethodGet, "/api/today", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		recommend.AssertExpectations(t)
	})

	t.Run("should reject unknown diet type", func(t *testing.T) {
		recommend := new(mocks.MockRecommendService)
		recommend.On("Today", "西餐").Return(nil, service.ErrUnknownDietType)

		rr := perform(setupRouter(recommend, new(mocks.MockSearchService)), http.MethodGet, "/api/today?diet_type="+url.QueryEscape("西餐"), nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), service.ErrUnknownDietType.Error())
	})
}

func TestRecipeHandler_Search(t *testing.T) {
	t.Run("should return the search envelope", func(t *testing.T) {
		search := new(mocks.MockSearchService)
		search.On("Search", mock.Anything, service.SearchRequest{Keyword: "白菜", Type: "auto", Page: 1, PageSize: 6}).
			Return(&service.SearchResult{
				Keyword:    "白菜",
				Type:       service.SearchTypeVegetable,
				Source:     service.SourceAugmented,
				Results:    []model.Recipe{},
				AIResponse: "白菜的做法",
				Pagination: service.Pagination{CurrentPage: 1, PageSize: 6},
			}, nil)

		payload := []byte(`{"keyword":"白菜","type":"auto","page":1,"page_size":6}`)
		rr := perform(setupRouter(new(mocks.MockRecommendService), search), http.MethodPost, "/api/search", payload)
		require.Equal(t, http.StatusOK, rr.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "本地+AI", body["source"])
		assert.Equal(t, "白菜的做法", body["api_response"])
		pagination := body["pagination"].(map[string]any)
		assert.Equal(t, float64(1), pagination["current_page"])
		assert.Equal(t, false, pagination["has_more"])
		search.AssertExpectations(t)
	})

	tests := []struct {
		name string
		err  error
	}{
		{"empty keyword", service.ErrEmptyKeyword},
		{"bad pagination", service.ErrInvalidPagination},
		{"bad type", service.ErrInvalidSearchType},
	}
	for _, tt := range tests {
		t.Run("should map "+tt.name+" to 400", func(t *testing.T) {
			search := new(mocks.MockSearchService)
			search.On("Search", mock.Anything, mock.Anything).Return(nil, tt.err)

			rr := perform(setupRouter(new(mocks.MockRecommendService), search), http.MethodPost, "/api/search", []byte(`{"keyword":""}`))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, `{"error":"`+tt.err.Error()+`"}`, rr.Body.String())
		})
	}

	t.Run("should reject malformed JSON", func(t *testing.T) {
		search := new(mocks.MockSearchService)
		rr := perform(setupRouter(new(mocks.MockRecommendService), search), http.MethodPost, "/api/search", []byte(`{"keyword":`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		search.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("should hide unexpected errors", func(t *testing.T) {
		search := new(mocks.MockSearchService)
		search.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("disk on fire"))

		rr := perform(setupRouter(new(mocks.MockRecommendService), search), http.MethodPost, "/api/search", []byte(`{"keyword":"鱼"}`))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "disk on fire")
	})
}

func TestRecipeHandler_ListRecipes(t *testing.T) {
	router := setupRouter(new(mocks.MockRecommendService), new(mocks.MockSearchService))

	t.Run("should page all recipes", func(t *testing.T) {
		rr := perform(router, http.MethodGet, "/api/recipes?page=2&per_page=2", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var body RecipeListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Total)
		assert.Equal(t, 2, body.Page)
		assert.Equal(t, 2, body.PerPage)
		require.Len(t, body.Recipes, 1)
		assert.Equal(t, "希腊沙拉", body.Recipes[0].Name)
	})

	t.Run("should filter by category", func(t *testing.T) {
		rr := perform(router, http.MethodGet, "/api/recipes?category="+url.QueryEscape("中餐"), nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var body RecipeListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Total)
		assert.Equal(t, 20, body.PerPage)
	})

	t.Run("should return an empty page far past the end", func(t *testing.T) {
		rr := perform(router, http.MethodGet, "/api/recipes?page=4611686018427387904&per_page=4", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var body RecipeListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Total)
		assert.Empty(t, body.Recipes)
	})

	for _, query := range []string{"page=0", "page=x", "per_page=0", "per_page=101", "category=" + url.QueryEscape("西餐")} {
		t.Run("should reject "+query, func(t *testing.T) {
			rr := perform(router, http.MethodGet, "/api/recipes?"+query, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestRecipeHandler_Health(t *testing.T) {
	search := new(mocks.MockSearchService)
	search.On("AIEnabled").Return(true)

	rr := perform(setupRouter(new(mocks.MockRecommendService), search), http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"status": "ok",
		"total_recipes": 3,
		"chinese_recipes": 2,
		"mediterranean_recipes": 1,
		"ai_enabled": true
	}`, rr.Body.String())
}
