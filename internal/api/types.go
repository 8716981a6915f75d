package api

import (
	"github.com/pageza/seasonal-recipes/backend/internal/lunar"
	"github.com/pageza/seasonal-recipes/backend/internal/model"
	"github.com/pageza/seasonal-recipes/backend/internal/service"
)

// TodayResponse is the body of GET /today
type TodayResponse struct {
	Date            string            `json:"date"`
	Lunar           lunar.Context     `json:"lunar"`
	Season          string            `json:"season"`
	DietType        string            `json:"diet_type"`
	Recommendations service.DailyMenu `json:"recommendations"`
}

// RecipeListResponse is the body of GET /recipes
type RecipeListResponse struct {
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Recipes []model.Recipe `json:"recipes"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status               string `json:"status"`
	TotalRecipes         int    `json:"total_recipes"`
	ChineseRecipes       int    `json:"chinese_recipes"`
	MediterraneanRecipes int    `json:"mediterranean_recipes"`
	AIEnabled            bool   `json:"ai_enabled"`
}
