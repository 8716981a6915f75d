package service

import (
	"context"

	"github.com/pageza/seasonal-recipes/backend/internal/lunar"
	"github.com/pageza/seasonal-recipes/backend/internal/model"
)

// Generator produces free text for a prompt. A nil Generator means AI augmentation
// is switched off.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CalendarSource supplies the calendar context for the current day
type CalendarSource interface {
	Today() lunar.Context
}

// Shuffler randomizes the order of n elements
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// IRecommendService defines the interface for daily recommendations
type IRecommendService interface {
	Recommend(dietCategory, mealSlot string) []model.Recipe
	Today(dietCategory string) (*DailyMenu, error)
}

// ISearchService defines the interface for keyword search
type ISearchService interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
	AIEnabled() bool
}

var (
	_ Generator         = (*ChatClient)(nil)
	_ IRecommendService = (*RecommendService)(nil)
	_ ISearchService    = (*SearchService)(nil)
	_ CalendarSource    = (*lunar.Provider)(nil)
)
