package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/seasonal-recipes/backend/internal/model"
	"github.com/pageza/seasonal-recipes/backend/internal/service"
)

// MockRecommendService is a mock implementation of service.IRecommendService
type MockRecommendService struct {
	mock.Mock
}

func (m *MockRecommendService) Recommend(dietCategory, mealSlot string) []model.Recipe {
	args := m.Called(dietCategory, mealSlot)
	return args.Get(0).([]model.Recipe)
}

func (m *MockRecommendService) Today(dietCategory string) (*service.DailyMenu, error) {
	args := m.Called(dietCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DailyMenu), args.Error(1)
}

// MockSearchService is a mock implementation of service.ISearchService
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, req service.SearchRequest) (*service.SearchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

func (m *MockSearchService) AIEnabled() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockGenerator is a mock implementation of service.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

var (
	_ service.IRecommendService = (*MockRecommendService)(nil)
	_ service.ISearchService    = (*MockSearchService)(nil)
	_ service.Generator         = (*MockGenerator)(nil)
)
