package service

import (
	"errors"
	"math/rand/v2"

	"github.com/pageza/seasonal-recipes/backend/internal/lunar"
	"github.com/pageza/seasonal-recipes/backend/internal/metrics"
	"github.com/pageza/seasonal-recipes/backend/internal/model"
	"github.com/pageza/seasonal-recipes/backend/internal/store"
)

// ErrUnknownDietType is returned for a diet category outside the known set
var ErrUnknownDietType = errors.New("未知的饮食类型")

// Per-meal recommendation limits
const (
	ChineseLimit       = 7
	MediterraneanLimit = 4
)

// LimitFor returns the recommendation limit for a diet category
func LimitFor(dietCategory string) int {
	if dietCategory == model.CategoryChinese {
		return ChineseLimit
	}
	return MediterraneanLimit
}

// globalShuffler uses the goroutine-safe top-level math/rand/v2 source
type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// DailyMenu holds the recommendations for one day
type DailyMenu struct {
	Calendar  lunar.Context  `json:"-"`
	Breakfast []model.Recipe `json:"breakfast"`
	Lunch     []model.Recipe `json:"lunch"`
	Dinner    []model.Recipe `json:"dinner"`
}

// RecommendService selects recipes for a diet category and meal slot
type RecommendService struct {
	store       *store.Store
	calendar    CalendarSource
	shuffler    Shuffler
	preferLight bool
}

// RecommendOption configures a RecommendService
type RecommendOption func(*RecommendService)

// WithShuffler replaces the random source, e.g. with a seeded *rand.Rand in tests
func WithShuffler(s Shuffler) RecommendOption {
	return func(r *RecommendService) {
		r.shuffler = s
	}
}

// WithLightPreference adds a tier favouring low and medium calorie recipes before
// the random fallback.
func WithLightPreference(enabled bool) RecommendOption {
	return func(r *RecommendService) {
		r.preferLight = enabled
	}
}

// NewRecommendService creates a new RecommendService instance
func NewRecommendService(s *store.Store, calendar CalendarSource, opts ...RecommendOption) *RecommendService {
	svc := &RecommendService{
		store:    s,
		calendar: calendar,
		shuffler: globalShuffler{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Recommend returns at most LimitFor(dietCategory) distinct recipes for the meal
// slot, using today's calendar context.
func (s *RecommendService) Recommend(dietCategory, mealSlot string) []model.Recipe {
	return s.RecommendOn(s.calendar.Today(), dietCategory, mealSlot)
}

// Today builds breakfast, lunch and dinner recommendations against a single
// calendar snapshot.
func (s *RecommendService) Today(dietCategory string) (*DailyMenu, error) {
	if !model.IsDietCategory(dietCategory) {
		return nil, ErrUnknownDietType
	}

	cal := s.calendar.Today()
	return &DailyMenu{
		Calendar:  cal,
		Breakfast: s.RecommendOn(cal, dietCategory, model.MealBreakfast),
		Lunch:     s.RecommendOn(cal, dietCategory, model.MealLunch),
		Dinner:    s.RecommendOn(cal, dietCategory, model.MealDinner),
	}, nil
}

// RecommendOn runs the tiered selection against an explicit calendar context:
// festival dishes first, then in-season dishes, then (optionally) light dishes,
// then anything else that fits the meal. Each tier only adds recipes that no
// earlier tier picked.
func (s *RecommendService) RecommendOn(cal lunar.Context, dietCategory, mealSlot string) []model.Recipe {
	base := s.store.Filter(func(r model.Recipe) bool {
		return r.Category == dietCategory && r.ServesMeal(mealSlot)
	})
	if len(base) == 0 {
		metrics.RecordRecommendation(dietCategory, mealSlot, 0)
		return []model.Recipe{}
	}

	limit := LimitFor(dietCategory)
	sel := newSelection(limit)

	for _, festival := range cal.Festivals {
		for _, r := range base {
			if r.ForFestival(festival) {
				sel.add(r)
			}
		}
	}

	sel.fill(s.shuffled(sel.remaining(base, func(r model.Recipe) bool {
		return r.InSeason(cal.Season)
	})))

	if s.preferLight {
		sel.fill(s.shuffled(sel.remaining(base, model.Recipe.IsLight)))
	}

	sel.fill(s.shuffled(sel.remaining(base, nil)))

	out := sel.result()
	metrics.RecordRecommendation(dietCategory, mealSlot, len(out))
	return out
}

func (s *RecommendService) shuffled(pool []model.Recipe) []model.Recipe {
	s.shuffler.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool
}

// selection accumulates picked recipes without duplicates
type selection struct {
	limit  int
	picked []model.Recipe
	seen   map[model.Key]bool
}

func newSelection(limit int) *selection {
	return &selection{
		limit: limit,
		seen:  make(map[model.Key]bool),
	}
}

// add appends r unless it was already picked. It ignores the limit; the result
// is truncated at the end.
func (s *selection) add(r model.Recipe) {
	if s.seen[r.Key()] {
		return
	}
	s.seen[r.Key()] = true
	s.picked = append(s.picked, r)
}

// fill appends from pool until the limit is reached
func (s *selection) fill(pool []model.Recipe) {
	for _, r := range pool {
		if len(s.picked) >= s.limit {
			return
		}
		s.add(r)
	}
}

// remaining returns the recipes from base not yet picked that satisfy keep
func (s *selection) remaining(base []model.Recipe, keep func(model.Recipe) bool) []model.Recipe {
	var out []model.Recipe
	for _, r := range base {
		if s.seen[r.Key()] {
			continue
		}
		if keep != nil && !keep(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *selection) result() []model.Recipe {
	if len(s.picked) > s.limit {
		return s.picked[:s.limit]
	}
	if s.picked == nil {
		return []model.Recipe{}
	}
	return s.picked
}
