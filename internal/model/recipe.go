package model

import "strings"

// Diet categories
const (
	CategoryChinese       = "中餐"
	CategoryMediterranean = "地中海"
)

// Meal slots
const (
	MealBreakfast = "早餐"
	MealLunch     = "午餐"
	MealDinner    = "晚餐"
)

// AllSeasons marks a recipe that is in season all year round.
const AllSeasons = "全年"

// Calorie labels
const (
	CaloriesLow    = "低"
	CaloriesMedium = "中"
	CaloriesHigh   = "高"
)

// Recipe is a single record from the recipe data file. Recipes are loaded once and
// never modified afterwards.
type Recipe struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	MealType    []string `json:"meal_type"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Season      string   `json:"season"`
	Festival    string   `json:"festival,omitempty"`
	Calories    string   `json:"calories"`
	Description string   `json:"description,omitempty"`
	CookingTime string   `json:"cooking_time,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Tips        string   `json:"tips,omitempty"`
}

// Key identifies a recipe by value. No numeric id is guaranteed by the data file.
type Key struct {
	Name     string
	Category string
}

// Key returns the identity of the recipe
func (r Recipe) Key() Key {
	return Key{Name: r.Name, Category: r.Category}
}

// ServesMeal reports whether the recipe is suitable for the given meal slot
func (r Recipe) ServesMeal(slot string) bool {
	for _, m := range r.MealType {
		if m == slot {
			return true
		}
	}
	return false
}

// ForFestival reports whether the recipe is a traditional dish of the named festival
func (r Recipe) ForFestival(name string) bool {
	return r.Festival != "" && name != "" && strings.Contains(r.Festival, name)
}

// InSeason reports whether the recipe fits the season label. Recipes tagged for
// several seasons (e.g. "春季,夏季") match each of them.
func (r Recipe) InSeason(season string) bool {
	if r.Season == "" || r.Season == AllSeasons {
		return true
	}
	return season != "" && strings.Contains(r.Season, season)
}

// IsLight reports whether the recipe is low or medium calorie
func (r Recipe) IsLight() bool {
	return r.Calories == CaloriesLow || r.Calories == CaloriesMedium
}

// Matches reports whether keyword is a substring of the name or of any ingredient
func (r Recipe) Matches(keyword string) bool {
	if keyword == "" {
		return false
	}
	if strings.Contains(r.Name, keyword) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(ing, keyword) {
			return true
		}
	}
	return false
}

// Validate returns the names of required fields that are missing
func (r Recipe) Validate() []string {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if !IsDietCategory(r.Category) {
		missing = append(missing, "category")
	}
	if len(r.MealType) == 0 {
		missing = append(missing, "meal_type")
	}
	if len(r.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if r.Calories == "" {
		missing = append(missing, "calories")
	}
	return missing
}

// IsDietCategory reports whether c is a known diet category
func IsDietCategory(c string) bool {
	return c == CategoryChinese || c == CategoryMediterranean
}

// MealSlots lists the meal slots in serving order
func MealSlots() []string {
	return []string{MealBreakfast, MealLunch, MealDinner}
}
