package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipe_Matches(t *testing.T) {
	r := Recipe{Name: "麻婆豆腐", Ingredients: []string{"嫩豆腐", "牛肉末", "豆瓣酱"}}

	tests := []struct {
		name    string
		keyword string
		want    bool
	}{
		{"name substring", "麻婆", true},
		{"ingredient substring", "牛肉", true},
		{"ingredient full", "豆瓣酱", true},
		{"no match", "茄子", false},
		{"empty keyword", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Matches(tt.keyword))
		})
	}
}

func TestRecipe_InSeason(t *testing.T) {
	assert.True(t, Recipe{Season: AllSeasons}.InSeason("冬季"))
	assert.True(t, Recipe{}.InSeason("夏季"), "empty season means all year")
	assert.True(t, Recipe{Season: "春季,夏季"}.InSeason("夏季"))
	assert.False(t, Recipe{Season: "秋季"}.InSeason("春季"))
}

func TestRecipe_ForFestival(t *testing.T) {
	r := Recipe{Festival: "春节,除夕"}
	assert.True(t, r.ForFestival("春节"))
	assert.True(t, r.ForFestival("除夕"))
	assert.False(t, r.ForFestival("中秋节"))
	assert.False(t, Recipe{}.ForFestival("春节"))
	assert.False(t, r.ForFestival(""))
}

func TestRecipe_Validate(t *testing.T) {
	t.Run("complete record", func(t *testing.T) {
		r := Recipe{
			Name:        "番茄炒蛋",
			Category:    CategoryChinese,
			MealType:    []string{MealLunch},
			Ingredients: []string{"番茄", "鸡蛋"},
			Calories:    CaloriesLow,
		}
		assert.Empty(t, r.Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		r := Recipe{Category: "西餐"}
		assert.ElementsMatch(t, []string{"name", "category", "meal_type", "ingredients", "calories"}, r.Validate())
	})
}

func TestRecipe_KeyAndMeal(t *testing.T) {
	a := Recipe{Name: "希腊沙拉", Category: CategoryMediterranean, MealType: []string{MealLunch, MealDinner}}
	b := Recipe{Name: "希腊沙拉", Category: CategoryMediterranean}

	assert.Equal(t, a.Key(), b.Key())
	assert.True(t, a.ServesMeal(MealDinner))
	assert.False(t, a.ServesMeal(MealBreakfast))
	assert.True(t, Recipe{Calories: CaloriesMedium}.IsLight())
	assert.False(t, Recipe{Calories: CaloriesHigh}.IsLight())
}
