package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mealprep-planner/internal/recipe"
)

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Veggie Scramble", "Vegetable Scramble", 1},
		{"Chicken Tacos", "chicken taco", 1},
		{"Pasta with Tomatoes", "Tomato Pasta", 1},
		{"Beef Stew", "Lentil Soup", 0},
		{"Chicken Curry", "Chicken Soup", 1.0 / 3.0},
		{"", "Anything", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, TokenOverlap(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMatcher_Match(t *testing.T) {
	candidates := []recipe.Recipe{
		{ID: "fruit-bowl", Title: "Fruit Bowl"},
		{ID: "scramble", Title: "Vegetable Scramble"},
		{ID: "tofu-scramble", Title: "Tofu Scramble with Spinach"},
	}
	m := NewMatcher(nil)

	t.Run("ClearlyBest", func(t *testing.T) {
		got, ok := m.Match("Veggie Scramble", candidates)
		assert.True(t, ok)
		assert.Equal(t, "scramble", got.ID)
	})

	t.Run("SinglePositive", func(t *testing.T) {
		got, ok := m.Match("Tropical fruit salad", candidates)
		assert.True(t, ok)
		assert.Equal(t, "fruit-bowl", got.ID)
	})

	t.Run("NoOverlap", func(t *testing.T) {
		_, ok := m.Match("Beef Wellington", candidates)
		assert.False(t, ok)
	})

	t.Run("Ambiguous", func(t *testing.T) {
		_, ok := m.Match("Scramble", []recipe.Recipe{
			{ID: "a", Title: "Egg Scramble"},
			{ID: "b", Title: "Tofu Scramble"},
		})
		assert.False(t, ok)
	})

	t.Run("CustomScore", func(t *testing.T) {
		custom := &Matcher{
			Score:    func(s, c string) float64 { return map[bool]float64{true: 1}[c == "Fruit Bowl"] },
			MinScore: 0.5,
			Margin:   0.1,
			logger:   m.logger,
		}
		got, ok := custom.Match("anything", candidates)
		assert.True(t, ok)
		assert.Equal(t, "fruit-bowl", got.ID)
	})
}
