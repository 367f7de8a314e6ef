package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealprep-planner/internal/planner"
	"mealprep-planner/internal/recipe"
	"mealprep-planner/internal/scoring"
	"mealprep-planner/internal/shopping"
)

func samplePlan() *planner.MealPlan {
	monday := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)
	oats := &recipe.Recipe{ID: "oats", Title: "Overnight Oats", Category: recipe.Breakfast, TotalMinutes: 5}
	dal := &recipe.Recipe{ID: "dal", Title: "Red Lentil Dal", Category: recipe.Dinner, TotalMinutes: 35, Ingredients: []string{"1 cup red lentils"}}
	return &planner.MealPlan{
		ProfileName: "Sam",
		WeekStart:   monday,
		WeekEnd:     monday.AddDate(0, 0, 1),
		Seed:        42,
		Slots: []planner.MealSlot{
			{Day: 1, Date: monday, MealType: recipe.Breakfast, Status: planner.StatusAssigned, Recipe: oats, Source: planner.SourceSuggestion},
			{Day: 1, Date: monday, MealType: recipe.Dinner, Status: planner.StatusAssigned, Recipe: dal, Source: planner.SourceFallback},
			{Day: 2, Date: monday.AddDate(0, 0, 1), MealType: recipe.Breakfast, Status: planner.StatusUnsatisfiable},
		},
	}
}

func TestMarkdown(t *testing.T) {
	plan := samplePlan()
	score := &scoring.Breakdown{
		Total: 5, Grade: "D", Cuisine: 0, Recipes: 50, Constraints: -50,
		UniqueRecipes: 2,
		Violations:    []scoring.Violation{{Kind: scoring.KindUnsatisfiable, Day: 2, MealType: recipe.Breakfast, Detail: "no eligible recipe", Points: -50}},
	}

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, Input{
		Plan:        plan,
		Score:       score,
		Groceries:   shopping.Build(plan.Recipes()),
		GeneratedAt: time.Date(2026, 1, 18, 9, 30, 0, 0, time.UTC),
	}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Meal Plan: Sam\n"))
	assert.Contains(t, out, "- **Week**: 2026-01-19 to 2026-01-20")
	assert.Contains(t, out, "## Monday, January 19")
	assert.Contains(t, out, "- **Breakfast**: Overnight Oats (5 min) _suggested_")
	assert.Contains(t, out, "- **Dinner**: Red Lentil Dal (35 min)\n")
	assert.Contains(t, out, "## Tuesday, January 20")
	assert.Contains(t, out, "- **Breakfast**: _no eligible recipe_")
	assert.Contains(t, out, "**5 points, grade D**")
	assert.Contains(t, out, "- Day 2 breakfast: no eligible recipe (-50)")
	assert.Contains(t, out, "### Pantry")
	assert.Contains(t, out, "- [ ] 1 cup red lentils")
}

func TestMarkdown_WithoutScore(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, Input{Plan: samplePlan(), GeneratedAt: time.Now()}))
	assert.NotContains(t, buf.String(), "Variety Score")
	assert.NotContains(t, buf.String(), "Grocery List")
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plans")
	path, err := WriteFile(dir, Input{Plan: samplePlan(), GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "meal_plan_2026-01-19.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Overnight Oats")
}
