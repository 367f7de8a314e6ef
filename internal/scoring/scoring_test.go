package scoring

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealprep-planner/internal/constraints"
	"mealprep-planner/internal/history"
	"mealprep-planner/internal/planner"
	"mealprep-planner/internal/recipe"
)

var monday = time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)

func config(t *testing.T, minDays, minCuisines int) *constraints.Config {
	t.Helper()
	doc := fmt.Sprintf(`
week: {start_date: "2026-01-19", end_date: "2026-01-25"}
meals_per_day: {breakfast: 0, lunch: 0, dinner: 1}
time: {max_weeknight_prep_minutes: 45, max_weekend_prep_minutes: 90}
variety: {min_days_between_repeats: %d}
scoring: {enabled: true, min_unique_cuisines: %d}
`, minDays, minCuisines)
	cfg, err := constraints.Parse(strings.NewReader(doc), "yaml")
	require.NoError(t, err)
	return cfg
}

func dinner(day int, id, cuisine string) planner.MealSlot {
	return planner.MealSlot{
		Day:      day,
		Date:     monday.AddDate(0, 0, day-1),
		MealType: recipe.Dinner,
		Status:   planner.StatusAssigned,
		Recipe:   &recipe.Recipe{ID: id, Title: strings.ToUpper(id), Category: recipe.Dinner, Cuisine: cuisine},
	}
}

func TestGrade(t *testing.T) {
	tests := map[int]string{250: "A+", 200: "A+", 199: "A", 150: "A", 100: "B", 50: "C", 0: "D", -1: "F", -300: "F"}
	for total, want := range tests {
		assert.Equal(t, want, Grade(total), "total %d", total)
	}
}

func TestScore_VariedPlan(t *testing.T) {
	plan := &planner.MealPlan{Slots: []planner.MealSlot{
		dinner(1, "a", "Italian"),
		dinner(2, "b", "Thai"),
		dinner(3, "c", "Mexican"),
	}}

	b := Score(plan, nil, config(t, 3, 0), monday)
	assert.Equal(t, 30, b.Cuisine)
	assert.Equal(t, 3*15+20, b.Recipes)
	assert.Equal(t, 0, b.Repetition)
	assert.Equal(t, 0, b.Constraints)
	assert.Equal(t, 95, b.Total)
	assert.Equal(t, "C", b.Grade)
	assert.Equal(t, []string{"Italian", "Mexican", "Thai"}, b.UniqueCuisines)
	assert.Empty(t, b.Violations)
}

func TestScore_Penalties(t *testing.T) {
	unsat := planner.MealSlot{Day: 4, Date: monday.AddDate(0, 0, 3), MealType: recipe.Dinner, Status: planner.StatusUnsatisfiable}
	plan := &planner.MealPlan{Slots: []planner.MealSlot{
		dinner(1, "a", "Italian"),
		dinner(2, "b", "italian"),
		dinner(3, "a", "Italian"),
		unsat,
	}}
	entries := []history.Entry{
		{ExpiresAt: monday.AddDate(0, 0, 10), Usages: []history.Usage{{RecipeID: "b", DateUsed: "2026-01-18"}}},
		{ExpiresAt: monday.AddDate(0, 0, -1), Usages: []history.Usage{{RecipeID: "a", DateUsed: "2026-01-18"}}},
	}

	b := Score(plan, entries, config(t, 3, 2), monday)

	assert.Equal(t, 10-5-5, b.Cuisine)
	assert.Equal(t, 2*15, b.Recipes, "no bonus when a recipe repeats")
	assert.Equal(t, -20, b.Repetition, "b from history and a within the plan")
	assert.Equal(t, -50-20, b.Constraints)
	assert.Equal(t, 0+30-20-70, b.Total)
	assert.Equal(t, "F", b.Grade)

	kinds := map[string]int{}
	for _, v := range b.Violations {
		kinds[v.Kind]++
	}
	assert.Equal(t, map[string]int{
		KindSharedCuisine:  2,
		KindRepeat:         2,
		KindUnsatisfiable:  1,
		KindTooFewCuisines: 1,
	}, kinds)
}

func TestScore_HistoryExpiringMidWeek(t *testing.T) {
	// Live when the plan is scored, expired by the date of the second slot.
	now := monday.Add(8 * time.Hour)
	entries := []history.Entry{
		{ExpiresAt: monday.Add(36 * time.Hour), Usages: []history.Usage{{RecipeID: "a", DateUsed: "2026-01-18"}}},
	}
	plan := &planner.MealPlan{Slots: []planner.MealSlot{
		dinner(1, "b", "Thai"),
		dinner(3, "a", "Italian"),
	}}

	b := Score(plan, entries, config(t, 7, 0), now)
	assert.Equal(t, pointsPerRepeat, b.Repetition)
	require.Len(t, b.Violations, 1)
	assert.Equal(t, KindRepeat, b.Violations[0].Kind)
	assert.Equal(t, 3, b.Violations[0].Day)
}

func TestScore_AllSlotsUnsatisfiable(t *testing.T) {
	var slots []planner.MealSlot
	for day := 1; day <= 2; day++ {
		for _, mt := range recipe.SlotOrder {
			slots = append(slots, planner.MealSlot{Day: day, Date: monday.AddDate(0, 0, day-1), MealType: mt, Status: planner.StatusUnsatisfiable})
		}
	}

	b := Score(&planner.MealPlan{Slots: slots}, nil, config(t, 7, 0), monday)
	assert.LessOrEqual(t, b.Total, -300)
	assert.Equal(t, "F", b.Grade)
	assert.Equal(t, 0, b.Recipes)
}
