package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mealprep-planner/internal/recipe"
)

func day(n int) time.Time { return monday.AddDate(0, 0, n) }

func TestBlocker_ProteinStreak(t *testing.T) {
	cfg := weekConfig(t, "2026-01-25", 0, `
blocking:
  protein_blocking:
    enabled: true
    max_consecutive_days: 2
    protein_types: [Chicken, Beef]
`)
	b := NewBlocker(cfg)

	chicken := recipe.Recipe{ID: "c", Protein: "chicken"}
	tofu := recipe.Recipe{ID: "t", Protein: "Tofu"}
	beef := recipe.Recipe{ID: "b", Protein: "Beef"}

	state := NewPlanningState().
		Record(chicken, day(0)).
		Record(chicken, day(1)).
		Record(tofu, day(0)).
		Record(tofu, day(1))

	reason, blocked := b.Check(chicken, day(2), state)
	assert.True(t, blocked)
	assert.Equal(t, ReasonProteinStreak, reason)

	assert.False(t, b.IsBlocked(beef, day(2), state))
	assert.False(t, b.IsBlocked(tofu, day(2), state), "untracked proteins are exempt")
	assert.False(t, b.IsBlocked(recipe.Recipe{Protein: "unknown"}, day(2), state))
	assert.False(t, b.IsBlocked(chicken, day(4), state), "streak must end the day before")
}

func TestBlocker_SameDayCountsOnce(t *testing.T) {
	cfg := weekConfig(t, "2026-01-25", 0, `
blocking:
  protein_blocking: {enabled: true, max_consecutive_days: 2, protein_types: [chicken]}
`)
	b := NewBlocker(cfg)
	chicken := recipe.Recipe{Protein: "Chicken"}

	state := NewPlanningState().Record(chicken, day(1)).Record(chicken, day(1)).Record(chicken, day(1))
	assert.False(t, b.IsBlocked(chicken, day(2), state))
}

func TestBlocker_CuisineTracksEverythingWhenUnlisted(t *testing.T) {
	cfg := weekConfig(t, "2026-01-25", 0, `
blocking:
  cuisine_blocking: {enabled: true, max_consecutive_days: 1}
  cooking_method_blocking: {enabled: true, max_consecutive_days: 2, methods: [fried]}
`)
	b := NewBlocker(cfg)

	state := NewPlanningState().Record(recipe.Recipe{Cuisine: "Italian", Method: "Fried"}, day(0))

	reason, blocked := b.Check(recipe.Recipe{Cuisine: "italian"}, day(1), state)
	assert.True(t, blocked)
	assert.Equal(t, ReasonCuisineStreak, reason)
	assert.False(t, b.IsBlocked(recipe.Recipe{Cuisine: "Thai", Method: "Fried"}, day(1), state))

	state.Record(recipe.Recipe{Cuisine: "Thai", Method: "fried"}, day(1))
	reason, blocked = b.Check(recipe.Recipe{Cuisine: "Mexican", Method: "Fried"}, day(2), state)
	assert.True(t, blocked)
	assert.Equal(t, ReasonMethodStreak, reason)
}

func TestBlocker_DisabledRules(t *testing.T) {
	cfg := weekConfig(t, "2026-01-25", 0, "")
	b := NewBlocker(cfg)

	state := NewPlanningState()
	for i := 0; i < 5; i++ {
		state.Record(recipe.Recipe{Protein: "Chicken", Cuisine: "Thai"}, day(i))
	}
	assert.False(t, b.IsBlocked(recipe.Recipe{Protein: "Chicken", Cuisine: "Thai"}, day(5), state))
}

func TestBlocker_NoCookNight(t *testing.T) {
	cfg := weekConfig(t, "2026-01-25", 0, "")
	cfg.Time.NoCookNights.Enabled = true
	cfg.Time.NoCookNights.Days = []string{"Wednesday"}
	cfg.Time.NoCookNights.MaxPrepMinutes = 15
	b := NewBlocker(cfg)

	slow := recipe.Recipe{TotalMinutes: 30}
	reason, blocked := b.Check(slow, day(2), NewPlanningState())
	assert.True(t, blocked)
	assert.Equal(t, ReasonNoCook, reason)
	assert.False(t, b.IsBlocked(slow, day(1), NewPlanningState()))
	assert.False(t, b.IsBlocked(recipe.Recipe{TotalMinutes: 15}, day(2), NewPlanningState()))
}
