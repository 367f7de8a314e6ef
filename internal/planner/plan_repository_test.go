package planner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealprep-planner/internal/database"
	"mealprep-planner/internal/recipe"
)

func TestPlanRepository(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "plans.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	repo := NewPlanRepository(db.SQL)
	ctx := context.Background()
	created := time.Date(2026, 1, 18, 10, 0, 0, 0, time.UTC)

	plan := &MealPlan{
		ProfileName: "Sam",
		WeekStart:   monday,
		WeekEnd:     monday.AddDate(0, 0, 6),
		Seed:        42,
		Slots: []MealSlot{{
			Day: 1, Date: monday, MealType: recipe.Dinner, Status: StatusAssigned, Source: SourceFallback,
			Recipe: &recipe.Recipe{ID: "dal", Title: "Dal", Category: recipe.Dinner},
		}},
	}

	id, err := repo.Save(ctx, "01PLAN", plan, 120, "B", created)
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = repo.Save(ctx, "02PLAN", &MealPlan{ProfileName: "Alex", WeekStart: monday, WeekEnd: monday}, 0, "D", created.Add(time.Hour))
	require.NoError(t, err)

	got, err := repo.Get(ctx, "01PLAN")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sam", got.ProfileName)
	assert.Equal(t, uint64(42), got.Seed)
	assert.Equal(t, "B", got.Grade)
	assert.True(t, got.CreatedAt.Equal(created))

	decoded, err := got.Plan()
	require.NoError(t, err)
	require.Len(t, decoded.Slots, 1)
	assert.Equal(t, "dal", decoded.Slots[0].Recipe.ID)

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	sams, err := repo.ListRecentByProfile(ctx, "Sam", 10)
	require.NoError(t, err)
	assert.Len(t, sams, 1)

	all, err := repo.ListRecentByProfile(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "02PLAN", all[0].PlanID)
}
