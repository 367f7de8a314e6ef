// Package scoring rates the variety of a finished plan.
package scoring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mealprep-planner/internal/constraints"
	"mealprep-planner/internal/history"
	"mealprep-planner/internal/planner"
	"mealprep-planner/internal/recipe"
)

const (
	pointsPerCuisine       = 10
	pointsPerSharedCuisine = -5
	pointsPerRecipe        = 15
	pointsNoRepeats        = 20
	pointsPerRepeat        = -10
	pointsPerUnsatisfiable = -50
	pointsTooFewCuisines   = -20
)

// Violation kinds.
const (
	KindUnsatisfiable  = "unsatisfiable_slot"
	KindRepeat         = "repeat_within_window"
	KindSharedCuisine  = "consecutive_cuisine"
	KindTooFewCuisines = "too_few_cuisines"
)

// Violation is one penalty applied to the plan.
type Violation struct {
	Kind     string          `json:"kind"`
	Day      int             `json:"day,omitempty"`
	MealType recipe.MealType `json:"meal_type,omitempty"`
	Detail   string          `json:"detail"`
	Points   int             `json:"points"`
}

// Breakdown is the itemised score.
type Breakdown struct {
	Total          int         `json:"total"`
	Grade          string      `json:"grade"`
	Cuisine        int         `json:"cuisine"`
	Recipes        int         `json:"recipes"`
	Repetition     int         `json:"repetition"`
	Constraints    int         `json:"constraints"`
	UniqueCuisines []string    `json:"unique_cuisines"`
	UniqueRecipes  int         `json:"unique_recipes"`
	Violations     []Violation `json:"violations,omitempty"`
}

// Grade maps a total to a letter.
func Grade(total int) string {
	switch {
	case total >= 200:
		return "A+"
	case total >= 150:
		return "A"
	case total >= 100:
		return "B"
	case total >= 50:
		return "C"
	case total >= 0:
		return "D"
	default:
		return "F"
	}
}

// Score evaluates the plan against history entries that are live at now.
// It is a pure function of its inputs.
func Score(plan *planner.MealPlan, entries []history.Entry, cfg *constraints.Config, now time.Time) Breakdown {
	var b Breakdown
	assigned := plan.AssignedSlots()

	cuisines := uniqueCuisines(assigned)
	b.UniqueCuisines = cuisines
	b.Cuisine = pointsPerCuisine * len(cuisines)
	for day := 2; day <= lastDay(plan); day++ {
		if shared := sharedCuisine(plan.SlotsOn(day-1), plan.SlotsOn(day)); shared != "" {
			b.Cuisine += pointsPerSharedCuisine
			b.Violations = append(b.Violations, Violation{
				Kind:   KindSharedCuisine,
				Day:    day,
				Detail: fmt.Sprintf("%s on consecutive days", shared),
				Points: pointsPerSharedCuisine,
			})
		}
	}

	ids := make(map[string]struct{})
	for _, s := range assigned {
		ids[s.Recipe.ID] = struct{}{}
	}
	b.UniqueRecipes = len(ids)
	b.Recipes = pointsPerRecipe * len(ids)
	if len(assigned) > 0 && len(ids) == len(assigned) {
		b.Recipes += pointsNoRepeats
	}

	live := history.Live(entries, now)
	window := cfg.MinDaysBetweenRepeats()
	for i, s := range assigned {
		if !repeatedWithin(s, assigned[:i], live, window) {
			continue
		}
		b.Repetition += pointsPerRepeat
		b.Violations = append(b.Violations, Violation{
			Kind:     KindRepeat,
			Day:      s.Day,
			MealType: s.MealType,
			Detail:   fmt.Sprintf("%s repeated within %d days", s.Recipe.Title, window),
			Points:   pointsPerRepeat,
		})
	}

	for _, s := range plan.Slots {
		if s.Status != planner.StatusUnsatisfiable {
			continue
		}
		b.Constraints += pointsPerUnsatisfiable
		b.Violations = append(b.Violations, Violation{
			Kind:     KindUnsatisfiable,
			Day:      s.Day,
			MealType: s.MealType,
			Detail:   "no eligible recipe",
			Points:   pointsPerUnsatisfiable,
		})
	}
	if want := cfg.MinUniqueCuisines(); want > 0 && len(cuisines) < want {
		b.Constraints += pointsTooFewCuisines
		b.Violations = append(b.Violations, Violation{
			Kind:   KindTooFewCuisines,
			Detail: fmt.Sprintf("%d unique cuisines, want at least %d", len(cuisines), want),
			Points: pointsTooFewCuisines,
		})
	}

	b.Total = b.Cuisine + b.Recipes + b.Repetition + b.Constraints
	b.Grade = Grade(b.Total)
	return b
}

func uniqueCuisines(slots []planner.MealSlot) []string {
	seen := make(map[string]string)
	for _, s := range slots {
		if recipe.IsUnknown(s.Recipe.Cuisine) {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(s.Recipe.Cuisine))
		if _, ok := seen[key]; !ok {
			seen[key] = strings.TrimSpace(s.Recipe.Cuisine)
		}
	}
	out := make([]string, 0, len(seen))
	for _, name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// sharedCuisine returns a cuisine present on both days, or "".
func sharedCuisine(prev, cur []planner.MealSlot) string {
	have := make(map[string]struct{})
	for _, s := range prev {
		if s.Assigned() && !recipe.IsUnknown(s.Recipe.Cuisine) {
			have[strings.ToLower(strings.TrimSpace(s.Recipe.Cuisine))] = struct{}{}
		}
	}
	var shared []string
	for _, s := range cur {
		if !s.Assigned() || recipe.IsUnknown(s.Recipe.Cuisine) {
			continue
		}
		if _, ok := have[strings.ToLower(strings.TrimSpace(s.Recipe.Cuisine))]; ok {
			shared = append(shared, strings.TrimSpace(s.Recipe.Cuisine))
		}
	}
	if len(shared) == 0 {
		return ""
	}
	sort.Strings(shared)
	return shared[0]
}

func repeatedWithin(s planner.MealSlot, earlier []planner.MealSlot, entries []history.Entry, window int) bool {
	for _, e := range earlier {
		if e.Recipe.ID == s.Recipe.ID && history.DayGap(e.Date, s.Date) < window {
			return true
		}
	}
	gap, used := history.GapFrom(entries, s.Recipe.ID, s.Date)
	return used && gap < window
}

func lastDay(plan *planner.MealPlan) int {
	last := 0
	for _, s := range plan.Slots {
		if s.Day > last {
			last = s.Day
		}
	}
	return last
}
