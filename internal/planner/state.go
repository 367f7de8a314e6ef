package planner

import (
	"strings"
	"time"

	"mealprep-planner/internal/history"
	"mealprep-planner/internal/recipe"
)

type attribute int

const (
	attrProtein attribute = iota
	attrCuisine
	attrMethod
)

type placement struct {
	recipeID string
	date     time.Time
}

// PlanningState is the running state of one generation: the usage ledger of
// the in-progress plan and the attributes placed on each calendar day.
// It is threaded explicitly through the filter, blocker and selector.
type PlanningState struct {
	ledger []placement
	days   map[string][3]map[string]struct{}
}

// NewPlanningState returns an empty state.
func NewPlanningState() *PlanningState {
	return &PlanningState{days: make(map[string][3]map[string]struct{})}
}

// Record adds a placement and returns the state for chaining.
func (s *PlanningState) Record(r recipe.Recipe, date time.Time) *PlanningState {
	s.ledger = append(s.ledger, placement{recipeID: r.ID, date: date})

	key := date.Format(dateLayout)
	sets, ok := s.days[key]
	if !ok {
		for i := range sets {
			sets[i] = make(map[string]struct{})
		}
	}
	for attr, v := range map[attribute]string{attrProtein: r.Protein, attrCuisine: r.Cuisine, attrMethod: r.Method} {
		if !recipe.IsUnknown(v) {
			sets[attr][normalize(v)] = struct{}{}
		}
	}
	s.days[key] = sets
	return s
}

// UsedInPlan reports whether the recipe has been placed anywhere in the plan.
func (s *PlanningState) UsedInPlan(recipeID string) bool {
	for _, p := range s.ledger {
		if p.recipeID == recipeID {
			return true
		}
	}
	return false
}

// DaysSinceUse returns the smallest calendar-day gap between date and any
// placement of the recipe in the plan; false when it was never placed.
func (s *PlanningState) DaysSinceUse(recipeID string, date time.Time) (int, bool) {
	best, found := 0, false
	for _, p := range s.ledger {
		if p.recipeID != recipeID {
			continue
		}
		gap := history.DayGap(p.date, date)
		if !found || gap < best {
			best, found = gap, true
		}
	}
	return best, found
}

// Placements is the number of recorded placements.
func (s *PlanningState) Placements() int { return len(s.ledger) }

func (s *PlanningState) dayHas(date time.Time, attr attribute, value string) bool {
	sets, ok := s.days[date.Format(dateLayout)]
	if !ok {
		return false
	}
	_, has := sets[attr][value]
	return has
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
