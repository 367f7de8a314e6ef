package planner

import (
	"time"

	"mealprep-planner/internal/history"
	"mealprep-planner/internal/recipe"
)

// SlotStatus is the lifecycle state of a meal slot. A finished slot is
// either StatusAssigned or StatusUnsatisfiable.
type SlotStatus string

const (
	StatusEmpty         SlotStatus = "empty"
	StatusFiltered      SlotStatus = "filtered"
	StatusSuggested     SlotStatus = "suggested"
	StatusAssigned      SlotStatus = "assigned"
	StatusUnsatisfiable SlotStatus = "unsatisfiable"
)

// Source records how an assigned recipe was chosen.
type Source string

const (
	SourceSuggestion Source = "suggestion"
	SourceFallback   Source = "fallback"
)

const dateLayout = "2006-01-02"

// MealSlot is one (day, meal type) position in the plan.
type MealSlot struct {
	Day        int             `json:"day"`
	Date       time.Time       `json:"date"`
	MealType   recipe.MealType `json:"meal_type"`
	Status     SlotStatus      `json:"status"`
	Recipe     *recipe.Recipe  `json:"recipe,omitempty"`
	Source     Source          `json:"source,omitempty"`
	Suggestion string          `json:"suggestion,omitempty"`
	Report     FilterReport    `json:"report"`
}

// Assigned reports whether the slot holds a recipe.
func (s MealSlot) Assigned() bool {
	return s.Status == StatusAssigned && s.Recipe != nil
}

// MealPlan represents a full generated plan, slots in day-then-meal-type order.
type MealPlan struct {
	ProfileName string     `json:"profile_name"`
	WeekStart   time.Time  `json:"week_start"`
	WeekEnd     time.Time  `json:"week_end"`
	Seed        uint64     `json:"seed"`
	Slots       []MealSlot `json:"slots"`
}

// AssignedSlots returns the slots that hold a recipe.
func (p *MealPlan) AssignedSlots() []MealSlot {
	var out []MealSlot
	for _, s := range p.Slots {
		if s.Assigned() {
			out = append(out, s)
		}
	}
	return out
}

// Unsatisfiable counts slots that had no eligible candidate.
func (p *MealPlan) Unsatisfiable() int {
	n := 0
	for _, s := range p.Slots {
		if s.Status == StatusUnsatisfiable {
			n++
		}
	}
	return n
}

// SlotsOn returns the slots of the given plan day (1-based).
func (p *MealPlan) SlotsOn(day int) []MealSlot {
	var out []MealSlot
	for _, s := range p.Slots {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return out
}

// Recipes returns the assigned recipes in slot order, repeats included.
func (p *MealPlan) Recipes() []recipe.Recipe {
	var out []recipe.Recipe
	for _, s := range p.AssignedSlots() {
		out = append(out, *s.Recipe)
	}
	return out
}

// HistoryRecord converts the plan into what the history store persists.
func (p *MealPlan) HistoryRecord() history.Record {
	rec := history.Record{
		WeekStart:   p.WeekStart,
		WeekEnd:     p.WeekEnd,
		ProfileName: p.ProfileName,
	}
	for _, s := range p.AssignedSlots() {
		rec.Usages = append(rec.Usages, history.Usage{
			RecipeID: s.Recipe.ID,
			DateUsed: s.Date.Format(dateLayout),
			MealType: string(s.MealType),
			Title:    s.Recipe.Title,
			Cuisine:  s.Recipe.Cuisine,
		})
	}
	return rec
}
